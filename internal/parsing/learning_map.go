// Package parsing turns the loosely structured text returned by the AI
// generator into validated learning map branches. Structural fields
// (titles, subtopic arrays) are hard requirements; decorative fields
// (resources) are defaulted when absent or malformed.
package parsing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bhaveshbalendra/Inagiffy/internal/types"
)

// rawBranch mirrors a branch as the generator emits it, before
// validation.
type rawBranch struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	SubTopics   json.RawMessage `json:"subtopics"`
}

// rawSubTopic mirrors a subtopic as the generator emits it. Resources
// and nested subtopics stay raw so malformed resources can be
// defaulted instead of failing the whole parse.
type rawSubTopic struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Resources   json.RawMessage `json:"resources"`
	SubTopics   json.RawMessage `json:"subtopics"`
}

// ParseBranches parses raw generator output into validated branches.
// The input may be wrapped in a fenced code block (with or without a
// language tag); the wrapper is stripped before parsing.
func ParseBranches(rawText string) ([]types.MainBranch, error) {
	text := stripCodeFence(strings.TrimSpace(rawText))

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ParseError{Reason: ReasonInvalidJSON, Cause: err}
	}

	branchesRaw, ok := doc["branches"]
	if !ok || string(branchesRaw) == "null" {
		return nil, &ParseError{Reason: ReasonMissingBranches}
	}

	var rawBranches []rawBranch
	if err := json.Unmarshal(branchesRaw, &rawBranches); err != nil {
		return nil, &ParseError{Reason: ReasonMissingBranches, Detail: "branches is not an array"}
	}

	branches := make([]types.MainBranch, 0, len(rawBranches))
	for i, rb := range rawBranches {
		branch, err := validateBranch(rb, i)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	return branches, nil
}

// validateBranch checks the hard requirements on a branch: a non-empty
// title and an array-typed subtopics field.
func validateBranch(rb rawBranch, index int) (types.MainBranch, error) {
	if strings.TrimSpace(rb.Title) == "" {
		return types.MainBranch{}, &ParseError{
			Reason: ReasonInvalidBranch,
			Detail: fmt.Sprintf("branches[%d]: title is required", index),
		}
	}

	if len(rb.SubTopics) == 0 || string(rb.SubTopics) == "null" {
		return types.MainBranch{}, &ParseError{
			Reason: ReasonInvalidBranch,
			Detail: fmt.Sprintf("branches[%d]: subtopics array is required", index),
		}
	}

	var rawSubs []rawSubTopic
	if err := json.Unmarshal(rb.SubTopics, &rawSubs); err != nil {
		return types.MainBranch{}, &ParseError{
			Reason: ReasonInvalidBranch,
			Detail: fmt.Sprintf("branches[%d]: subtopics is not an array", index),
		}
	}

	subs, err := validateSubTopics(rawSubs, fmt.Sprintf("branches[%d]", index))
	if err != nil {
		return types.MainBranch{}, err
	}

	return types.MainBranch{
		Title:       rb.Title,
		Description: rb.Description,
		SubTopics:   subs,
	}, nil
}

// validateSubTopics checks each subtopic's hard requirements (title,
// description) and applies the lenient default for resources. Nested
// subtopics are validated recursively.
func validateSubTopics(rawSubs []rawSubTopic, path string) ([]types.SubTopic, error) {
	subs := make([]types.SubTopic, 0, len(rawSubs))
	for i, rs := range rawSubs {
		subPath := fmt.Sprintf("%s.subtopics[%d]", path, i)

		if strings.TrimSpace(rs.Title) == "" || strings.TrimSpace(rs.Description) == "" {
			return nil, &ParseError{
				Reason: ReasonInvalidSubTopic,
				Detail: subPath + ": title and description are required",
			}
		}

		sub := types.SubTopic{
			Title:       rs.Title,
			Description: rs.Description,
			Resources:   parseResources(rs.Resources),
		}

		if len(rs.SubTopics) > 0 && string(rs.SubTopics) != "null" {
			var nested []rawSubTopic
			if err := json.Unmarshal(rs.SubTopics, &nested); err != nil {
				return nil, &ParseError{
					Reason: ReasonInvalidSubTopic,
					Detail: subPath + ": subtopics is not an array",
				}
			}
			children, err := validateSubTopics(nested, subPath)
			if err != nil {
				return nil, err
			}
			sub.SubTopics = children
		}

		subs = append(subs, sub)
	}
	return subs, nil
}

// parseResources decodes a resources field, defaulting to an empty
// slice when the field is missing or malformed. Deliberately lenient:
// a bad resource list never fails a generation.
func parseResources(raw json.RawMessage) []types.Resource {
	if len(raw) == 0 {
		return []types.Resource{}
	}

	var resources []types.Resource
	if err := json.Unmarshal(raw, &resources); err != nil {
		return []types.Resource{}
	}
	if resources == nil {
		return []types.Resource{}
	}
	return resources
}

// stripCodeFence removes a markdown code fence wrapper. Generators
// often wrap JSON in ```json ... ``` blocks even when instructed not to.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip a language tag on the opening fence line.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(text[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
