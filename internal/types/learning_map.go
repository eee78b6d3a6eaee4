// Package types defines the shared data structures for learning map generation.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Level represents the proficiency level a learning map is generated for.
type Level string

// Supported proficiency levels.
const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// ParseLevel normalizes and validates a proficiency level string.
// Matching is case-insensitive; the canonical capitalized form is returned.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return LevelBeginner, nil
	case "intermediate":
		return LevelIntermediate, nil
	case "advanced":
		return LevelAdvanced, nil
	default:
		return "", fmt.Errorf("invalid level %q: must be one of Beginner, Intermediate, Advanced", s)
	}
}

// Valid reports whether the level is one of the supported values.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// ResourceType categorizes a learning resource.
type ResourceType string

// Supported resource types.
const (
	ResourceArticle ResourceType = "article"
	ResourceVideo   ResourceType = "video"
	ResourceBook    ResourceType = "book"
)

// Resource is a single learning resource attached to a subtopic.
type Resource struct {
	Type  ResourceType `json:"type"`
	Title string       `json:"title"`
	URL   string       `json:"url"`
}

// SubTopic is a unit of study within a branch. Subtopics may nest.
// Resources defaults to an empty slice when the generator omits it.
type SubTopic struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Resources   []Resource `json:"resources"`
	SubTopics   []SubTopic `json:"subtopics,omitempty"`
}

// MainBranch is a top-level grouping within a learning map, analogous to a chapter.
type MainBranch struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	SubTopics   []SubTopic `json:"subtopics"`
}

// LearningMap is the hierarchical study plan generated for a topic and level.
// It is constructed transiently per generation request and optionally persisted.
type LearningMap struct {
	ID        string       `json:"id,omitempty"`
	Topic     string       `json:"topic"`
	Level     Level        `json:"level"`
	Branches  []MainBranch `json:"branches"`
	CreatedAt *time.Time   `json:"createdAt,omitempty"`
}

// CountSubTopics returns the total number of subtopics in the map,
// including nested ones. Used for logging and CLI summaries.
func (m *LearningMap) CountSubTopics() int {
	var count func(subs []SubTopic) int
	count = func(subs []SubTopic) int {
		n := len(subs)
		for _, s := range subs {
			n += count(s.SubTopics)
		}
		return n
	}

	total := 0
	for _, b := range m.Branches {
		total += count(b.SubTopics)
	}
	return total
}
