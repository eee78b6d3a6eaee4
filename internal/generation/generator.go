// Package generation orchestrates learning map creation: prompt
// construction, the AI call, response parsing, optional enrichment,
// and optional persistence. It is the only package that sequences
// those collaborators; every failure leaves as a domain error.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bhaveshbalendra/Inagiffy/internal/apperror"
	"github.com/bhaveshbalendra/Inagiffy/internal/db"
	"github.com/bhaveshbalendra/Inagiffy/internal/llm"
	"github.com/bhaveshbalendra/Inagiffy/internal/parsing"
	"github.com/bhaveshbalendra/Inagiffy/internal/prompts"
	"github.com/bhaveshbalendra/Inagiffy/internal/schemas"
	"github.com/bhaveshbalendra/Inagiffy/internal/types"
)

// Store persists generated maps.
type Store interface {
	CreateLearningMap(ctx context.Context, m *types.LearningMap) (*types.LearningMap, error)
}

// Enricher fills in missing resource metadata on a generated map.
type Enricher interface {
	FillTitles(ctx context.Context, m *types.LearningMap)
}

// Generator produces learning maps from a topic and proficiency level.
type Generator struct {
	client   llm.Client
	store    Store
	enricher Enricher
	logger   *zap.Logger
}

// New constructs a Generator. store and enricher may be nil, in which
// case persistence requests fail and enrichment is skipped.
func New(client llm.Client, store Store, enricher Enricher, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		client:   client,
		store:    store,
		enricher: enricher,
		logger:   logger,
	}
}

// Generate builds a learning map for the topic at the given level. When
// persist is true the map is validated and stored, and the returned copy
// carries its server-generated identifier; a persistence failure fails
// the call even though generation succeeded.
func (g *Generator) Generate(ctx context.Context, topic string, level types.Level, persist bool) (*types.LearningMap, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, apperror.InvalidInput("Topic must not be empty")
	}
	if !level.Valid() {
		return nil, apperror.InvalidInput(fmt.Sprintf("Unknown proficiency level %q", level))
	}

	prompt := BuildPrompt(topic, level)

	g.logger.Info("generating learning map",
		zap.String("topic", topic),
		zap.String("level", string(level)),
		zap.String("model", g.client.Model()),
	)

	raw, err := g.client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, classifyLLMError(err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, apperror.New(apperror.CodeExternalService, "AI service returned an empty response")
	}

	branches, err := parsing.ParseBranches(raw)
	if err != nil {
		// A malformed response is terminal; we do not re-prompt.
		return nil, apperror.Wrap(apperror.CodeExternalService,
			"AI service returned a response that could not be understood", err)
	}

	m := &types.LearningMap{
		Topic:    topic,
		Level:    level,
		Branches: branches,
	}

	g.logger.Info("learning map generated",
		zap.String("topic", topic),
		zap.Int("branches", len(m.Branches)),
		zap.Int("subtopics", m.CountSubTopics()),
	)

	if g.enricher != nil {
		g.enricher.FillTitles(ctx, m)
	}

	if !persist {
		return m, nil
	}
	return g.persist(ctx, m)
}

func (g *Generator) persist(ctx context.Context, m *types.LearningMap) (*types.LearningMap, error) {
	if g.store == nil {
		return nil, apperror.New(apperror.CodeDatabaseQuery, "Persistence is not configured")
	}

	stored, err := g.store.CreateLearningMap(ctx, m)
	if err != nil {
		var ve *schemas.ValidationError
		switch {
		case errors.As(err, &ve):
			return nil, apperror.Validation("Generated map failed validation", ve.Details()...)
		case errors.Is(err, db.ErrDuplicate):
			return nil, apperror.Wrap(apperror.CodeDuplicateKey, "", err)
		default:
			return nil, apperror.Wrap(apperror.CodeDatabaseQuery, "Failed to save learning map", err)
		}
	}

	g.logger.Info("learning map saved", zap.String("id", stored.ID))
	return stored, nil
}

// BuildPrompt renders the generation prompt for a topic and level. The
// rendering is deterministic so prompt changes are reviewable in the
// template file alone.
func BuildPrompt(topic string, level types.Level) string {
	template := prompts.MustGet("generation.json", "generate-learning-map")
	return prompts.Format(template, map[string]string{
		"Topic": topic,
		"Level": string(level),
	})
}
