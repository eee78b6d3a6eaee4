package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bhaveshbalendra/Inagiffy/internal/schemas"
	"github.com/bhaveshbalendra/Inagiffy/internal/types"
)

//go:embed learning_map.schema.json
var learningMapSchema string

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// ErrDuplicate indicates an insert collided with an existing row.
var ErrDuplicate = errors.New("learning map already exists")

// mapDocument is the persisted JSON shape, validated against the
// embedded schema. Resource type enum and URL format checks live in
// the schema, not in the parser.
type mapDocument struct {
	Topic    string             `json:"topic"`
	Level    types.Level        `json:"level"`
	Branches []types.MainBranch `json:"branches"`
}

// ValidateDocument checks a learning map against the persistence
// schema. Returns a *schemas.ValidationError on violation.
func ValidateDocument(m *types.LearningMap) error {
	doc, err := json.Marshal(mapDocument{Topic: m.Topic, Level: m.Level, Branches: m.Branches})
	if err != nil {
		return fmt.Errorf("failed to marshal learning map: %w", err)
	}
	return schemas.Validate(learningMapSchema, string(doc))
}

// CreateLearningMap validates and stores a learning map, returning the
// stored copy with its server-generated identifier and timestamp.
// Create-only: maps are never updated or deleted.
func (db *DB) CreateLearningMap(ctx context.Context, m *types.LearningMap) (*types.LearningMap, error) {
	if err := ValidateDocument(m); err != nil {
		return nil, err
	}

	branchesJSON, err := json.Marshal(m.Branches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal branches: %w", err)
	}

	var (
		id        uuid.UUID
		createdAt time.Time
	)
	err = db.pool.QueryRow(ctx,
		`INSERT INTO learning_maps (topic, level, branches)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.Topic, string(m.Level), branchesJSON,
	).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create learning map: %w", err)
	}

	stored := *m
	stored.ID = id.String()
	stored.CreatedAt = &createdAt
	return &stored, nil
}

// GetLearningMap retrieves a learning map by its identifier. Returns
// (nil, nil) when absent and ErrMalformedID when id is not a UUID.
func (db *DB) GetLearningMap(ctx context.Context, id string) (*types.LearningMap, error) {
	mapID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	var (
		m            types.LearningMap
		branchesJSON []byte
		createdAt    time.Time
	)
	err = db.pool.QueryRow(ctx,
		`SELECT id, topic, level, branches, created_at
		 FROM learning_maps WHERE id = $1`,
		mapID,
	).Scan(&m.ID, &m.Topic, &m.Level, &branchesJSON, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learning map: %w", err)
	}

	if err := json.Unmarshal(branchesJSON, &m.Branches); err != nil {
		return nil, fmt.Errorf("failed to decode stored branches: %w", err)
	}
	m.CreatedAt = &createdAt
	return &m, nil
}
