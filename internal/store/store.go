// Package store defines the persistence interface for prediction history.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing and single-node use).
package store

import (
	"context"
	"errors"

	"github.com/atmx/score-engine/internal/model"
)

// ErrNotFound is returned when a prediction record does not exist.
var ErrNotFound = errors.New("store: prediction not found")

// Store is the persistence interface. Records are append-only.
type Store interface {
	// SavePrediction appends an immutable prediction record.
	SavePrediction(ctx context.Context, rec *model.PredictionRecord) error

	// GetPrediction retrieves a record by ID.
	GetPrediction(ctx context.Context, id string) (*model.PredictionRecord, error)

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.PredictionRecord, error)

	// ListByBattingTeam returns up to limit records for one batting team,
	// newest first.
	ListByBattingTeam(ctx context.Context, team string, limit int) ([]model.PredictionRecord, error)
}
