package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/atmx/score-engine/internal/model"
)

// MemoryStore implements Store with an in-memory slice. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.PredictionRecord // insertion order
	byID    map[string]int
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]int),
	}
}

func (s *MemoryStore) SavePrediction(_ context.Context, rec *model.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[rec.ID]; ok {
		return fmt.Errorf("prediction %s already exists", rec.ID)
	}
	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, *rec)
	return nil
}

func (s *MemoryStore) GetPrediction(_ context.Context, id string) (*model.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rec := s.records[i]
	return &rec, nil
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int) ([]model.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.newestFirst(limit, func(*model.PredictionRecord) bool { return true }), nil
}

func (s *MemoryStore) ListByBattingTeam(_ context.Context, team string, limit int) ([]model.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.newestFirst(limit, func(r *model.PredictionRecord) bool { return r.BattingTeam == team }), nil
}

// newestFirst walks records backwards. Caller holds the read lock.
func (s *MemoryStore) newestFirst(limit int, keep func(*model.PredictionRecord) bool) []model.PredictionRecord {
	result := []model.PredictionRecord{}
	for i := len(s.records) - 1; i >= 0 && len(result) < limit; i-- {
		if keep(&s.records[i]) {
			result = append(result, s.records[i])
		}
	}
	return result
}
