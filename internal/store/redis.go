package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atmx/score-engine/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Records are immutable, so a cached record never goes stale; the
// recent-list key is invalidated on every write.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, populate record, invalidate lists) ---

func (s *CachedStore) SavePrediction(ctx context.Context, rec *model.PredictionRecord) error {
	if err := s.primary.SavePrediction(ctx, rec); err != nil {
		return err
	}
	s.cacheRecord(ctx, rec)
	s.rdb.Del(ctx, recentKey(), teamKey(rec.BattingTeam))
	return nil
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetPrediction(ctx context.Context, id string) (*model.PredictionRecord, error) {
	data, err := s.rdb.Get(ctx, predictionKey(id)).Bytes()
	if err == nil {
		var rec model.PredictionRecord
		if json.Unmarshal(data, &rec) == nil {
			return &rec, nil
		}
	}

	rec, err := s.primary.GetPrediction(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheRecord(ctx, rec)
	return rec, nil
}

// ListRecent caches one list per limit in a hash so differing page sizes
// don't evict each other.
func (s *CachedStore) ListRecent(ctx context.Context, limit int) ([]model.PredictionRecord, error) {
	return s.cachedList(ctx, recentKey(), limit, func() ([]model.PredictionRecord, error) {
		return s.primary.ListRecent(ctx, limit)
	})
}

func (s *CachedStore) ListByBattingTeam(ctx context.Context, team string, limit int) ([]model.PredictionRecord, error) {
	return s.cachedList(ctx, teamKey(team), limit, func() ([]model.PredictionRecord, error) {
		return s.primary.ListByBattingTeam(ctx, team, limit)
	})
}

// --- Cache helpers ---

func (s *CachedStore) cachedList(ctx context.Context, key string, limit int, load func() ([]model.PredictionRecord, error)) ([]model.PredictionRecord, error) {
	field := fmt.Sprintf("%d", limit)

	data, err := s.rdb.HGet(ctx, key, field).Bytes()
	if err == nil {
		var records []model.PredictionRecord
		if json.Unmarshal(data, &records) == nil {
			return records, nil
		}
	}

	records, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		pipe := s.rdb.TxPipeline()
		pipe.HSet(ctx, key, field, data)
		pipe.Expire(ctx, key, s.ttl)
		pipe.Exec(ctx)
	}
	return records, nil
}

func (s *CachedStore) cacheRecord(ctx context.Context, rec *model.PredictionRecord) {
	if data, err := json.Marshal(rec); err == nil {
		s.rdb.Set(ctx, predictionKey(rec.ID), data, s.ttl)
	}
}

func predictionKey(id string) string { return fmt.Sprintf("prediction:%s", id) }
func recentKey() string              { return "predictions:recent" }
func teamKey(team string) string     { return fmt.Sprintf("predictions:batting:%s", team) }
