package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atmx/score-engine/internal/model"
)

func seedRecord(t *testing.T, s *MemoryStore, id, batting string, score int) *model.PredictionRecord {
	t.Helper()
	rec := &model.PredictionRecord{
		ID:             id,
		BattingTeam:    batting,
		BowlingTeam:    "Australia",
		City:           "Mumbai",
		CurrentScore:   100,
		OversText:      "15",
		CurrentRunRate: decimal.RequireFromString("6.67"),
		Predictor:      "heuristic",
		Score:          score,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.SavePrediction(context.Background(), rec); err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}
	return rec
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s, "p1", "India", 158)

	got, err := s.GetPrediction(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 158 || got.BattingTeam != "India" {
		t.Errorf("unexpected record: %+v", got)
	}
	if !got.CurrentRunRate.Equal(decimal.RequireFromString("6.67")) {
		t.Errorf("expected run rate 6.67, got %s", got.CurrentRunRate)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s, "p1", "India", 158)

	got, _ := s.GetPrediction(context.Background(), "p1")
	got.Score = 1

	again, _ := s.GetPrediction(context.Background(), "p1")
	if again.Score != 158 {
		t.Errorf("stored record was mutated through a returned pointer")
	}
}

func TestMemoryStore_DuplicateID(t *testing.T) {
	s := NewMemoryStore()
	rec := seedRecord(t, s, "p1", "India", 158)
	if err := s.SavePrediction(context.Background(), rec); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetPrediction(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListRecentNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		seedRecord(t, s, fmt.Sprintf("p%d", i), "India", 150+i)
	}

	recs, err := s.ListRecent(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, want := range []string{"p4", "p3", "p2"} {
		if recs[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, recs[i].ID)
		}
	}
}

func TestMemoryStore_ListRecentEmpty(t *testing.T) {
	s := NewMemoryStore()
	recs, err := s.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", recs)
	}
}

func TestMemoryStore_ListByBattingTeam(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s, "a", "India", 150)
	seedRecord(t, s, "b", "England", 160)
	seedRecord(t, s, "c", "India", 170)

	recs, err := s.ListByBattingTeam(context.Background(), "India", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 India records, got %d", len(recs))
	}
	if recs[0].ID != "c" || recs[1].ID != "a" {
		t.Errorf("unexpected order: %s, %s", recs[0].ID, recs[1].ID)
	}

	none, _ := s.ListByBattingTeam(context.Background(), "Nepal", 10)
	if len(none) != 0 {
		t.Errorf("expected no Nepal records, got %d", len(none))
	}
}
