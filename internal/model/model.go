// Package model defines the core domain types shared across the score engine.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Innings limits for a T20 innings.
const (
	InningsBalls = 120
	MaxWickets   = 10
)

// MatchState is the partial match state submitted for one prediction.
// It is constructed per request and never mutated.
type MatchState struct {
	BattingTeam       string `json:"batting_team"`
	BowlingTeam       string `json:"bowling_team"`
	City              string `json:"city"`
	CurrentScore      int    `json:"current_score"`
	OversText         string `json:"overs"`     // raw notation, e.g. "10.4"
	WicketsLost       int    `json:"wickets"`   // [0,10]
	LastFiveOversRuns int    `json:"last_five"` // runs in the most recent five overs
}

// DerivedState holds the quantities computed from a MatchState before
// projection.
type DerivedState struct {
	BallsBowled    int     `json:"balls_bowled"` // [0,120]
	BallsLeft      int     `json:"balls_left"`
	WicketsLeft    int     `json:"wickets_left"` // [0,10]
	OversBowled    float64 `json:"overs_bowled"`
	CurrentRunRate float64 `json:"current_run_rate"`
}

// PredictionRecord is an immutable record of one prediction.
// Once created, these are never modified or deleted.
type PredictionRecord struct {
	ID             string          `json:"id" db:"id"`
	BattingTeam    string          `json:"batting_team" db:"batting_team"`
	BowlingTeam    string          `json:"bowling_team" db:"bowling_team"`
	City           string          `json:"city" db:"city"`
	CurrentScore   int             `json:"current_score" db:"current_score"`
	OversText      string          `json:"overs" db:"overs_text"`
	WicketsLost    int             `json:"wickets" db:"wickets_lost"`
	LastFive       int             `json:"last_five" db:"last_five"`
	BallsBowled    int             `json:"balls_bowled" db:"balls_bowled"`
	BallsLeft      int             `json:"balls_left" db:"balls_left"`
	WicketsLeft    int             `json:"wickets_left" db:"wickets_left"`
	CurrentRunRate decimal.Decimal `json:"current_run_rate" db:"current_run_rate"` // 2 dp
	Predictor      string          `json:"predictor" db:"predictor"`
	Score          int             `json:"score" db:"score"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// NewPredictionRecord assembles a record from its inputs. ID and CreatedAt
// are supplied by the caller.
func NewPredictionRecord(id string, s MatchState, d DerivedState, predictor string, score int, at time.Time) *PredictionRecord {
	return &PredictionRecord{
		ID:             id,
		BattingTeam:    s.BattingTeam,
		BowlingTeam:    s.BowlingTeam,
		City:           s.City,
		CurrentScore:   s.CurrentScore,
		OversText:      s.OversText,
		WicketsLost:    s.WicketsLost,
		LastFive:       s.LastFiveOversRuns,
		BallsBowled:    d.BallsBowled,
		BallsLeft:      d.BallsLeft,
		WicketsLeft:    d.WicketsLeft,
		CurrentRunRate: decimal.NewFromFloat(d.CurrentRunRate).Round(2),
		Predictor:      predictor,
		Score:          score,
		CreatedAt:      at,
	}
}
