// Package projection estimates a batting side's final innings score from
// partial match state.
//
// The default Predictor is a closed-form heuristic: extrapolate the current
// run rate over the remaining overs, scaled by wickets in hand, then add a
// recent-momentum term, a team strength term and a small per-venue offset.
// It is pure and total, and never projects below the current score.
package projection

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/atmx/score-engine/internal/model"
	"github.com/atmx/score-engine/internal/overs"
)

// Predictor produces a final score prediction for one match state. A trained
// model can satisfy this in place of the heuristic.
type Predictor interface {
	Name() string
	Predict(state model.MatchState, derived model.DerivedState) int
}

// StrengthTable resolves a team name to its strength score.
type StrengthTable interface {
	Strength(team string) int
}

// Heuristic weights.
const (
	AllOutRateFactor  = 0.8
	BaseRateFactor    = 0.9
	PerWicketUplift   = 0.01
	LastFiveWeight    = 0.6
	BattingWeight     = 0.6
	BowlingWeight     = 0.4
	VenueBiasStep     = 0.3
	venueBiasBuckets  = 7
	venueBiasMidpoint = 3
)

// Derive runs the overs parser and computes balls left, wickets left and the
// current run rate. Balls bowled is capped at a full innings.
func Derive(s model.MatchState) model.DerivedState {
	balls, oversBowled := overs.Parse(s.OversText)
	if balls > model.InningsBalls {
		balls = model.InningsBalls
	}

	wicketsLeft := model.MaxWickets - s.WicketsLost
	if wicketsLeft < 0 {
		wicketsLeft = 0
	}
	if wicketsLeft > model.MaxWickets {
		wicketsLeft = model.MaxWickets
	}

	var crr float64
	if oversBowled > 0 {
		crr = float64(s.CurrentScore) / oversBowled
	}

	return model.DerivedState{
		BallsBowled:    balls,
		BallsLeft:      model.InningsBalls - balls,
		WicketsLeft:    wicketsLeft,
		OversBowled:    oversBowled,
		CurrentRunRate: crr,
	}
}

// Heuristic is the default Predictor.
type Heuristic struct {
	teams StrengthTable
}

// NewHeuristic creates a heuristic projector backed by the given strength
// table. A nil table treats every team as neutral.
func NewHeuristic(teams StrengthTable) *Heuristic {
	return &Heuristic{teams: teams}
}

// Name identifies the predictor in records and metrics.
func (h *Heuristic) Name() string { return "heuristic" }

// ExpectedScoringRate is the run rate assumed for the rest of the innings:
//
//	0.8 × crr                          when no wickets are left
//	crr × (0.9 + 0.01 × min(w, 10))    otherwise
func ExpectedScoringRate(crr float64, wicketsLeft int) float64 {
	if wicketsLeft <= 0 {
		return AllOutRateFactor * crr
	}
	w := min(wicketsLeft, model.MaxWickets)
	return crr * (BaseRateFactor + PerWicketUplift*float64(w))
}

// TeamInfluence is 0.6 × batting strength − 0.4 × bowling strength.
func (h *Heuristic) TeamInfluence(batting, bowling string) float64 {
	if h.teams == nil {
		return 0
	}
	return BattingWeight*float64(h.teams.Strength(batting)) -
		BowlingWeight*float64(h.teams.Strength(bowling))
}

// VenueBias is a small deterministic per-city offset in [-0.9, 0.9]:
//
//	((xxhash64(city) mod 7) − 3) × 0.3
//
// xxHash64 is pinned so the offset is the same across processes.
func VenueBias(city string) float64 {
	bucket := int(xxhash.Sum64String(city) % venueBiasBuckets)
	return float64(bucket-venueBiasMidpoint) * VenueBiasStep
}

// raw returns the unrounded, unfloored projection.
func (h *Heuristic) raw(s model.MatchState, d model.DerivedState) float64 {
	rate := ExpectedScoringRate(d.CurrentRunRate, d.WicketsLeft)
	oversRemaining := float64(max(0, d.BallsLeft)) / overs.BallsPerOver
	additional := rate * oversRemaining

	return float64(s.CurrentScore) +
		additional +
		LastFiveWeight*float64(s.LastFiveOversRuns) +
		h.TeamInfluence(s.BattingTeam, s.BowlingTeam) +
		VenueBias(s.City)
}

// maxRounded bounds raw projections that are rounded back to int.
const maxRounded = 1 << 30

// Predict returns the raw projection rounded to the nearest run, ties to even,
// and never less than the current score. Out-of-range projections return the
// current score.
func (h *Heuristic) Predict(s model.MatchState, d model.DerivedState) int {
	r := h.raw(s, d)
	if math.IsNaN(r) || r >= maxRounded || r <= -maxRounded {
		return s.CurrentScore
	}
	p := int(math.RoundToEven(r))
	if p < s.CurrentScore {
		return s.CurrentScore
	}
	return p
}
