// Package predict provides the HTTP handlers for score predictions: the HTML
// form, the JSON API, prediction history, and the reference lists of teams
// and venues.
package predict

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atmx/score-engine/internal/form"
	"github.com/atmx/score-engine/internal/metrics"
	"github.com/atmx/score-engine/internal/model"
	"github.com/atmx/score-engine/internal/projection"
	"github.com/atmx/score-engine/internal/roster"
	"github.com/atmx/score-engine/internal/store"
)

const defaultListLimit = 50

// Service handles prediction requests. It holds no per-request state; the
// predictor and team table are read-only.
type Service struct {
	store     store.Store
	predictor projection.Predictor
	teams     *roster.Table
	maxList   int
	wsHub     *WSHub // optional WebSocket hub for prediction events
	now       func() time.Time
}

// NewService creates a new prediction service. maxList caps the history
// endpoint's limit parameter. Pass nil for hub if WebSocket broadcasting is
// not needed.
func NewService(st store.Store, p projection.Predictor, teams *roster.Table, maxList int, hub *WSHub) *Service {
	if maxList <= 0 {
		maxList = 500
	}
	return &Service{
		store:     st,
		predictor: p,
		teams:     teams,
		maxList:   maxList,
		wsHub:     hub,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// --- Response types ---

// TeamInfo is one entry of GET /api/v1/teams.
type TeamInfo struct {
	Name     string `json:"name"`
	Strength int    `json:"strength"`
}

// CityInfo is one entry of GET /api/v1/cities.
type CityInfo struct {
	Name      string          `json:"name"`
	VenueBias decimal.Decimal `json:"venue_bias"`
}

// Predict validates fields, projects the final score, records the result
// and broadcasts it. Only validation errors are returned; a failed history
// write is logged and the prediction still stands.
func (s *Service) Predict(ctx context.Context, fields form.Fields) (*model.PredictionRecord, error) {
	state, err := form.Parse(fields)
	if err != nil {
		var ve *form.ValidationError
		if errors.As(err, &ve) {
			metrics.ValidationRejections.WithLabelValues(ve.Field).Inc()
		}
		return nil, err
	}

	start := time.Now()
	derived := projection.Derive(state)
	score := s.predictor.Predict(state, derived)
	metrics.ProjectionLatency.WithLabelValues(s.predictor.Name()).Observe(time.Since(start).Seconds())
	metrics.PredictionsTotal.WithLabelValues(s.predictor.Name()).Inc()
	metrics.ProjectedRuns.Observe(float64(score - state.CurrentScore))

	rec := model.NewPredictionRecord(uuid.New().String(), state, derived, s.predictor.Name(), score, s.now())

	if err := s.store.SavePrediction(ctx, rec); err != nil {
		metrics.StoreErrors.Inc()
		slog.Error("failed to record prediction", "id", rec.ID, "err", err)
	}

	slog.Info("prediction made",
		"id", rec.ID,
		"batting", state.BattingTeam,
		"bowling", state.BowlingTeam,
		"city", state.City,
		"current_score", state.CurrentScore,
		"balls_left", derived.BallsLeft,
		"wickets_left", derived.WicketsLeft,
		"crr", rec.CurrentRunRate.String(),
		"score", score,
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:         "prediction_made",
			PredictionID: rec.ID,
			BattingTeam:  rec.BattingTeam,
			BowlingTeam:  rec.BowlingTeam,
			City:         rec.City,
			CurrentScore: rec.CurrentScore,
			Score:        rec.Score,
		})
	}

	return rec, nil
}

// --- HTTP Handlers ---

// PredictJSON handles POST /api/v1/predict
func (s *Service) PredictJSON(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := s.Predict(r.Context(), form.FromJSON(raw))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// GetPrediction handles GET /api/v1/predictions/{predictionID}
func (s *Service) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "predictionID")

	rec, err := s.store.GetPrediction(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, "prediction not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to load prediction", "id", id, "err", err)
		writeError(w, "failed to load prediction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListPredictions handles GET /api/v1/predictions
// Returns recent records, optionally filtered by ?batting_team=<name>.
func (s *Service) ListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := s.parseLimit(r)
	ctx := r.Context()

	var (
		recs []model.PredictionRecord
		err  error
	)
	if team := r.URL.Query().Get("batting_team"); team != "" {
		recs, err = s.store.ListByBattingTeam(ctx, team, limit)
	} else {
		recs, err = s.store.ListRecent(ctx, limit)
	}
	if err != nil {
		slog.Error("failed to list predictions", "err", err)
		writeError(w, "failed to list predictions", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []model.PredictionRecord{}
	}

	writeJSON(w, http.StatusOK, recs)
}

// ListTeams handles GET /api/v1/teams
func (s *Service) ListTeams(w http.ResponseWriter, _ *http.Request) {
	names := s.teams.Teams()
	teams := make([]TeamInfo, 0, len(names))
	for _, name := range names {
		teams = append(teams, TeamInfo{Name: name, Strength: s.teams.Strength(name)})
	}
	writeJSON(w, http.StatusOK, teams)
}

// ListCities handles GET /api/v1/cities
func (s *Service) ListCities(w http.ResponseWriter, _ *http.Request) {
	names := roster.Cities()
	cities := make([]CityInfo, 0, len(names))
	for _, name := range names {
		bias := decimal.NewFromFloat(projection.VenueBias(name)).Round(1)
		cities = append(cities, CityInfo{Name: name, VenueBias: bias})
	}
	writeJSON(w, http.StatusOK, cities)
}

// parseLimit reads ?limit=, defaulting to 50 and capped at maxList.
func (s *Service) parseLimit(r *http.Request) int {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > s.maxList {
		limit = s.maxList
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
