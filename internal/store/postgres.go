package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atmx/score-engine/internal/model"
)

// Schema creates the predictions table. Run once at startup.
const Schema = `CREATE TABLE IF NOT EXISTS predictions (
	id               TEXT        PRIMARY KEY,
	batting_team     TEXT        NOT NULL,
	bowling_team     TEXT        NOT NULL,
	city             TEXT        NOT NULL,
	current_score    INTEGER     NOT NULL,
	overs_text       TEXT        NOT NULL,
	wickets_lost     INTEGER     NOT NULL,
	last_five        INTEGER     NOT NULL,
	balls_bowled     INTEGER     NOT NULL,
	balls_left       INTEGER     NOT NULL,
	wickets_left     INTEGER     NOT NULL,
	current_run_rate NUMERIC     NOT NULL,
	predictor        TEXT        NOT NULL,
	score            INTEGER     NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at DESC);
CREATE INDEX IF NOT EXISTS predictions_batting_team_idx ON predictions (batting_team, created_at DESC);`

const selectColumns = `id, batting_team, bowling_team, city, current_score, overs_text,
	wickets_lost, last_five, balls_bowled, balls_left, wickets_left,
	current_run_rate::TEXT, predictor, score, created_at`

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Run rate is stored as NUMERIC.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies Schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate predictions: %w", err)
	}
	return nil
}

func (s *PostgresStore) SavePrediction(ctx context.Context, r *model.PredictionRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO predictions (id, batting_team, bowling_team, city, current_score, overs_text,
		                          wickets_lost, last_five, balls_bowled, balls_left, wickets_left,
		                          current_run_rate, predictor, score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::NUMERIC, $13, $14, $15)`,
		r.ID, r.BattingTeam, r.BowlingTeam, r.City, r.CurrentScore, r.OversText,
		r.WicketsLost, r.LastFive, r.BallsBowled, r.BallsLeft, r.WicketsLeft,
		r.CurrentRunRate.String(), r.Predictor, r.Score, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save prediction %s: %w", r.ID, err)
	}
	return nil
}

func (s *PostgresStore) GetPrediction(ctx context.Context, id string) (*model.PredictionRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM predictions WHERE id = $1`, id)

	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction %s: %w", id, err)
	}
	return r, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]model.PredictionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM predictions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresStore) ListByBattingTeam(ctx context.Context, team string, limit int) ([]model.PredictionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM predictions
		 WHERE batting_team = $1 ORDER BY created_at DESC LIMIT $2`, team, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.PredictionRecord, error) {
	var r model.PredictionRecord
	var crr string
	if err := row.Scan(&r.ID, &r.BattingTeam, &r.BowlingTeam, &r.City, &r.CurrentScore, &r.OversText,
		&r.WicketsLost, &r.LastFive, &r.BallsBowled, &r.BallsLeft, &r.WicketsLeft,
		&crr, &r.Predictor, &r.Score, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.CurrentRunRate, _ = decimal.NewFromString(crr)
	return &r, nil
}

func scanRecords(rows pgx.Rows) ([]model.PredictionRecord, error) {
	records := []model.PredictionRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}
