// Package form parses submitted prediction fields into a MatchState.
//
// It is the only place where user input can be rejected: integer fields must
// be present and numeric, and within the ranges an innings allows. The overs
// field is free text and is handed to the overs parser untouched.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/atmx/score-engine/internal/model"
)

// Field names, as posted by the HTML form and accepted in JSON bodies.
const (
	FieldBattingTeam  = "batting_team"
	FieldBowlingTeam  = "bowling_team"
	FieldCity         = "city"
	FieldCurrentScore = "current_score"
	FieldOvers        = "overs"
	FieldWickets      = "wickets"
	FieldLastFive     = "last_five"
)

// MaxRuns bounds the run fields. No T20 innings comes close.
const MaxRuns = 1000

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("form: invalid input")

// ValidationError describes one rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Fields is a flat set of submitted values keyed by field name.
type Fields map[string]string

// FromValues takes the first value of each key from a parsed HTML form.
func FromValues(v url.Values) Fields {
	f := make(Fields, len(v))
	for k, vs := range v {
		if len(vs) > 0 {
			f[k] = vs[0]
		}
	}
	return f
}

// FromJSON accepts a JSON object whose values are strings or numbers.
// Anything else is kept as its raw JSON text so Parse can reject it.
func FromJSON(raw map[string]json.RawMessage) Fields {
	f := make(Fields, len(raw))
	for k, msg := range raw {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			f[k] = s
			continue
		}
		if string(msg) == "null" {
			continue
		}
		f[k] = string(msg)
	}
	return f
}

// Parse validates f and builds a MatchState. The first invalid field is
// reported as a *ValidationError.
func Parse(f Fields) (model.MatchState, error) {
	var s model.MatchState
	var err error

	if s.BattingTeam, err = requireText(f, FieldBattingTeam); err != nil {
		return model.MatchState{}, err
	}
	if s.BowlingTeam, err = requireText(f, FieldBowlingTeam); err != nil {
		return model.MatchState{}, err
	}
	if s.City, err = requireText(f, FieldCity); err != nil {
		return model.MatchState{}, err
	}
	if s.CurrentScore, err = requireInt(f, FieldCurrentScore, 0, MaxRuns); err != nil {
		return model.MatchState{}, err
	}
	if s.OversText, err = requireText(f, FieldOvers); err != nil {
		return model.MatchState{}, err
	}
	if s.WicketsLost, err = requireInt(f, FieldWickets, 0, model.MaxWickets); err != nil {
		return model.MatchState{}, err
	}
	if s.LastFiveOversRuns, err = requireInt(f, FieldLastFive, 0, MaxRuns); err != nil {
		return model.MatchState{}, err
	}
	return s, nil
}

func requireText(f Fields, key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", &ValidationError{Field: key, Reason: "is required"}
	}
	return strings.TrimSpace(v), nil
}

// requireInt parses key as a base-10 integer in [lo, hi].
func requireInt(f Fields, key string, lo, hi int) (int, error) {
	v, ok := f[key]
	if !ok {
		return 0, &ValidationError{Field: key, Reason: "is required"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ValidationError{Field: key, Reason: fmt.Sprintf("must be an integer, got %q", v)}
	}
	if n < lo || n > hi {
		return 0, &ValidationError{Field: key, Reason: fmt.Sprintf("must be between %d and %d, got %d", lo, hi, n)}
	}
	return n, nil
}
