package form

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"
)

func validFields() Fields {
	return Fields{
		FieldBattingTeam:  "India",
		FieldBowlingTeam:  "Australia",
		FieldCity:         "Mumbai",
		FieldCurrentScore: "100",
		FieldOvers:        "15",
		FieldWickets:      "2",
		FieldLastFive:     "40",
	}
}

func TestParse_Valid(t *testing.T) {
	s, err := Parse(validFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BattingTeam != "India" || s.BowlingTeam != "Australia" || s.City != "Mumbai" {
		t.Errorf("unexpected names: %+v", s)
	}
	if s.CurrentScore != 100 || s.WicketsLost != 2 || s.LastFiveOversRuns != 40 {
		t.Errorf("unexpected numbers: %+v", s)
	}
	if s.OversText != "15" {
		t.Errorf("expected overs text 15, got %q", s.OversText)
	}
}

func TestParse_TrimsIntegers(t *testing.T) {
	f := validFields()
	f[FieldCurrentScore] = " 87 "
	s, err := Parse(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CurrentScore != 87 {
		t.Errorf("expected 87, got %d", s.CurrentScore)
	}
}

func TestParse_GarbageOversAccepted(t *testing.T) {
	f := validFields()
	f[FieldOvers] = "not overs"
	if _, err := Parse(f); err != nil {
		t.Errorf("overs is free text and must not be rejected: %v", err)
	}
}

func TestParse_MissingField(t *testing.T) {
	keys := []string{
		FieldBattingTeam, FieldBowlingTeam, FieldCity,
		FieldCurrentScore, FieldOvers, FieldWickets, FieldLastFive,
	}
	for _, key := range keys {
		f := validFields()
		delete(f, key)

		_, err := Parse(f)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("missing %s: expected ErrInvalidInput, got %v", key, err)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != key {
			t.Errorf("missing %s: expected ValidationError on that field, got %v", key, err)
		}
	}
}

func TestParse_NonNumeric(t *testing.T) {
	tests := []struct {
		field, value string
	}{
		{FieldCurrentScore, "lots"},
		{FieldCurrentScore, "12.0"},
		{FieldCurrentScore, ""},
		{FieldWickets, "two"},
		{FieldLastFive, "4o"},
	}
	for _, tt := range tests {
		f := validFields()
		f[tt.field] = tt.value
		_, err := Parse(f)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s=%q: expected ErrInvalidInput, got %v", tt.field, tt.value, err)
			continue
		}
		if !strings.Contains(err.Error(), "must be an integer") {
			t.Errorf("%s=%q: unexpected message %q", tt.field, tt.value, err.Error())
		}
	}
}

func TestParse_OutOfRange(t *testing.T) {
	tests := []struct {
		field, value string
	}{
		{FieldCurrentScore, "-1"},
		{FieldWickets, "-1"},
		{FieldWickets, "11"},
		{FieldLastFive, "-5"},
		{FieldCurrentScore, "1001"},
		{FieldCurrentScore, "9007199254740993"},
		{FieldCurrentScore, "9223372036854775807"},
		{FieldLastFive, "1001"},
	}
	for _, tt := range tests {
		f := validFields()
		f[tt.field] = tt.value
		if _, err := Parse(f); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s=%q: expected ErrInvalidInput, got %v", tt.field, tt.value, err)
		}
	}
}

func TestParse_WicketBounds(t *testing.T) {
	for _, v := range []string{"0", "10"} {
		f := validFields()
		f[FieldWickets] = v
		if _, err := Parse(f); err != nil {
			t.Errorf("wickets=%s should be accepted: %v", v, err)
		}
	}
}

func TestParse_RunBounds(t *testing.T) {
	f := validFields()
	f[FieldCurrentScore] = "1000"
	f[FieldLastFive] = "1000"
	s, err := Parse(f)
	if err != nil {
		t.Fatalf("runs at the bound should be accepted: %v", err)
	}
	if s.CurrentScore != MaxRuns || s.LastFiveOversRuns != MaxRuns {
		t.Errorf("unexpected runs: %+v", s)
	}
}

func TestFromValues_FirstValue(t *testing.T) {
	v := url.Values{
		FieldCity:  {"Delhi", "Kolkata"},
		FieldOvers: {},
	}
	f := FromValues(v)
	if f[FieldCity] != "Delhi" {
		t.Errorf("expected first value Delhi, got %q", f[FieldCity])
	}
	if _, ok := f[FieldOvers]; ok {
		t.Error("empty value list should not produce a field")
	}
}

func TestFromJSON_NumbersAndStrings(t *testing.T) {
	body := `{"batting_team":"India","bowling_team":"England","city":"Delhi",
		"current_score":120,"overs":14.2,"wickets":"3","last_five":null}`
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatal(err)
	}
	f := FromJSON(raw)

	if f[FieldCurrentScore] != "120" {
		t.Errorf("expected numeric score as text, got %q", f[FieldCurrentScore])
	}
	if f[FieldOvers] != "14.2" {
		t.Errorf("expected overs 14.2, got %q", f[FieldOvers])
	}
	if f[FieldWickets] != "3" {
		t.Errorf("expected wickets 3, got %q", f[FieldWickets])
	}
	if _, ok := f[FieldLastFive]; ok {
		t.Error("null should be treated as missing")
	}

	_, err := Parse(f)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != FieldLastFive {
		t.Errorf("expected last_five to be reported missing, got %v", err)
	}
}
