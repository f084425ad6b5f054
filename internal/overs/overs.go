// Package overs converts human-entered overs notation into balls bowled.
//
// Cricket writes overs as "<overs>.<balls>" where the part after the point
// counts deliveries within the current over (one over = 6 balls), so "10.4"
// is 64 balls, not 10.4 × 6. Entry forms also see true decimals such as
// "10.75"; those are read as a fraction of an over instead.
//
// Parse is total: malformed input degrades to zero, it never fails.
package overs

import (
	"math"
	"strconv"
	"strings"
)

// BallsPerOver is the number of legal deliveries in one over.
const BallsPerOver = 6

// maxOvers bounds accepted input so balls fit in a 32-bit int.
const maxOvers = 100_000_000

// Parse returns the number of balls bowled and the overs figure to use for
// run-rate calculations (balls / 6). Empty, whitespace-only, or unparseable
// text yields (0, 0). Negative notations clamp to zero.
//
// The result is not capped at a full innings; callers apply that limit.
func Parse(text string) (balls int, oversForRate float64) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, 0
	}

	b, ok := parseNotation(s)
	if !ok {
		b, ok = parseDecimal(s)
	}
	if !ok || b <= 0 {
		return 0, 0
	}
	return b, float64(b) / BallsPerOver
}

// parseNotation handles "<overs>" and "<overs>.<balls>". A balls part in
// [0,5] is taken literally; anything else is reinterpreted as a decimal
// fraction of an over.
func parseNotation(s string) (int, bool) {
	whole, frac, found := strings.Cut(s, ".")
	if !found {
		n, err := strconv.Atoi(s)
		if err != nil || n > maxOvers || n < -maxOvers {
			return 0, false
		}
		return n * BallsPerOver, true
	}
	if strings.Contains(frac, ".") {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(whole))
	if err != nil || n > maxOvers || n < -maxOvers {
		return 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(frac))
	if err != nil {
		return 0, false
	}
	if b >= 0 && b < BallsPerOver {
		return n*BallsPerOver + b, true
	}

	f, err := strconv.ParseFloat("0."+frac, 64)
	if err != nil {
		return 0, false
	}
	return n*BallsPerOver + fractionToBalls(f), true
}

// parseDecimal is the fallback for anything parseNotation rejects, e.g.
// ".4", "10." or "1e1": the whole string is read as a float number of overs.
func parseDecimal(s string) (int, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > maxOvers {
		return 0, false
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimLeft(s, "+-")), "0x") {
		return 0, false
	}
	whole := math.Trunc(f)
	return int(whole)*BallsPerOver + fractionToBalls(f-whole), true
}

// fractionToBalls rounds a fraction of an over to whole balls, ties to even.
func fractionToBalls(f float64) int {
	return int(math.RoundToEven(f * BallsPerOver))
}
