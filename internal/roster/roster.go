// Package roster holds the static team and venue lists offered by the
// prediction form, and the team strength table used by the projector.
package roster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

var defaultStrengths = map[string]int{
	"Australia":    2,
	"India":        3,
	"Bangladesh":   -1,
	"New Zealand":  1,
	"South Africa": 2,
	"England":      2,
	"West Indies":  0,
	"Afghanistan":  -2,
	"Pakistan":     1,
	"Sri Lanka":    -1,
}

var cities = []string{
	"Colombo", "Mirpur", "Johannesburg", "Dubai", "Auckland", "Cape Town",
	"London", "Pallekele", "Barbados", "Sydney", "Melbourne", "Durban",
	"St Lucia", "Wellington", "Lauderhill", "Hamilton", "Centurion",
	"Manchester", "Abu Dhabi", "Mumbai", "Nottingham", "Southampton",
	"Mount Maunganui", "Chittagong", "Kolkata", "Lahore", "Delhi",
	"Nagpur", "Chandigarh", "Adelaide", "Bangalore", "St Kitts", "Cardiff",
	"Christchurch", "Trinidad",
}

// ErrStrengthFile is returned when a strength override file cannot be read.
var ErrStrengthFile = errors.New("roster: invalid strength file")

// Table maps team name to a signed strength score. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	strengths map[string]int
}

// NewTable copies strengths into a new Table.
func NewTable(strengths map[string]int) *Table {
	m := make(map[string]int, len(strengths))
	for k, v := range strengths {
		m[k] = v
	}
	return &Table{strengths: m}
}

// DefaultTable returns the built-in strength table.
func DefaultTable() *Table {
	return NewTable(defaultStrengths)
}

// Strength returns the strength of the named team, 0 when unknown.
func (t *Table) Strength(team string) int {
	return t.strengths[team]
}

// Teams returns the team names in the table, sorted.
func (t *Table) Teams() []string {
	names := make([]string, 0, len(t.strengths))
	for name := range t.strengths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cities returns the recognized venue cities, sorted.
func Cities() []string {
	out := append([]string(nil), cities...)
	sort.Strings(out)
	return out
}

type strengthFile struct {
	Strengths map[string]int `toml:"strengths"`
}

// LoadTable reads a TOML file of the form
//
//	[strengths]
//	India = 3
//	"Sri Lanka" = -1
//
// and returns the default table with the file's entries merged on top.
func LoadTable(path string) (*Table, error) {
	var f strengthFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStrengthFile, path, err)
	}

	merged := make(map[string]int, len(defaultStrengths)+len(f.Strengths))
	for k, v := range defaultStrengths {
		merged[k] = v
	}
	for k, v := range f.Strengths {
		merged[k] = v
	}
	return &Table{strengths: merged}, nil
}
