package units

import (
	"sort"
	"strings"

	snugerrors "github.com/snugunits/snug/internal/errors"
	"github.com/snugunits/snug/pkg/dimension"
)

// Entry is a named unit: its dimension vector and the factor that converts
// one of it into base units.
type Entry struct {
	Name    string
	Symbols []string
	Unit    dimension.Unit
	Scale   float64
}

type dims = []dimension.Dimension

// entries is the closed set of units the parser understands. The first
// symbol of each entry is canonical.
var entries = []Entry{
	{"second", []string{"s"}, base(dimension.Time), 1},
	{"meter", []string{"m"}, base(dimension.Length), 1},
	{"gram", []string{"g"}, base(dimension.Mass), 1},
	{"coulomb", []string{"C"}, base(dimension.Charge), 1},
	{"celsius", []string{"°C", "degC", "deg C"}, base(dimension.Temperature), 1},
	{"candela", []string{"cd"}, base(dimension.LuminousIntensity), 1},
	{"degree", []string{"°", "deg", "deg."}, base(dimension.Angle), 1},
	// kg·m/s², and mass is stored in grams
	{"newton", []string{"N", "Newton"},
		dimension.FromFraction(dims{dimension.Mass, dimension.Length}, dims{dimension.Time, dimension.Time}), 1000},
}

func base(d dimension.Dimension) dimension.Unit {
	return dimension.FromPairs(dimension.Pair{Dim: d, Exp: 1})
}

// table maps every symbol and alias to its entry. It is filled at init and
// only read afterwards.
var table = buildTable()

func buildTable() map[string]*Entry {
	t := make(map[string]*Entry)
	for i := range entries {
		for _, s := range entries[i].Symbols {
			t[s] = &entries[i]
		}
	}
	return t
}

// Lookup finds the entry for a symbol, ignoring surrounding whitespace.
func Lookup(symbol string) (Entry, error) {
	e, ok := table[strings.TrimSpace(symbol)]
	if !ok {
		return Entry{}, snugerrors.NotFound(symbol)
	}
	return *e, nil
}

// Entries returns a copy of the unit table in definition order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e
		out[i].Symbols = append([]string(nil), e.Symbols...)
	}
	return out
}

// Symbols returns every recognised symbol and alias, sorted.
func Symbols() []string {
	out := make([]string, 0, len(table))
	for s := range table {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
