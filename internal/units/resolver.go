package units

import (
	"math"
	"strings"

	"github.com/snugunits/snug/pkg/dimension"
)

// Resolved is a single token turned into a dimension vector and the factor
// converting one of it into base units.
type Resolved struct {
	Symbol         string
	Unit           dimension.Unit
	Scale          float64
	PrefixExponent int
}

// Resolve turns one unit token into its dimension vector and scale.
//
// The token is first split into the longest matching SI prefix and a
// remainder, and the remainder is looked up. If that fails, or no prefix
// matched, the whole token is looked up as-is; this is how "cd" stays a
// candela rather than centi-"d". The scale is 10^prefix times the entry's
// own scale.
func Resolve(token string) (Resolved, error) {
	token = strings.TrimSpace(token)

	if exp, rest, ok := StripPrefix(token); ok {
		if e, err := Lookup(rest); err == nil {
			return Resolved{
				Symbol:         e.Symbols[0],
				Unit:           e.Unit,
				Scale:          math.Pow10(exp) * e.Scale,
				PrefixExponent: exp,
			}, nil
		}
	}

	e, err := Lookup(token)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Symbol: e.Symbols[0], Unit: e.Unit, Scale: e.Scale}, nil
}
