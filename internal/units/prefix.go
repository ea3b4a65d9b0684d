// Package units holds the static prefix and base-unit tables and resolves
// single unit tokens such as "km" or "mN" against them.
package units

import (
	"sort"
	"strings"
)

// Prefix is an SI magnitude prefix.
type Prefix struct {
	Name     string
	Symbols  []string
	Exponent int
}

// prefixes lists every SI prefix from quetta down to quecto.
var prefixes = []Prefix{
	{"quetta", []string{"Q"}, 30},
	{"ronna", []string{"R"}, 27},
	{"yotta", []string{"Y"}, 24},
	{"zetta", []string{"Z"}, 21},
	{"exa", []string{"E"}, 18},
	{"peta", []string{"P"}, 15},
	{"tera", []string{"T"}, 12},
	{"giga", []string{"G"}, 9},
	{"mega", []string{"M"}, 6},
	{"kilo", []string{"k"}, 3},
	{"hecto", []string{"h"}, 2},
	{"deka", []string{"da"}, 1},
	{"deci", []string{"d"}, -1},
	{"centi", []string{"c"}, -2},
	{"milli", []string{"m"}, -3},
	{"micro", []string{"μ", "u"}, -6},
	{"nano", []string{"n"}, -9},
	{"pico", []string{"p"}, -12},
	{"femto", []string{"f"}, -15},
	{"atto", []string{"a"}, -18},
	{"zepto", []string{"z"}, -21},
	{"yocto", []string{"y"}, -24},
	{"ronto", []string{"r"}, -27},
	{"quecto", []string{"q"}, -30},
}

type prefixSymbol struct {
	symbol string
	prefix *Prefix
}

// prefixOrder holds every prefix symbol, longest first, so that "da" is
// tried before "d". Ties keep table order.
var prefixOrder = buildPrefixOrder()

func buildPrefixOrder() []prefixSymbol {
	var order []prefixSymbol
	for i := range prefixes {
		for _, s := range prefixes[i].Symbols {
			order = append(order, prefixSymbol{symbol: s, prefix: &prefixes[i]})
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i].symbol) > len(order[j].symbol)
	})
	return order
}

// Prefixes returns a copy of the prefix table.
func Prefixes() []Prefix {
	out := make([]Prefix, len(prefixes))
	for i, p := range prefixes {
		out[i] = Prefix{Name: p.Name, Symbols: append([]string(nil), p.Symbols...), Exponent: p.Exponent}
	}
	return out
}

// LookupPrefix returns the prefix whose symbol is exactly s.
func LookupPrefix(s string) (Prefix, bool) {
	for _, ps := range prefixOrder {
		if ps.symbol == s {
			return *ps.prefix, true
		}
	}
	return Prefix{}, false
}

// StripPrefix removes the longest prefix symbol that starts token and
// returns its power-of-ten exponent with the remainder. A prefix that
// consumes the whole token does not count, so "m" is not milli-nothing.
func StripPrefix(token string) (exp int, rest string, ok bool) {
	for _, ps := range prefixOrder {
		if !strings.HasPrefix(token, ps.symbol) {
			continue
		}
		rest = token[len(ps.symbol):]
		if rest == "" {
			return 0, token, false
		}
		return ps.prefix.Exponent, rest, true
	}
	return 0, token, false
}
