package dimension

import (
	"strconv"
	"strings"
)

// Unit is a dimension vector: one signed exponent per base dimension.
// The zero value is dimensionless. Unit is comparable, and two units are
// equal exactly when every exponent matches.
//
// Exponents are int8. Arithmetic that leaves the range [-128, 127] wraps,
// which callers must avoid; no realistic unit gets close.
type Unit struct {
	exps [NumDimensions]int8
}

// Pair assigns an exponent to a dimension.
type Pair struct {
	Dim Dimension
	Exp int8
}

// Dimensionless is the identity for Mul and Div.
var Dimensionless = Unit{}

// FromPairs builds a unit from dimension/exponent pairs. If a dimension
// appears more than once, the last pair wins. Every Dim must be one of the
// defined constants (Valid reports true); anything else panics. Convert
// untrusted indexes with FromIndex first.
func FromPairs(pairs ...Pair) Unit {
	var u Unit
	for _, p := range pairs {
		u.exps[p.Dim] = p.Exp
	}
	return u
}

// FromFraction builds a unit from numerator and denominator dimension lists.
// Each numerator entry adds one to its exponent and each denominator entry
// subtracts one, so repeats accumulate. As with FromPairs, an invalid
// Dimension panics.
func FromFraction(num, den []Dimension) Unit {
	var u Unit
	for _, d := range num {
		u.exps[d]++
	}
	for _, d := range den {
		u.exps[d]--
	}
	return u
}

// FromExponents builds a unit from a full exponent array in dimension order.
func FromExponents(exps [NumDimensions]int8) Unit {
	return Unit{exps: exps}
}

// Mul returns the product of two units (element-wise exponent addition).
func (u Unit) Mul(other Unit) Unit {
	for i := range u.exps {
		u.exps[i] += other.exps[i]
	}
	return u
}

// Div returns the quotient of two units (element-wise exponent subtraction).
func (u Unit) Div(other Unit) Unit {
	for i := range u.exps {
		u.exps[i] -= other.exps[i]
	}
	return u
}

// Exponent returns the exponent of a single dimension.
func (u Unit) Exponent(d Dimension) int8 {
	return u.exps[d]
}

// With returns a copy of u with the exponent of d replaced.
func (u Unit) With(d Dimension, exp int8) Unit {
	u.exps[d] = exp
	return u
}

// Exponents returns a copy of the exponent array.
func (u Unit) Exponents() [NumDimensions]int8 {
	return u.exps
}

// IsDimensionless reports whether every exponent is zero.
func (u Unit) IsDimensionless() bool {
	return u == Dimensionless
}

// Equal reports whether two units have identical exponents.
func (u Unit) Equal(other Unit) bool {
	return u == other
}

// Map returns the non-zero exponents keyed by dimension name.
func (u Unit) Map() map[string]int8 {
	m := make(map[string]int8)
	for i, e := range u.exps {
		if e != 0 {
			m[Dimension(i).Name()] = e
		}
	}
	return m
}

// String renders the unit canonically. Positive exponents go to the
// numerator and negative ones to the denominator; exponents of magnitude two
// or more keep their sign, so Time^-2 renders as "1 / s^-2".
func (u Unit) String() string {
	var num, den strings.Builder

	for i, e := range u.exps {
		sym := Dimension(i).Symbol()
		switch {
		case e == 0:
			continue
		case e == 1:
			num.WriteString(sym)
		case e == -1:
			den.WriteString(sym)
		case e <= -2:
			den.WriteString(sym + "^" + strconv.Itoa(int(e)))
		default:
			num.WriteString(sym + "^" + strconv.Itoa(int(e)))
		}
	}

	n := num.String()
	if n == "" {
		n = "1"
	}
	if den.Len() == 0 {
		return n
	}
	return n + " / " + den.String()
}
