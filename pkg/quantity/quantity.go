// Package quantity provides Quantity, a number paired with a dimension
// vector, and the arithmetic between quantities.
//
//	force, _ := quantity.New(43.213, "N")
//	mass, _ := quantity.New(12.0, "kg")
//	accel := force.Div(mass) // 3.6010833333333334 m / s^-2
//
// Values are always held in base units (seconds, meters, grams, ...), so
// two quantities with equal units can be added without conversion.
package quantity

import (
	"strconv"

	snugerrors "github.com/snugunits/snug/internal/errors"
	"github.com/snugunits/snug/internal/parser"
	"github.com/snugunits/snug/pkg/dimension"
)

// Parsed is a parsed unit expression with its scale to base units.
type Parsed = parser.Parsed

// Quantity is a scalar in base units and its dimension vector.
type Quantity struct {
	Value float64
	Unit  dimension.Unit
}

// New parses unitExpr and returns value expressed in base units.
func New(value float64, unitExpr string) (Quantity, error) {
	p, err := parser.Parse(unitExpr)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: value * p.Scale, Unit: p.Unit}, nil
}

// Must is like New but panics on a parse error. Intended for literals in
// tests and examples.
func Must(value float64, unitExpr string) Quantity {
	q, err := New(value, unitExpr)
	if err != nil {
		panic(err)
	}
	return q
}

// Parse parses a unit expression, keeping its scale.
func Parse(unitExpr string) (Parsed, error) {
	return parser.Parse(unitExpr)
}

// ParseUnit parses a unit expression and returns only its dimension vector.
// The scale is dropped, so "km" and "m" give the same unit.
func ParseUnit(unitExpr string) (dimension.Unit, error) {
	p, err := parser.Parse(unitExpr)
	if err != nil {
		return dimension.Unit{}, err
	}
	return p.Unit, nil
}

// Add returns q+other. The units must be identical.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.Unit != other.Unit {
		return Quantity{}, snugerrors.IncompatibleUnits("add", q.Unit.String(), other.Unit.String())
	}
	return Quantity{Value: q.Value + other.Value, Unit: q.Unit}, nil
}

// Sub returns q-other. The units must be identical.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if q.Unit != other.Unit {
		return Quantity{}, snugerrors.IncompatibleUnits("subtract", q.Unit.String(), other.Unit.String())
	}
	return Quantity{Value: q.Value - other.Value, Unit: q.Unit}, nil
}

// Mul returns q*other.
func (q Quantity) Mul(other Quantity) Quantity {
	return Quantity{Value: q.Value * other.Value, Unit: q.Unit.Mul(other.Unit)}
}

// Div returns q/other. Division by a zero value follows IEEE 754.
func (q Quantity) Div(other Quantity) Quantity {
	return Quantity{Value: q.Value / other.Value, Unit: q.Unit.Div(other.Unit)}
}

// MulParsed scales q by a parsed unit and multiplies in its dimensions.
func (q Quantity) MulParsed(p Parsed) Quantity {
	return Quantity{Value: q.Value * p.Scale, Unit: q.Unit.Mul(p.Unit)}
}

// WithUnit parses unitExpr and applies it to q with MulParsed, so a plain
// number can be given a unit after the fact.
func (q Quantity) WithUnit(unitExpr string) (Quantity, error) {
	p, err := parser.Parse(unitExpr)
	if err != nil {
		return Quantity{}, err
	}
	return q.MulParsed(p), nil
}

// Compatible reports whether q and other can be added.
func (q Quantity) Compatible(other Quantity) bool {
	return q.Unit == other.Unit
}

// Equal reports exact equality of value and unit.
func (q Quantity) Equal(other Quantity) bool {
	return q.Value == other.Value && q.Unit == other.Unit
}

// In expresses q in the unit given by unitExpr, returning the bare number.
// The expression must have the same dimensions as q.
func (q Quantity) In(unitExpr string) (float64, error) {
	p, err := parser.Parse(unitExpr)
	if err != nil {
		return 0, err
	}
	if p.Unit != q.Unit {
		return 0, snugerrors.IncompatibleUnits("convert", q.Unit.String(), p.Unit.String())
	}
	return q.Value / p.Scale, nil
}

// String renders the value followed by the unit, e.g. "1.5 m / s".
func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'f', -1, 64) + " " + q.Unit.String()
}
