// Package dimension provides the base dimensions and the exponent vector
// used to represent physical units.
package dimension

import (
	snugerrors "github.com/snugunits/snug/internal/errors"
)

// Dimension is one of the fixed base dimensions every unit is expressed over.
type Dimension int

const (
	// Time is measured in seconds.
	Time Dimension = iota
	// Length is measured in meters.
	Length
	// Mass is measured in grams, not kilograms, so that "kg" is just a prefixed gram.
	Mass
	// Charge is measured in coulombs. Current is charge over time.
	Charge
	// Temperature is measured in degrees Celsius and treated as linear.
	Temperature
	// LuminousIntensity is measured in candela.
	LuminousIntensity
	// Angle is measured in degrees.
	Angle

	// NumDimensions is the number of base dimensions.
	NumDimensions = 7
)

var symbols = [NumDimensions]string{"s", "m", "g", "C", "°C", "cd", "°"}

var names = [NumDimensions]string{"time", "length", "mass", "charge", "temperature", "luminous_intensity", "angle"}

// All returns every dimension in index order.
func All() []Dimension {
	return []Dimension{Time, Length, Mass, Charge, Temperature, LuminousIntensity, Angle}
}

// FromIndex converts a dense index back into a Dimension.
func FromIndex(i int) (Dimension, error) {
	if i < 0 || i >= NumDimensions {
		return 0, snugerrors.NewInvalidDimension(i)
	}
	return Dimension(i), nil
}

// Index returns the dense array index of the dimension.
func (d Dimension) Index() int {
	return int(d)
}

// Valid reports whether d is one of the defined dimensions.
func (d Dimension) Valid() bool {
	return d >= 0 && d < NumDimensions
}

// Symbol returns the display symbol of the dimension's base unit.
func (d Dimension) Symbol() string {
	if !d.Valid() {
		return "?"
	}
	return symbols[d]
}

// Name returns a lower-case identifier, used as a key in serialized forms.
func (d Dimension) Name() string {
	if !d.Valid() {
		return "unknown"
	}
	return names[d]
}

// String returns the display symbol.
func (d Dimension) String() string {
	return d.Symbol()
}
