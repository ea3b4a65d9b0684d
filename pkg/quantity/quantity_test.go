package quantity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snugerrors "github.com/snugunits/snug/internal/errors"
	"github.com/snugunits/snug/pkg/dimension"
)

func TestForceMassTimeScenario(t *testing.T) {
	force, err := New(43.213, "N")
	require.NoError(t, err)
	mass, err := New(12.0, "kg")
	require.NoError(t, err)
	duration, err := New(452.42, "ms")
	require.NoError(t, err)

	acceleration := force.Div(mass)
	assert.Equal(t, dimension.FromFraction(
		[]dimension.Dimension{dimension.Length},
		[]dimension.Dimension{dimension.Time, dimension.Time},
	), acceleration.Unit)
	assert.InDelta(t, 3.6010833333333334, acceleration.Value, 1e-10)

	expected, err := ParseUnit("m / s * s")
	require.NoError(t, err)
	assert.Equal(t, expected, acceleration.Unit)

	velocity := acceleration.Mul(duration)
	assert.Equal(t, dimension.FromPairs(
		dimension.Pair{Dim: dimension.Length, Exp: 1},
		dimension.Pair{Dim: dimension.Time, Exp: -1},
	), velocity.Unit)
	assert.InDelta(t, 1.6292021216666668, velocity.Value, 1e-10)

	expected, err = ParseUnit("m / s")
	require.NoError(t, err)
	assert.Equal(t, expected, velocity.Unit)
	assert.Equal(t, "m / s", velocity.Unit.String())
}

func TestNewFoldsScale(t *testing.T) {
	q, err := New(2.5, "km")
	require.NoError(t, err)
	assert.InDelta(t, 2500.0, q.Value, 1e-9)
	assert.Equal(t, "2500 m", q.String())

	_, err = New(1, "xyz")
	assert.ErrorIs(t, err, snugerrors.ErrNotFound)
}

func TestAddSub(t *testing.T) {
	a := Must(1, "m")
	b := Must(50, "cm")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, sum.Value, 1e-12)
	assert.Equal(t, a.Unit, sum.Unit)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, diff.Value, 1e-12)
}

func TestAddIncompatibleUnits(t *testing.T) {
	_, err := Must(1, "m").Add(Must(1, "s"))
	require.Error(t, err)
	assert.ErrorIs(t, err, snugerrors.ErrIncompatibleUnits)
	assert.Equal(t, snugerrors.ErrCategoryArithmetic, snugerrors.GetCategory(err))

	left, _ := snugerrors.GetDetail(err, "left")
	right, _ := snugerrors.GetDetail(err, "right")
	assert.Equal(t, "m", left)
	assert.Equal(t, "s", right)

	_, err = Must(1, "N").Sub(Must(1, "kg"))
	assert.ErrorIs(t, err, snugerrors.ErrIncompatibleUnits)
	assert.Contains(t, err.Error(), "subtract")
}

func TestDivByZero(t *testing.T) {
	q := Must(1, "m").Div(Must(0, "s"))
	assert.True(t, math.IsInf(q.Value, 1))
	assert.Equal(t, "m / s", q.Unit.String())

	nan := Must(0, "m").Div(Must(0, "s"))
	assert.True(t, math.IsNaN(nan.Value))
}

func TestWithUnit(t *testing.T) {
	bare := Quantity{Value: 3}
	q, err := bare.WithUnit("km / s")
	require.NoError(t, err)
	assert.InDelta(t, 3000.0, q.Value, 1e-9)
	assert.Equal(t, "m / s", q.Unit.String())

	p, err := Parse("ms")
	require.NoError(t, err)
	scaled := q.MulParsed(p)
	assert.InDelta(t, 3.0, scaled.Value, 1e-9)
	assert.Equal(t, "m", scaled.Unit.String())

	_, err = bare.WithUnit("parsec")
	assert.ErrorIs(t, err, snugerrors.ErrNotFound)
}

func TestIn(t *testing.T) {
	v, err := Must(1500, "m").In("km")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-12)

	_, err = Must(1, "m").In("s")
	assert.ErrorIs(t, err, snugerrors.ErrIncompatibleUnits)
}

func TestCompatibleAndEqual(t *testing.T) {
	assert.True(t, Must(1, "m").Compatible(Must(3, "km")))
	assert.False(t, Must(1, "m").Compatible(Must(3, "s")))
	assert.True(t, Must(1, "km").Equal(Must(1000, "m")))
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { Must(1, "xyz") })
}

func TestString(t *testing.T) {
	assert.Equal(t, "2000 mg / s^-2", Must(2, "N").String())
	assert.Equal(t, "1 1", Quantity{Value: 1}.String())
	assert.Equal(t, "0.5 1 / s", Must(0.5, "/ s").String())
}
