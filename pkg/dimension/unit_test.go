package dimension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snugerrors "github.com/snugunits/snug/internal/errors"
)

func TestDimensionSymbols(t *testing.T) {
	want := []string{"s", "m", "g", "C", "°C", "cd", "°"}
	for i, d := range All() {
		assert.Equal(t, want[i], d.Symbol())
		assert.Equal(t, i, d.Index())
	}
	assert.Equal(t, "?", Dimension(42).Symbol())
}

func TestFromIndex(t *testing.T) {
	for i := 0; i < NumDimensions; i++ {
		d, err := FromIndex(i)
		require.NoError(t, err)
		assert.Equal(t, Dimension(i), d)
	}

	_, err := FromIndex(NumDimensions)
	require.Error(t, err)
	assert.ErrorIs(t, err, snugerrors.ErrInvalidDimension)

	_, err = FromIndex(-1)
	assert.ErrorIs(t, err, snugerrors.ErrInvalidDimension)
}

func TestFromPairsLastWriteWins(t *testing.T) {
	u := FromPairs(Pair{Length, 1}, Pair{Time, -1}, Pair{Length, 3})
	assert.Equal(t, int8(3), u.Exponent(Length))
	assert.Equal(t, int8(-1), u.Exponent(Time))
	assert.Equal(t, int8(0), u.Exponent(Mass))
}

func TestFromFraction(t *testing.T) {
	u := FromFraction([]Dimension{Length, Mass}, []Dimension{Time, Time})
	assert.Equal(t, FromPairs(Pair{Length, 1}, Pair{Mass, 1}, Pair{Time, -2}), u)

	// a dimension on both sides nets out
	v := FromFraction([]Dimension{Time, Length}, []Dimension{Time})
	assert.Equal(t, FromPairs(Pair{Length, 1}), v)
}

func TestMulDiv(t *testing.T) {
	velocity := FromFraction([]Dimension{Length}, []Dimension{Time})
	timeUnit := FromPairs(Pair{Time, 1})

	accel := velocity.Div(timeUnit)
	assert.Equal(t, FromPairs(Pair{Length, 1}, Pair{Time, -2}), accel)
	assert.Equal(t, velocity, accel.Mul(timeUnit))

	// operands are values and stay untouched
	assert.Equal(t, FromPairs(Pair{Length, 1}, Pair{Time, -1}), velocity)
}

func TestIsDimensionless(t *testing.T) {
	assert.True(t, Dimensionless.IsDimensionless())
	assert.True(t, Unit{}.IsDimensionless())

	m := FromPairs(Pair{Length, 1})
	assert.False(t, m.IsDimensionless())
	assert.True(t, m.Div(m).IsDimensionless())
}

func TestWithAndExponents(t *testing.T) {
	u := Dimensionless.With(Angle, 2)
	assert.Equal(t, int8(2), u.Exponent(Angle))
	assert.True(t, Dimensionless.IsDimensionless(), "With must not mutate the receiver")

	exps := u.Exponents()
	exps[Angle] = 9
	assert.Equal(t, int8(2), u.Exponent(Angle), "Exponents must return a copy")
	assert.Equal(t, u, FromExponents(u.Exponents()))
}

func TestMap(t *testing.T) {
	u := FromPairs(Pair{Length, 1}, Pair{Time, -2})
	assert.Equal(t, map[string]int8{"length": 1, "time": -2}, u.Map())
	assert.Empty(t, Dimensionless.Map())
}

func TestUnitString(t *testing.T) {
	tests := []struct {
		name string
		unit Unit
		want string
	}{
		{"dimensionless", Dimensionless, "1"},
		{"length", FromFraction([]Dimension{Length}, nil), "m"},
		{"inverse time", FromPairs(Pair{Time, -1}), "1 / s"},
		{"inverse time squared", FromFraction(nil, []Dimension{Time, Time}), "1 / s^-2"},
		{"velocity", FromFraction([]Dimension{Length}, []Dimension{Time}), "m / s"},
		{"acceleration", FromPairs(Pair{Length, 1}, Pair{Time, -2}), "m / s^-2"},
		{"force", FromPairs(Pair{Length, 1}, Pair{Mass, 1}, Pair{Time, -2}), "mg / s^-2"},
		{"area", FromPairs(Pair{Length, 2}), "m^2"},
		{"temperature per candela", FromPairs(Pair{Temperature, 1}, Pair{LuminousIntensity, -1}), "°C / cd"},
		{"angle", FromPairs(Pair{Angle, 1}), "°"},
		{"charge", FromPairs(Pair{Charge, 3}, Pair{Mass, -3}), "C^3 / g^-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.unit.String())
		})
	}
}

func TestConstructorsRejectInvalidDimension(t *testing.T) {
	bad := Dimension(NumDimensions)
	require.False(t, bad.Valid())

	assert.Panics(t, func() { FromPairs(Pair{Dim: bad, Exp: 1}) })
	assert.Panics(t, func() { FromFraction([]Dimension{bad}, nil) })
	assert.Panics(t, func() { FromFraction(nil, []Dimension{Dimension(-1)}) })

	_, err := FromIndex(int(bad))
	assert.Error(t, err)
}
