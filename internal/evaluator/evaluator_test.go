package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snugunits/snug/internal/cache"
	snugerrors "github.com/snugunits/snug/internal/errors"
	"github.com/snugunits/snug/internal/observability"
	"github.com/snugunits/snug/internal/parser"
	"github.com/snugunits/snug/pkg/quantity"
)

func newTestEvaluator() (*Evaluator, *cache.ParseCache, *observability.SymbolStats) {
	c := cache.NewParseCache(4, 32)
	stats := observability.NewSymbolStats(time.Hour)
	return New(c, stats, Config{Concurrency: 4}, nil), c, stats
}

func TestParseRecordsStats(t *testing.T) {
	ev, c, stats := newTestEvaluator()

	_, err := ev.Parse("N / kg")
	require.NoError(t, err)
	_, err = ev.Parse("N / kg")
	require.NoError(t, err)
	_, err = ev.Parse("m / furlong")
	assert.ErrorIs(t, err, snugerrors.ErrNotFound)

	assert.Equal(t, int64(1), c.Stats().Hits)

	top := stats.GetTopSymbols(10)
	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].Frequency)

	failures := stats.GetTopFailures(10)
	require.Len(t, failures, 1)
	assert.Equal(t, "furlong", failures[0].Symbol)
}

func TestParseWithoutCacheOrStats(t *testing.T) {
	ev := New(nil, nil, Config{}, nil)
	p, err := ev.Parse("km")
	require.NoError(t, err)
	assert.InDelta(t, 1e3, p.Scale, 1e-9)

	_, err = ev.Parse("xyz")
	assert.ErrorIs(t, err, snugerrors.ErrNotFound)
}

func TestChainForceMassTime(t *testing.T) {
	ev, _, _ := newTestEvaluator()

	velocity, err := ev.Chain(Operand{43.213, "N"}, []Step{
		{Op: "/", Operand: Operand{12.0, "kg"}},
		{Op: "*", Operand: Operand{452.42, "ms"}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.6292021216666668, velocity.Value, 1e-10)
	assert.Equal(t, "m / s", velocity.Unit.String())
}

func TestCompute(t *testing.T) {
	ev, _, _ := newTestEvaluator()

	sum, err := ev.Compute(Operand{1, "km"}, "+", Operand{500, "m"})
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, sum.Value, 1e-9)

	product, err := ev.Compute(Operand{2, "m"}, "x", Operand{3, "m"})
	require.NoError(t, err)
	assert.Equal(t, "m^2", product.Unit.String())

	_, err = ev.Compute(Operand{1, "m"}, "+", Operand{1, "s"})
	assert.ErrorIs(t, err, snugerrors.ErrIncompatibleUnits)

	_, err = ev.Compute(Operand{1, "m"}, "^", Operand{1, "s"})
	assert.Equal(t, snugerrors.CodeInvalidRequest, snugerrors.GetCode(err))

	_, err = ev.Compute(Operand{1, "m"}, "-", Operand{1, "parsec"})
	assert.ErrorIs(t, err, snugerrors.ErrNotFound)
}

func TestApplyMatchesQuantityMethods(t *testing.T) {
	a := quantity.Must(6, "m")
	b := quantity.Must(3, "s")

	q, err := Apply(a, "/", b)
	require.NoError(t, err)
	assert.Equal(t, a.Div(b), q)

	q, err = Apply(a, "*", b)
	require.NoError(t, err)
	assert.Equal(t, a.Mul(b), q)
}

func TestParseBatch(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	exprs := []string{"m", "N / kg", "xyz", "km / ms", "", "deg"}

	results, err := ev.ParseBatch(context.Background(), exprs)
	require.NoError(t, err)
	require.Len(t, results, len(exprs))

	for i, r := range results {
		assert.Equal(t, exprs[i], r.Expr)
		want, wantErr := parser.Parse(exprs[i])
		if wantErr != nil {
			assert.ErrorIs(t, r.Err, snugerrors.ErrNotFound)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, want, r.Parsed)
	}
}

func TestParseBatchCancelled(t *testing.T) {
	ev := New(nil, nil, Config{Concurrency: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ev.ParseBatch(ctx, []string{"m", "s"})
	require.Error(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Error(t, r.Err)
	}
}
