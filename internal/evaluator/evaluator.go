// Package evaluator runs unit parsing and quantity arithmetic on behalf of
// the API and CLI, going through the parse cache and recording symbol
// statistics.
package evaluator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/snugunits/snug/internal/cache"
	snugerrors "github.com/snugunits/snug/internal/errors"
	"github.com/snugunits/snug/internal/observability"
	"github.com/snugunits/snug/internal/parser"
	"github.com/snugunits/snug/pkg/quantity"
)

// Operand is a value with the unit expression it is written in.
type Operand struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Step applies Op with Operand to a running result.
type Step struct {
	Op      string  `json:"op"`
	Operand Operand `json:"operand"`
}

// BatchResult is the outcome of one expression in a batch.
type BatchResult struct {
	Expr   string
	Parsed parser.Parsed
	Err    error
}

// Config holds evaluator settings.
type Config struct {
	// Concurrency bounds ParseBatch parallelism
	Concurrency int
}

// Evaluator parses and computes. The cache and stats are optional.
type Evaluator struct {
	cache       *cache.ParseCache
	stats       *observability.SymbolStats
	concurrency int
	logger      *zap.Logger
}

// New creates an evaluator. Nil cache, stats or logger are allowed.
func New(c *cache.ParseCache, stats *observability.SymbolStats, cfg Config, logger *zap.Logger) *Evaluator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		cache:       c,
		stats:       stats,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
}

// Parse parses one unit expression.
func (e *Evaluator) Parse(expr string) (parser.Parsed, error) {
	var (
		p   parser.Parsed
		err error
	)
	if e.cache != nil {
		p, err = e.cache.Parse(expr)
	} else {
		p, err = parser.Parse(expr)
	}

	if err != nil {
		if token, ok := snugerrors.GetDetail(err, "token"); ok && e.stats != nil {
			e.stats.RecordFailure(fmt.Sprint(token))
		}
		e.logger.Debug("unit expression rejected", zap.String("expr", expr), zap.Error(err))
		return parser.Parsed{}, err
	}

	if e.stats != nil {
		e.stats.RecordExpression(expr)
	}
	return p, nil
}

// Quantity builds a quantity in base units from an operand.
func (e *Evaluator) Quantity(op Operand) (quantity.Quantity, error) {
	p, err := e.Parse(op.Unit)
	if err != nil {
		return quantity.Quantity{}, err
	}
	return quantity.Quantity{Value: op.Value}.MulParsed(p), nil
}

// Apply combines two quantities with one of "+", "-", "*" (or "x") and "/".
func Apply(left quantity.Quantity, op string, right quantity.Quantity) (quantity.Quantity, error) {
	switch op {
	case "+":
		return left.Add(right)
	case "-":
		return left.Sub(right)
	case "*", "x":
		return left.Mul(right), nil
	case "/":
		return left.Div(right), nil
	default:
		return quantity.Quantity{}, snugerrors.NewRequestError(fmt.Sprintf("unknown operator %q", op))
	}
}

// Compute evaluates left op right.
func (e *Evaluator) Compute(left Operand, op string, right Operand) (quantity.Quantity, error) {
	return e.Chain(left, []Step{{Op: op, Operand: right}})
}

// Chain evaluates first followed by each step strictly left to right, with
// no operator precedence.
func (e *Evaluator) Chain(first Operand, steps []Step) (quantity.Quantity, error) {
	acc, err := e.Quantity(first)
	if err != nil {
		return quantity.Quantity{}, err
	}

	for _, step := range steps {
		next, err := e.Quantity(step.Operand)
		if err != nil {
			return quantity.Quantity{}, err
		}
		if acc, err = Apply(acc, step.Op, next); err != nil {
			return quantity.Quantity{}, err
		}
	}
	return acc, nil
}

// ParseBatch parses many expressions concurrently, bounded by the configured
// concurrency. Results keep input order. Per-expression failures are
// reported in the result; the returned error is only set when ctx ends
// before every expression was started.
func (e *Evaluator) ParseBatch(ctx context.Context, exprs []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(exprs))
	sem := semaphore.NewWeighted(int64(e.concurrency))

	var wg sync.WaitGroup
	var acquireErr error

	for i, expr := range exprs {
		results[i].Expr = expr

		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: mark the rest as not evaluated
			acquireErr = fmt.Errorf("batch interrupted: %w", err)
			for j := i; j < len(exprs); j++ {
				results[j].Expr = exprs[j]
				results[j].Err = acquireErr
			}
			break
		}

		wg.Add(1)
		go func(i int, expr string) {
			defer sem.Release(1)
			defer wg.Done()

			p, err := e.Parse(expr)
			results[i].Parsed = p
			results[i].Err = err
		}(i, expr)
	}

	wg.Wait()

	e.logger.Debug("batch parsed", zap.Int("expressions", len(exprs)), zap.Bool("interrupted", acquireErr != nil))
	return results, acquireErr
}
