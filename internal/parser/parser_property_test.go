package parser

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var expressionTokens = []string{
	"s", "m", "g", "kg", "ms", "km", "cm", "μm", "um", "N", "mN", "°C", "cd", "deg", "C", "*", "/",
}

func genExpression() gopter.Gen {
	return gen.SliceOfN(6, gen.IntRange(0, len(expressionTokens)-1)).Map(func(idx []int) string {
		parts := make([]string, len(idx))
		for i, j := range idx {
			parts[i] = expressionTokens[j]
		}
		return strings.Join(parts, " ")
	})
}

// TestProperty_ParseDeterministic checks that parsing is pure.
func TestProperty_ParseDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parsing the same expression twice gives the same result", prop.ForAll(
		func(expr string) bool {
			a, errA := Parse(expr)
			b, errB := Parse(expr)
			return errA == nil && errB == nil && a == b
		},
		genExpression(),
	))

	properties.Property("extra whitespace does not change the result", prop.ForAll(
		func(expr string) bool {
			a, _ := Parse(expr)
			b, _ := Parse("  " + strings.ReplaceAll(expr, " ", " \t ") + "\n")
			return a == b
		},
		genExpression(),
	))

	properties.Property("a second slash is absorbed", prop.ForAll(
		func(expr string) bool {
			a, _ := Parse("m / " + expr)
			b, _ := Parse("m / / " + expr)
			return a == b
		},
		genExpression(),
	))

	properties.TestingRun(t)
}
