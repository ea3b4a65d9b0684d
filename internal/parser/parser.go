package parser

import (
	"github.com/snugunits/snug/internal/units"
	"github.com/snugunits/snug/pkg/dimension"
)

// Parsed is the result of parsing a unit expression. A value expressed in
// the parsed unit equals value*Scale in base units.
type Parsed struct {
	Unit  dimension.Unit
	Scale float64
}

// Dimensionless is what an empty expression parses to.
var Dimensionless = Parsed{Unit: dimension.Dimensionless, Scale: 1}

// Parser folds a token stream into a single Parsed value.
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.current = p.lexer.NextToken()
}

// Parse is a convenience function that parses a unit expression.
func Parse(input string) (Parsed, error) {
	return NewParser(input).Parse()
}

// Parse reads the whole expression left to right. Symbols are multiplied
// in until the first "/", after which every later symbol divides. There is
// no grouping, so the denominator never closes: "m / s * s" is m/s².
// Repeated "/" tokens have no further effect and "*" is a no-op.
func (p *Parser) Parse() (Parsed, error) {
	result := Dimensionless
	inDenominator := false

	for ; p.current.Type != TokenEOF; p.nextToken() {
		switch p.current.Type {
		case TokenSlash:
			inDenominator = true
		case TokenStar:
		case TokenSymbol:
			r, err := units.Resolve(p.current.Literal)
			if err != nil {
				return Parsed{}, err
			}
			if inDenominator {
				result.Unit = result.Unit.Div(r.Unit)
				result.Scale /= r.Scale
			} else {
				result.Unit = result.Unit.Mul(r.Unit)
				result.Scale *= r.Scale
			}
		}
	}

	return result, nil
}
