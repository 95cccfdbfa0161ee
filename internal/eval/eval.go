// Package eval evaluates short arithmetic expressions into exact decimals.
//
// The grammar is deliberately tiny: numeric literals, the four basic
// operators, unary minus and parentheses. Anything else is rejected, so the
// evaluator is safe to expose to untrusted input. There are no identifiers,
// no function calls, no statements.
//
//	expr   = term   { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = "-" factor | "(" expr ")" | number
package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidExpression is the sentinel matched by errors.Is for every
// evaluation failure.
var ErrInvalidExpression = errors.New("invalid expression")

// InvalidExpressionError carries the offending input so callers can show it
// back to the user.
type InvalidExpressionError struct {
	Input  string
	Reason string
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", e.Input, e.Reason)
}

func (e *InvalidExpressionError) Unwrap() error {
	return ErrInvalidExpression
}

// Evaluate parses and evaluates expression with exact decimal arithmetic.
// Empty or blank input evaluates to zero, not an error: an untouched form
// field means "nothing for this person". Division keeps the package default
// precision (16 fractional digits); rounding to display precision is the
// caller's concern.
func Evaluate(expression string) (decimal.Decimal, error) {
	if strings.TrimSpace(expression) == "" {
		return decimal.Zero, nil
	}

	p := &parser{input: expression}
	value, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, &InvalidExpressionError{Input: expression, Reason: err.Error()}
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return decimal.Zero, &InvalidExpressionError{
			Input:  expression,
			Reason: fmt.Sprintf("unexpected %q at position %d", p.input[p.pos], p.pos),
		}
	}
	return value, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.consume('+'):
			right, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Add(right)
		case p.consume('-'):
			right, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Sub(right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.consume('*'):
			right, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Mul(right)
		case p.consume('/'):
			right, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			if right.IsZero() {
				return decimal.Zero, errors.New("division by zero")
			}
			left = left.Div(right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseFactor() (decimal.Decimal, error) {
	p.skipSpaces()
	switch {
	case p.consume('-'):
		v, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	case p.consume('('):
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		p.skipSpaces()
		if !p.consume(')') {
			return decimal.Zero, errors.New("missing closing parenthesis")
		}
		return v, nil
	default:
		return p.parseNumber()
	}
}

func (p *parser) parseNumber() (decimal.Decimal, error) {
	start := p.pos
	sawDigit := false
	sawDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			sawDigit = true
			p.pos++
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			p.pos++
			continue
		}
		break
	}
	if !sawDigit {
		if p.pos < len(p.input) {
			return decimal.Zero, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
		}
		return decimal.Zero, errors.New("unexpected end of input")
	}
	v, err := decimal.NewFromString(p.input[start:p.pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad number %q", p.input[start:p.pos])
	}
	return v, nil
}

// consume advances past c if it is the next byte.
func (p *parser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
