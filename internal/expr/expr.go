// Package expr evaluates the arithmetic expressions users may type into
// amount fields, e.g. "=50+20*2" instead of a literal number.
//
// Input starting with "=" is parsed as an expression over + - * /, decimal
// literals and parentheses, with standard precedence and left-to-right
// associativity. Anything else must be a plain decimal number, parsed
// strictly through core.ParseAmount: the whole string is the number, a
// decimal comma is accepted, trailing garbage is an error.
//
// Every failure comes back as an error wrapping ErrInvalidExpression; the
// package never panics on bad input. Results keep full decimal precision,
// rounding to 2 places is the caller's concern.
package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrDivisionByZero    = errors.New("division by zero")
)

// Evaluate resolves an amount field value to a number.
func Evaluate(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "=") {
		d, err := core.ParseAmount(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: not a number: %q", ErrInvalidExpression, input)
		}
		return d, nil
	}

	p := &parser{src: s[1:]}
	v, err := p.expression()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpaces()
	if !p.done() {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidExpression, p.peek(), p.pos)
	}
	return v, nil
}

// parser is a recursive-descent parser over the expression grammar:
//
//	expression = term { ("+" | "-") term }
//	term       = factor { ("*" | "/") factor }
//	factor     = number | "-" factor | "(" expression ")"
type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpaces() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) expression() (decimal.Decimal, error) {
	left, err := p.term()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *parser) term() (decimal.Decimal, error) {
	left, err := p.factor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidExpression, ErrDivisionByZero)
			}
			left = left.Div(right)
		}
	}
}

func (p *parser) factor() (decimal.Decimal, error) {
	p.skipSpaces()
	switch {
	case p.done():
		return decimal.Zero, fmt.Errorf("%w: unexpected end of expression", ErrInvalidExpression)
	case p.peek() == '-':
		p.pos++
		v, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	case p.peek() == '(':
		p.pos++
		v, err := p.expression()
		if err != nil {
			return decimal.Zero, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return decimal.Zero, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidExpression)
		}
		p.pos++
		return v, nil
	default:
		return p.number()
	}
}

func (p *parser) number() (decimal.Decimal, error) {
	start := p.pos
	sawDot := false
	for !p.done() {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' {
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
	if p.pos == start {
		return decimal.Zero, fmt.Errorf("%w: expected a number at position %d", ErrInvalidExpression, start)
	}
	d, err := decimal.NewFromString(p.src[start:p.pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad number %q", ErrInvalidExpression, p.src[start:p.pos])
	}
	return d, nil
}
