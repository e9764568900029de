// apps/go-server/internal/solver/parse.go
//
// Infix parser for player-submitted working such as "(100*6) + (75-25)".
// Produces a postfix Expression that Evaluate can check step by step.
//
// Grammar:
//   expr   = term { ("+" | "-") term }
//   term   = factor { ("*" | "/") factor }
//   factor = number | "(" expr ")"
//
// "×", "÷" and "−" are accepted as aliases, as is "x" for multiplication.

package solver

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrSyntax is returned by ParseExpression for unparsable input.
var ErrSyntax = errors.New("solver: syntax error")

type parser struct {
	in  []rune
	pos int
	out Expression
}

// ParseExpression parses an infix arithmetic expression over non-negative
// integers into postfix form.
func ParseExpression(s string) (Expression, error) {
	p := &parser{in: []rune(s)}
	if err := p.parseExpr(); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.in) {
		return nil, fmt.Errorf("unexpected %q at %d: %w", p.in[p.pos], p.pos, ErrSyntax)
	}
	return p.out, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.in) && unicode.IsSpace(p.in[p.pos]) {
		p.pos++
	}
}

// peekOp returns the operator at the cursor, if any.
func (p *parser) peekOp() (Operator, bool) {
	p.skipSpace()
	if p.pos >= len(p.in) {
		return 0, false
	}
	switch p.in[p.pos] {
	case '+':
		return Add, true
	case '-', '−':
		return Sub, true
	case '*', '×', 'x', 'X':
		return Mul, true
	case '/', '÷':
		return Div, true
	}
	return 0, false
}

func (p *parser) parseExpr() error {
	if err := p.parseTerm(); err != nil {
		return err
	}
	for {
		op, ok := p.peekOp()
		if !ok || (op != Add && op != Sub) {
			return nil
		}
		p.pos++
		if err := p.parseTerm(); err != nil {
			return err
		}
		p.out = append(p.out, Token{Kind: KindOperator, Op: op})
	}
}

func (p *parser) parseTerm() error {
	if err := p.parseFactor(); err != nil {
		return err
	}
	for {
		op, ok := p.peekOp()
		if !ok || (op != Mul && op != Div) {
			return nil
		}
		p.pos++
		if err := p.parseFactor(); err != nil {
			return err
		}
		p.out = append(p.out, Token{Kind: KindOperator, Op: op})
	}
}

func (p *parser) parseFactor() error {
	p.skipSpace()
	if p.pos >= len(p.in) {
		return fmt.Errorf("unexpected end of input: %w", ErrSyntax)
	}
	if p.in[p.pos] == '(' {
		p.pos++
		if err := p.parseExpr(); err != nil {
			return err
		}
		p.skipSpace()
		if p.pos >= len(p.in) || p.in[p.pos] != ')' {
			return fmt.Errorf("missing ')' at %d: %w", p.pos, ErrSyntax)
		}
		p.pos++
		return nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() error {
	start := p.pos
	n := 0
	for p.pos < len(p.in) && p.in[p.pos] >= '0' && p.in[p.pos] <= '9' {
		d := int(p.in[p.pos] - '0')
		if n > (maxInt-d)/10 {
			return fmt.Errorf("number too large at %d: %w", start, ErrSyntax)
		}
		n = n*10 + d
		p.pos++
	}
	if p.pos == start {
		if p.pos < len(p.in) {
			return fmt.Errorf("expected number, got %q at %d: %w", p.in[p.pos], p.pos, ErrSyntax)
		}
		return fmt.Errorf("expected number at %d: %w", p.pos, ErrSyntax)
	}
	p.out = append(p.out, Token{Kind: KindOperand, Value: n})
	return nil
}
