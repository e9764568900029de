// apps/go-server/internal/solver/types.go
//
// Core type definitions for the numbers solver.
// Defines:
//   - Kind/Shape: operand/operator pattern of a postfix token stream.
//   - Operator: the four arithmetic operators.
//   - Token/Expression: a concrete postfix expression.
//   - Solution/Result: what the public queries return.

package solver

import (
	"errors"
	"strconv"
	"strings"
)

// MaxNumbers bounds the input size; enumeration grows factorially past it.
const MaxNumbers = 6

var (
	ErrNoNumbers      = errors.New("solver: no input numbers")
	ErrTooManyNumbers = errors.New("solver: too many input numbers")
	ErrNonPositive    = errors.New("solver: input numbers must be positive")
	ErrBadTarget      = errors.New("solver: target must be positive")

	// ErrInvalidStep is returned by Evaluate when a step divides by zero,
	// leaves a remainder, or goes negative.
	ErrInvalidStep = errors.New("solver: invalid step")
	// ErrMalformed is returned by Evaluate for an unbalanced token stream.
	ErrMalformed = errors.New("solver: malformed expression")
)

// Kind tags a position in a shape.
type Kind uint8

const (
	KindOperand Kind = iota
	KindOperator
)

// Shape is the operand/operator pattern of a postfix token stream,
// independent of which numbers and operators fill it.
type Shape []Kind

func (s Shape) String() string {
	var sb strings.Builder
	for _, k := range s {
		if k == KindOperand {
			sb.WriteByte('n')
		} else {
			sb.WriteByte('o')
		}
	}
	return sb.String()
}

// Operator is one of + - * /.
type Operator byte

const (
	Add Operator = '+'
	Sub Operator = '-'
	Mul Operator = '*'
	Div Operator = '/'
)

// Operators lists every operator in enumeration order.
var Operators = [...]Operator{Add, Sub, Mul, Div}

func (o Operator) String() string { return string(o) }

// Token is a single entry of a postfix expression.
type Token struct {
	Kind  Kind
	Value int      // set when Kind == KindOperand
	Op    Operator // set when Kind == KindOperator
}

// Expression is a postfix (reverse Polish) token stream.
type Expression []Token

// Operands returns the numbers used by e, in order of appearance.
func (e Expression) Operands() []int {
	var out []int
	for _, t := range e {
		if t.Kind == KindOperand {
			out = append(out, t.Value)
		}
	}
	return out
}

// Postfix renders e as space separated RPN, e.g. "3 4 + 2 *".
func (e Expression) Postfix() string {
	parts := make([]string, len(e))
	for i, t := range e {
		if t.Kind == KindOperand {
			parts[i] = strconv.Itoa(t.Value)
		} else {
			parts[i] = t.Op.String()
		}
	}
	return strings.Join(parts, " ")
}

// String renders e in infix form. Every sub-expression other than the
// outermost one is parenthesised. Malformed streams render as their postfix.
func (e Expression) String() string {
	stack := make([]string, 0, len(e))
	for _, t := range e {
		if t.Kind == KindOperand {
			stack = append(stack, strconv.Itoa(t.Value))
			continue
		}
		if len(stack) < 2 {
			return e.Postfix()
		}
		a, b := stack[len(stack)-2], stack[len(stack)-1]
		stack = stack[:len(stack)-2]
		stack = append(stack, "("+a+" "+t.Op.String()+" "+b+")")
	}
	if len(stack) != 1 {
		return e.Postfix()
	}
	return strings.TrimSuffix(strings.TrimPrefix(stack[0], "("), ")")
}

// Solution pairs a reachable value with one expression that produces it.
type Solution struct {
	Value int        `json:"value"`
	Expr  Expression `json:"-"`
}

// Result is the outcome of an exact-match query.
type Result struct {
	// All is the set of distinct values equal to the target: either
	// {target} or empty.
	All []int
	// Solutions holds distinct expressions reaching the target, capped by
	// Solver.MaxSolutions.
	Solutions []Expression
}
