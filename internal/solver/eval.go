// apps/go-server/internal/solver/eval.go
//
// Stack-based postfix evaluation.
//   - Operands are pushed.
//   - An operator pops b then a and pushes a OP b.
//
// A step is invalid when it divides by zero, divides with a remainder,
// goes negative, or overflows int. Invalid expressions are rejected as a
// whole; the enumeration engine skips them silently.

package solver

import (
	"fmt"
	"math/bits"
)

// apply computes a OP b and reports whether the step is valid.
func apply(a, b int, op Operator) (int, bool) {
	switch op {
	case Add:
		r := a + b
		if r < a {
			return 0, false
		}
		return r, true
	case Sub:
		if b > a {
			return 0, false
		}
		return a - b, true
	case Mul:
		hi, lo := bits.Mul64(uint64(a), uint64(b))
		if hi != 0 || lo > uint64(maxInt) {
			return 0, false
		}
		return int(lo), true
	case Div:
		if b == 0 || a%b != 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

const maxInt = int(^uint(0) >> 1)

// evalShape evaluates shape with its operand slots filled from operands and
// its operator slots filled from ops, without building an Expression.
func evalShape(shape Shape, operands []int, ops []Operator) (int, bool) {
	var stack [MaxNumbers]int
	sp, ni, oi := 0, 0, 0
	for _, k := range shape {
		if k == KindOperand {
			stack[sp] = operands[ni]
			sp++
			ni++
			continue
		}
		v, ok := apply(stack[sp-2], stack[sp-1], ops[oi])
		if !ok {
			return 0, false
		}
		oi++
		sp--
		stack[sp-1] = v
	}
	return stack[0], true
}

// Substitute fills shape with operands and operators, producing a concrete
// postfix expression.
func Substitute(shape Shape, operands []int, ops []Operator) Expression {
	expr := make(Expression, len(shape))
	ni, oi := 0, 0
	for i, k := range shape {
		if k == KindOperand {
			expr[i] = Token{Kind: KindOperand, Value: operands[ni]}
			ni++
		} else {
			expr[i] = Token{Kind: KindOperator, Op: ops[oi]}
			oi++
		}
	}
	return expr
}

// Evaluate runs expr on an operand stack and returns its value.
// It fails with ErrMalformed if an operator lacks operands or more than one
// value remains, and with ErrInvalidStep on an invalid arithmetic step.
func Evaluate(expr Expression) (int, error) {
	return run(expr, nil)
}

// Steps evaluates expr and returns every value that reached the stack in
// order: each operand as it is pushed and each operator result. On an
// invalid step it returns the values seen before it along with the error.
func Steps(expr Expression) ([]int, error) {
	values := make([]int, 0, len(expr))
	_, err := run(expr, func(v int) { values = append(values, v) })
	return values, err
}

// run is the stack machine behind Evaluate and Steps. push, if set, sees
// every value pushed.
func run(expr Expression, push func(v int)) (int, error) {
	if len(expr) == 0 {
		return 0, fmt.Errorf("empty expression: %w", ErrMalformed)
	}
	stack := make([]int, 0, len(expr))
	for i, t := range expr {
		var v int
		switch t.Kind {
		case KindOperand:
			if t.Value < 0 {
				return 0, fmt.Errorf("negative operand %d: %w", t.Value, ErrInvalidStep)
			}
			v = t.Value
		case KindOperator:
			if len(stack) < 2 {
				return 0, fmt.Errorf("operator %s at %d lacks operands: %w", t.Op, i, ErrMalformed)
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			r, ok := apply(a, b, t.Op)
			if !ok {
				return 0, fmt.Errorf("%d %s %d: %w", a, t.Op, b, ErrInvalidStep)
			}
			stack = stack[:len(stack)-2]
			v = r
		default:
			return 0, fmt.Errorf("unknown token kind %d: %w", t.Kind, ErrMalformed)
		}
		stack = append(stack, v)
		if push != nil {
			push(v)
		}
	}
	if len(stack) != 1 {
		return 0, fmt.Errorf("%d values left on stack: %w", len(stack), ErrMalformed)
	}
	return stack[0], nil
}
