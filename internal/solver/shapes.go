// apps/go-server/internal/solver/shapes.go
//
// Expression-tree shapes: every valid postfix operand/operator pattern for k
// operands. A shape has k operands and k-1 operators, starts with two
// operands, and every prefix holds at least one more operand than operators,
// so each operator always finds two values on the stack.
//
// Shapes depend only on k, so they are built once per k and shared.

package solver

import "sync"

var (
	shapeOnce  [MaxNumbers + 1]sync.Once
	shapeCache [MaxNumbers + 1][]Shape
)

// ShapesFor returns every valid shape for k operands (1 ≤ k ≤ MaxNumbers).
// The returned slices are shared and must not be modified.
func ShapesFor(k int) []Shape {
	if k < 1 || k > MaxNumbers {
		return nil
	}
	shapeOnce[k].Do(func() { shapeCache[k] = buildShapes(k) })
	return shapeCache[k]
}

// buildShapes enumerates shapes for k operands depth-first, so each pattern
// is produced exactly once.
func buildShapes(k int) []Shape {
	if k == 1 {
		return []Shape{{KindOperand}}
	}
	length := 2*k - 1
	var out []Shape
	cur := make(Shape, 0, length)
	cur = append(cur, KindOperand, KindOperand)

	var walk func(operands, operators int)
	walk = func(operands, operators int) {
		if len(cur) == length {
			out = append(out, append(Shape(nil), cur...))
			return
		}
		if operands < k {
			cur = append(cur, KindOperand)
			walk(operands+1, operators)
			cur = cur[:len(cur)-1]
		}
		// An operator needs two stack entries: operands-operators >= 2.
		if operators < k-1 && operands-operators >= 2 {
			cur = append(cur, KindOperator)
			walk(operands, operators+1)
			cur = cur[:len(cur)-1]
		}
	}
	walk(2, 0)
	return out
}
