package solver

import (
	"errors"
	"testing"
)

func TestShapesFor(t *testing.T) {
	// Catalan(k-1) shapes for k operands.
	want := map[int]int{1: 1, 2: 1, 3: 2, 4: 5, 5: 14, 6: 42}
	for k, n := range want {
		shapes := ShapesFor(k)
		if len(shapes) != n {
			t.Fatalf("k=%d: expected %d shapes, got %d", k, n, len(shapes))
		}
		seen := map[string]bool{}
		for _, sh := range shapes {
			if len(sh) != 2*k-1 {
				t.Fatalf("k=%d: shape %s has length %d", k, sh, len(sh))
			}
			if !validShape(sh) {
				t.Fatalf("k=%d: shape %s breaks the prefix rule", k, sh)
			}
			if k >= 2 && (sh[0] != KindOperand || sh[1] != KindOperand) {
				t.Fatalf("k=%d: shape %s does not start with two operands", k, sh)
			}
			if seen[sh.String()] {
				t.Fatalf("k=%d: duplicate shape %s", k, sh)
			}
			seen[sh.String()] = true
		}
	}
	if ShapesFor(0) != nil || ShapesFor(MaxNumbers+1) != nil {
		t.Fatalf("expected nil for out-of-range k")
	}
	if &ShapesFor(4)[0][0] != &ShapesFor(4)[0][0] {
		t.Fatalf("expected shapes to be cached")
	}
}

func TestCombinations(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		k       int
		want    int
	}{
		{"distinct pairs", []int{1, 2, 3, 4}, 2, 6},
		{"duplicate values", []int{5, 5, 3}, 2, 2},
		{"all of them", []int{5, 5, 3}, 3, 1},
		{"k too large", []int{1, 2}, 3, 0},
		{"k zero", []int{1, 2}, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Combinations(tc.numbers, tc.k); len(got) != tc.want {
				t.Fatalf("expected %d combinations, got %v", tc.want, got)
			}
		})
	}
}

func TestPermutations(t *testing.T) {
	if got := Permutations([]int{1, 2, 3}); len(got) != 6 {
		t.Fatalf("expected 6 permutations, got %v", got)
	}
	got := Permutations([]int{5, 3, 5})
	if len(got) != 3 {
		t.Fatalf("expected 3 distinct permutations, got %v", got)
	}
	seen := map[[3]int]bool{}
	for _, p := range got {
		key := [3]int{p[0], p[1], p[2]}
		if seen[key] {
			t.Fatalf("duplicate permutation %v", p)
		}
		seen[key] = true
	}
}

func TestOperatorSequences(t *testing.T) {
	for n, want := range map[int]int{0: 1, 1: 4, 2: 16, 5: 1024} {
		seqs := OperatorSequences(n)
		if len(seqs) != want {
			t.Fatalf("n=%d: expected %d sequences, got %d", n, want, len(seqs))
		}
		for _, s := range seqs {
			if len(s) != n {
				t.Fatalf("n=%d: sequence %v has wrong length", n, s)
			}
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want int
		err  error
	}{
		{"sum then product", "(3+4)*2", 14, nil},
		{"precedence", "2+3*4", 14, nil},
		{"exact division", "100/4", 25, nil},
		{"zero intermediate", "(5-5)+3", 3, nil},
		{"classic 952", "((100+6)*3*75-50)/25", 952, nil},
		{"negative step", "2-3", 0, ErrInvalidStep},
		{"fraction", "7/2", 0, ErrInvalidStep},
		{"divide by zero", "4/(2-2)", 0, ErrInvalidStep},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := ParseExpression(tc.expr)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.expr, err)
			}
			got, err := Evaluate(expr)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v (value %d)", tc.err, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestEvaluateMalformed(t *testing.T) {
	op := func(o Operator) Token { return Token{Kind: KindOperator, Op: o} }
	num := func(v int) Token { return Token{Kind: KindOperand, Value: v} }
	tests := []struct {
		name string
		expr Expression
	}{
		{"empty", Expression{}},
		{"lonely operator", Expression{num(3), op(Add)}},
		{"two values left", Expression{num(1), num(2)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Evaluate(tc.expr); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestSteps(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []int
		err  error
	}{
		{"every push", "100*9+75", []int{100, 9, 900, 75, 975}, nil},
		{"zero intermediate", "(5-5)+3", []int{5, 5, 0, 3, 3}, nil},
		{"stops at bad step", "100*9+(3-25)", []int{100, 9, 900, 3, 25}, ErrInvalidStep},
		{"fraction first", "7/2+1", []int{7, 2}, ErrInvalidStep},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := ParseExpression(tc.expr)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.expr, err)
			}
			got, err := Steps(expr)
			if tc.err == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.err != nil && !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestSubstituteMatchesEvalShape(t *testing.T) {
	for _, sh := range ShapesFor(4) {
		for _, ops := range OperatorSequences(3) {
			operands := []int{8, 4, 2, 1}
			fast, ok := evalShape(sh, operands, ops)
			slow, err := Evaluate(Substitute(sh, operands, ops))
			if ok != (err == nil) {
				t.Fatalf("%s %v: evalShape ok=%v, Evaluate err=%v", sh, ops, ok, err)
			}
			if ok && fast != slow {
				t.Fatalf("%s %v: evalShape %d, Evaluate %d", sh, ops, fast, slow)
			}
		}
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		in      string
		postfix string
		infix   string
	}{
		{"2+3*4", "2 3 4 * +", "2 + (3 * 4)"},
		{"(2+3)*4", "2 3 + 4 *", "(2 + 3) * 4"},
		{" 100 × 6 ÷ 3 ", "100 6 * 3 /", "(100 * 6) / 3"},
		{"10 − 4 − 3", "10 4 - 3 -", "(10 - 4) - 3"},
		{"7", "7", "7"},
		{"2x5", "2 5 *", "2 * 5"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			expr, err := ParseExpression(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := expr.Postfix(); got != tc.postfix {
				t.Fatalf("postfix: expected %q, got %q", tc.postfix, got)
			}
			if got := expr.String(); got != tc.infix {
				t.Fatalf("infix: expected %q, got %q", tc.infix, got)
			}
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	for _, in := range []string{"", "2+", "(2+3", "2+3)", "abc", "2 3", "99999999999999999999999"} {
		if _, err := ParseExpression(in); !errors.Is(err, ErrSyntax) {
			t.Fatalf("%q: expected ErrSyntax, got %v", in, err)
		}
	}
}

// validShape reports whether s satisfies the prefix-balance rule and ends
// with a single value on the stack.
func validShape(s Shape) bool {
	depth := 0
	for _, k := range s {
		if k == KindOperand {
			depth++
			continue
		}
		if depth < 2 {
			return false
		}
		depth--
	}
	return depth == 1
}
