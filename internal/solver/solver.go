// apps/go-server/internal/solver/solver.go
//
// Countdown numbers solver.
// Responsibilities:
//   - Validate inputs at the boundary (1..6 positive numbers, positive target).
//   - Enumerate combinations → permutations → shapes → operator sequences.
//   - Evaluate each candidate in postfix and keep valid positive results.
//   - Answer exact-match (Solve), nearest-value (Nearest/NearestValue),
//     combined single-pass (SolveOrNearest, Declare) and full reachable-set
//     (Reachable) queries.
//
// Notes:
//   - Pure and synchronous. Callers that must stay responsive dispatch it
//     through the worker package.
//   - ctx is polled between permutations, so cancellation is cooperative.
//   - Intermediate values may be zero; final values must be positive.
//   - Nearest ties prefer the smaller value.

package solver

import (
	"context"
	"fmt"
)

// DefaultMaxSolutions caps Result.Solutions for the package-level Solve.
const DefaultMaxSolutions = 20

// Solver holds query options. The zero value lists every solution.
type Solver struct {
	// MaxSolutions caps Result.Solutions; Solve stops searching once the cap
	// is reached. 0 means unlimited.
	MaxSolutions int
}

// Default is the solver used by the package-level helpers.
var Default = Solver{MaxSolutions: DefaultMaxSolutions}

// Solve finds expressions over a subset of numbers that equal target.
func Solve(ctx context.Context, numbers []int, target int) (Result, error) {
	return Default.Solve(ctx, numbers, target)
}

// NearestValue returns the reachable value closest to target.
func NearestValue(ctx context.Context, numbers []int, target int) (int, error) {
	return Default.NearestValue(ctx, numbers, target)
}

// Nearest is NearestValue with a witness expression.
func Nearest(ctx context.Context, numbers []int, target int) (Solution, error) {
	return Default.Nearest(ctx, numbers, target)
}

// SolveOrNearest runs Solve and Nearest in a single pass.
func SolveOrNearest(ctx context.Context, numbers []int, target int) (Result, Solution, error) {
	return Default.SolveOrNearest(ctx, numbers, target)
}

// Reachable returns every positive value reachable from numbers.
func Reachable(ctx context.Context, numbers []int) (map[int]Expression, error) {
	return Default.Reachable(ctx, numbers)
}

// Solve finds expressions over a subset of numbers that evaluate to target.
// Result.All is {target} when at least one exists and empty otherwise.
func (s Solver) Solve(ctx context.Context, numbers []int, target int) (Result, error) {
	if err := validate(numbers, target); err != nil {
		return Result{}, err
	}
	res := Result{All: []int{}}
	err := search(ctx, numbers, func(v int, sh Shape, operands []int, ops []Operator) bool {
		if v != target {
			return true
		}
		res.Solutions = append(res.Solutions, Substitute(sh, operands, ops))
		return s.MaxSolutions <= 0 || len(res.Solutions) < s.MaxSolutions
	})
	if err != nil {
		return Result{}, err
	}
	if len(res.Solutions) > 0 {
		res.All = []int{target}
	}
	return res, nil
}

// NearestValue returns the reachable value with the smallest distance to
// target.
func (s Solver) NearestValue(ctx context.Context, numbers []int, target int) (int, error) {
	sol, err := s.Nearest(ctx, numbers, target)
	if err != nil {
		return 0, err
	}
	return sol.Value, nil
}

// Nearest returns the reachable value closest to target together with one
// expression producing it. Equal distances resolve to the smaller value.
// An exact hit ends the search early.
func (s Solver) Nearest(ctx context.Context, numbers []int, target int) (Solution, error) {
	if err := validate(numbers, target); err != nil {
		return Solution{}, err
	}
	c := closest{target: target, diff: -1}
	err := search(ctx, numbers, func(v int, sh Shape, operands []int, ops []Operator) bool {
		c.consider(v, sh, operands, ops)
		return c.diff != 0
	})
	if err != nil {
		return Solution{}, err
	}
	return c.best, nil
}

// SolveOrNearest answers Solve and Nearest from one enumeration. When target
// is reachable the nearest solution is target itself.
func (s Solver) SolveOrNearest(ctx context.Context, numbers []int, target int) (Result, Solution, error) {
	if err := validate(numbers, target); err != nil {
		return Result{}, Solution{}, err
	}
	res := Result{All: []int{}}
	c := closest{target: target, diff: -1}
	err := search(ctx, numbers, func(v int, sh Shape, operands []int, ops []Operator) bool {
		if v == target && (s.MaxSolutions <= 0 || len(res.Solutions) < s.MaxSolutions) {
			res.Solutions = append(res.Solutions, Substitute(sh, operands, ops))
		}
		c.consider(v, sh, operands, ops)
		return c.diff != 0 || s.MaxSolutions <= 0 || len(res.Solutions) < s.MaxSolutions
	})
	if err != nil {
		return Result{}, Solution{}, err
	}
	if len(res.Solutions) > 0 {
		res.All = []int{target}
	}
	return res, c.best, nil
}

// Declare reports whether declared can be made from numbers and, in the
// same enumeration, finds the value nearest to target.
func (s Solver) Declare(ctx context.Context, numbers []int, declared, target int) (bool, Solution, error) {
	if err := validate(numbers, target); err != nil {
		return false, Solution{}, err
	}
	found := false
	c := closest{target: target, diff: -1}
	err := search(ctx, numbers, func(v int, sh Shape, operands []int, ops []Operator) bool {
		if v == declared {
			found = true
		}
		c.consider(v, sh, operands, ops)
		return !found || c.diff != 0
	})
	if err != nil {
		return false, Solution{}, err
	}
	return found, c.best, nil
}

// Reachable returns every positive value reachable from numbers, each with
// the first expression found for it.
func (s Solver) Reachable(ctx context.Context, numbers []int) (map[int]Expression, error) {
	if err := validateNumbers(numbers); err != nil {
		return nil, err
	}
	out := make(map[int]Expression)
	err := search(ctx, numbers, func(v int, sh Shape, operands []int, ops []Operator) bool {
		if _, ok := out[v]; !ok {
			out[v] = Substitute(sh, operands, ops)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Score rates a declared value against target: 10 for an exact hit, one
// point less per unit of distance, never below 0.
func Score(value, target int) int {
	if s := 10 - absDiff(value, target); s > 0 {
		return s
	}
	return 0
}

// visitFunc receives each valid positive result. The slices are reused
// between calls and must be copied if retained. Returning false stops the
// search.
type visitFunc func(v int, shape Shape, operands []int, ops []Operator) bool

// search enumerates every (permutation, shape, operator sequence) triple
// for k = 1..len(numbers) and reports valid positive results to visit.
func search(ctx context.Context, numbers []int, visit visitFunc) error {
	for k := 1; k <= len(numbers); k++ {
		shapes := ShapesFor(k)
		opSeqs := OperatorSequences(k - 1)
		for _, combo := range Combinations(numbers, k) {
			for _, perm := range Permutations(combo) {
				if err := ctx.Err(); err != nil {
					return err
				}
				for _, sh := range shapes {
					for _, ops := range opSeqs {
						v, ok := evalShape(sh, perm, ops)
						if !ok || v <= 0 {
							continue
						}
						if !visit(v, sh, perm, ops) {
							return nil
						}
					}
				}
			}
		}
	}
	return nil
}

func validate(numbers []int, target int) error {
	if err := validateNumbers(numbers); err != nil {
		return err
	}
	if target <= 0 {
		return fmt.Errorf("target %d: %w", target, ErrBadTarget)
	}
	return nil
}

func validateNumbers(numbers []int) error {
	if len(numbers) == 0 {
		return ErrNoNumbers
	}
	if len(numbers) > MaxNumbers {
		return fmt.Errorf("%d numbers, at most %d: %w", len(numbers), MaxNumbers, ErrTooManyNumbers)
	}
	for i, n := range numbers {
		if n <= 0 {
			return fmt.Errorf("numbers[%d] = %d: %w", i, n, ErrNonPositive)
		}
	}
	return nil
}

// closest tracks the value nearest to target seen so far. Ties keep the
// smaller value.
type closest struct {
	target int
	best   Solution
	diff   int // -1 until the first value
}

func (c *closest) consider(v int, sh Shape, operands []int, ops []Operator) {
	d := absDiff(v, c.target)
	if c.diff < 0 || d < c.diff || (d == c.diff && v < c.best.Value) {
		c.best = Solution{Value: v, Expr: Substitute(sh, operands, ops)}
		c.diff = d
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
