// apps/go-server/internal/solver/combinations.go
//
// Enumeration helpers feeding the solver:
//   - Combinations: distinct k-element sub-multisets of the inputs.
//   - Permutations: distinct orderings of one combination.
//   - OperatorSequences: every operator choice for n operator slots.
//
// Duplicate input values collapse here, so [5, 5, 3] yields the combination
// {5, 3} once rather than twice.

package solver

import "sort"

// Combinations returns every distinct k-element sub-multiset of numbers,
// each sorted ascending. The input slice is not modified.
func Combinations(numbers []int, k int) [][]int {
	if k <= 0 || k > len(numbers) {
		return nil
	}
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)

	var out [][]int
	cur := make([]int, 0, k)
	var walk func(start int)
	walk = func(start int) {
		if len(cur) == k {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := start; i < len(sorted); i++ {
			// Same value at the same depth would produce the same multiset.
			if i > start && sorted[i] == sorted[i-1] {
				continue
			}
			cur = append(cur, sorted[i])
			walk(i + 1)
			cur = cur[:len(cur)-1]
		}
	}
	walk(0)
	return out
}

// Permutations returns every distinct ordering of combo in lexicographic
// order. Repeated values produce each ordering once.
func Permutations(combo []int) [][]int {
	p := append([]int(nil), combo...)
	sort.Ints(p)
	out := [][]int{append([]int(nil), p...)}
	for nextPermutation(p) {
		out = append(out, append([]int(nil), p...))
	}
	return out
}

// nextPermutation rearranges p into its lexicographic successor and reports
// whether one existed.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}

// OperatorSequences returns all 4^n operator sequences of length n.
// n == 0 yields a single empty sequence.
func OperatorSequences(n int) [][]Operator {
	if n < 0 {
		return nil
	}
	out := [][]Operator{{}}
	for i := 0; i < n; i++ {
		next := make([][]Operator, 0, len(out)*len(Operators))
		for _, seq := range out {
			for _, op := range Operators {
				s := make([]Operator, len(seq), len(seq)+1)
				copy(s, seq)
				next = append(next, append(s, op))
			}
		}
		out = next
	}
	return out
}
