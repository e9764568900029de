// apps/go-server/internal/game/engine.go
//
// Game engine for a single Countdown Numbers round.
// Responsibilities:
//   - Draw six numbers (0–4 big, the rest small) and a target in 101–999.
//   - Check a player's declaration: parse the working and make sure every
//     number used was drawn (each at most once).
//   - Score the best value the working reaches and reveal the nearest
//     achievable answer.
//
// Notes:
//   - Solving is delegated to a Solver so callers can run it off-goroutine.
//   - A round accepts exactly one declaration; it is finished afterwards.

package game

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"

	"github.com/robalobadob/wingo/apps/go-server/internal/solver"
)

const (
	roundSize = 6
	maxBig    = 4
	minTarget = 101
	maxTarget = 999
)

var (
	bigPool   = []int{25, 50, 75, 100}
	smallPool = []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10}
)

// NewRound draws a fresh round with the given number of big numbers.
// A nil rng uses a randomly seeded generator.
func NewRound(big int, rng *mrand.Rand) (*Round, error) {
	if big < 0 || big > maxBig {
		return nil, ErrBadBig
	}
	if rng == nil {
		rng = newRand()
	}
	nums := make([]int, 0, roundSize)
	nums = append(nums, draw(rng, bigPool, big)...)
	nums = append(nums, draw(rng, smallPool, roundSize-big)...)
	return &Round{
		ID:      randomID(),
		Numbers: nums,
		Target:  minTarget + rng.IntN(maxTarget-minTarget+1),
		Big:     big,
	}, nil
}

// draw takes n cards from a shuffled copy of pool.
func draw(rng *mrand.Rand, pool []int, n int) []int {
	deck := append([]int(nil), pool...)
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck[:n]
}

// Outcome is the scored result of a declaration.
type Outcome struct {
	Value      int    `json:"value"`
	Working    string `json:"working,omitempty"`
	Score      int    `json:"score"`
	Exact      bool   `json:"exact"`
	Answer     int    `json:"answer"`
	AnswerExpr string `json:"answerExpr"`
}

// Submit scores the player's declaration and finishes the round.
//
// With working, every value the working reaches is a candidate: each number
// used and each step's result, up to the first invalid step. The one closest
// to the target is scored. Without working, declared must be a value the
// numbers can actually make.
func (r *Round) Submit(ctx context.Context, s Solver, working string, declared int) (Outcome, error) {
	if r.Finished {
		return Outcome{}, ErrFinished
	}

	var (
		normalised string
		best       solver.Solution
	)
	if working != "" {
		expr, err := solver.ParseExpression(working)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidWorking, err)
		}
		if err := r.checkOperands(expr.Operands()); err != nil {
			return Outcome{}, err
		}
		// An invalid step ends the working; what came before it still counts.
		steps, _ := solver.Steps(expr)
		v, ok := closestTo(steps, r.Target)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: no positive value reached", ErrInvalidWorking)
		}
		declared = v
		normalised = expr.String()
		if best, err = s.Nearest(ctx, r.Numbers, r.Target); err != nil {
			return Outcome{}, err
		}
	} else {
		if declared <= 0 {
			return Outcome{}, ErrInvalidGuess
		}
		found, nearest, err := s.Declare(ctx, r.Numbers, declared, r.Target)
		if err != nil {
			return Outcome{}, err
		}
		if !found {
			return Outcome{}, ErrUnreachable
		}
		best = nearest
	}

	r.Declared = declared
	r.Working = normalised
	r.Score = solver.Score(declared, r.Target)
	r.Answer = best.Value
	r.AnswerExpr = best.Expr.String()
	r.Finished = true

	return Outcome{
		Value:      declared,
		Working:    normalised,
		Score:      r.Score,
		Exact:      declared == r.Target,
		Answer:     r.Answer,
		AnswerExpr: r.AnswerExpr,
	}, nil
}

// closestTo picks the positive value nearest target; ties keep the smaller.
func closestTo(values []int, target int) (int, bool) {
	best, bestDiff := 0, -1
	for _, v := range values {
		if v <= 0 {
			continue
		}
		d := v - target
		if d < 0 {
			d = -d
		}
		if bestDiff < 0 || d < bestDiff || (d == bestDiff && v < best) {
			best, bestDiff = v, d
		}
	}
	return best, bestDiff >= 0
}

// checkOperands reports ErrNotAvailable when used needs a number more often
// than it was drawn.
func (r *Round) checkOperands(used []int) error {
	avail := make(map[int]int, len(r.Numbers))
	for _, n := range r.Numbers {
		avail[n]++
	}
	for _, n := range used {
		if avail[n] == 0 {
			return fmt.Errorf("%w: %d", ErrNotAvailable, n)
		}
		avail[n]--
	}
	return nil
}

// State reports a coarse string representation of the round state.
func (r *Round) State() string {
	if r.Finished {
		return "finished"
	}
	return "playing"
}

// newRand returns a generator seeded from crypto/rand.
func newRand() *mrand.Rand {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return mrand.New(mrand.NewPCG(binary.BigEndian.Uint64(b[:8]), binary.BigEndian.Uint64(b[8:])))
}

// randomID returns a compact 16‑hex‑char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
