// apps/go-server/internal/game/types.go
//
// Core type definitions for the numbers games.
// Defines:
//   - Solver: the solver queries a game needs (satisfied by worker.Pool).
//   - Round: a single Countdown Numbers round.
//   - Nubble: a single Nubble grid game.

package game

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/robalobadob/wingo/apps/go-server/internal/solver"
)

var (
	ErrFinished       = errors.New("game finished")
	ErrBadBig         = errors.New("big numbers must be 0–4")
	ErrInvalidGuess   = errors.New("invalid guess")
	ErrNotAvailable   = errors.New("number not available")
	ErrUnreachable    = errors.New("value cannot be made from these numbers")
	ErrOffGrid        = errors.New("pin is not on the grid")
	ErrAlreadyPicked  = errors.New("pin already picked")
	ErrInvalidWorking = errors.New("invalid working")
)

// Solver is the subset of solver queries the games rely on.
type Solver interface {
	// Solve reports expressions over numbers reaching target, at most limit
	// of them (0 means unlimited).
	Solve(ctx context.Context, numbers []int, target, limit int) (solver.Result, error)
	// Nearest reports the reachable value closest to target.
	Nearest(ctx context.Context, numbers []int, target int) (solver.Solution, error)
	// Declare reports whether declared is reachable, plus the value nearest
	// to target, in one pass.
	Declare(ctx context.Context, numbers []int, declared, target int) (bool, solver.Solution, error)
}

// Round holds the state of a single Countdown Numbers round.
type Round struct {
	ID       string // Unique round identifier (random hex string).
	Numbers  []int  // The six drawn numbers.
	Target   int    // Three-digit target (101–999).
	Big      int    // How many of Numbers came from the big pool.
	Finished bool   // True once a declaration has been scored.

	Declared   int    // Value scored: the declared value, or the best step of the working.
	Working    string // Player's working, normalised to infix; empty for value-only declarations.
	Score      int    // 10 − |Declared − Target|, floored at 0.
	Answer     int    // Nearest reachable value to Target.
	AnswerExpr string // One expression producing Answer.
}

// Nubble holds the state of a single Nubble game.
type Nubble struct {
	ID           string
	Dice         []int
	Score        int
	Rolls        int  // Rolls so far, including the opening roll.
	MaxRolls     int  // Game ends once this many rolls are used.
	EndOnInvalid bool // An unreachable pick ends the game instead of being rejected.
	Finished     bool

	picked map[int]bool
	rng    *rand.Rand
}
