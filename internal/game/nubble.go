// apps/go-server/internal/game/nubble.go
//
// Nubble: roll dice, then pick a pin on a 10×10 grid (values 1–100) that the
// dice can make with + − × ÷. A good pick scores the pin's value and rerolls.
//
// An unreachable pick is either rejected or, with EndOnInvalid, ends the game.
// The game also ends when MaxRolls rolls have been used.

package game

import (
	"context"
	"math/rand/v2"
	"sort"
)

const (
	NubbleGridSize = 100
	NubbleDice     = 4
	NubbleFaces    = 6
	NubbleMaxRolls = 10
)

// NewNubble starts a game and makes the opening roll.
// A nil rng uses a randomly seeded generator.
func NewNubble(endOnInvalid bool, rng *rand.Rand) *Nubble {
	if rng == nil {
		rng = newRand()
	}
	n := &Nubble{
		ID:           randomID(),
		MaxRolls:     NubbleMaxRolls,
		EndOnInvalid: endOnInvalid,
		picked:       make(map[int]bool),
		rng:          rng,
	}
	n.roll()
	return n
}

func (n *Nubble) roll() {
	dice := make([]int, NubbleDice)
	for i := range dice {
		dice[i] = 1 + n.rng.IntN(NubbleFaces)
	}
	n.Dice = dice
	n.Rolls++
}

// PickOutcome reports what happened to a pick.
type PickOutcome struct {
	Pin     int    `json:"pin"`
	Allowed bool   `json:"allowed"`
	Expr    string `json:"expr,omitempty"` // how the dice make the pin
	Score   int    `json:"score"`
	Dice    []int  `json:"dice"` // dice for the next pick
	State   string `json:"state"`
}

// Pick tries to claim pin with the current dice.
func (n *Nubble) Pick(ctx context.Context, s Solver, pin int) (PickOutcome, error) {
	if n.Finished {
		return PickOutcome{}, ErrFinished
	}
	if pin < 1 || pin > NubbleGridSize {
		return PickOutcome{}, ErrOffGrid
	}
	if n.picked[pin] {
		return PickOutcome{}, ErrAlreadyPicked
	}

	res, err := s.Solve(ctx, n.Dice, pin, 1)
	if err != nil {
		return PickOutcome{}, err
	}
	out := PickOutcome{Pin: pin}
	if len(res.All) == 0 {
		if n.EndOnInvalid {
			n.Finished = true
		}
	} else {
		out.Allowed = true
		out.Expr = res.Solutions[0].String()
		n.picked[pin] = true
		n.Score += pin
		n.advance()
	}
	out.Score, out.Dice, out.State = n.Score, n.Dice, n.State()
	return out, nil
}

// Pass gives up on the current dice and spends a roll.
func (n *Nubble) Pass() error {
	if n.Finished {
		return ErrFinished
	}
	n.advance()
	return nil
}

// advance rerolls, or finishes the game once every roll is used.
func (n *Nubble) advance() {
	if n.Rolls >= n.MaxRolls || len(n.picked) == NubbleGridSize {
		n.Finished = true
		return
	}
	n.roll()
}

// Picked returns the claimed pins in ascending order.
func (n *Nubble) Picked() []int {
	out := make([]int, 0, len(n.picked))
	for p := range n.picked {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// State reports a coarse string representation of the game state.
func (n *Nubble) State() string {
	if n.Finished {
		return "finished"
	}
	return "playing"
}
