package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/robalobadob/wingo/apps/go-server/internal/solver"
)

// direct runs solver queries on the calling goroutine.
type direct struct{}

func (direct) Solve(ctx context.Context, numbers []int, target, limit int) (solver.Result, error) {
	return solver.Solver{MaxSolutions: limit}.Solve(ctx, numbers, target)
}

func (direct) Nearest(ctx context.Context, numbers []int, target int) (solver.Solution, error) {
	return solver.Nearest(ctx, numbers, target)
}

func (direct) Declare(ctx context.Context, numbers []int, declared, target int) (bool, solver.Solution, error) {
	return solver.Default.Declare(ctx, numbers, declared, target)
}

func TestNewRound(t *testing.T) {
	isBig := map[int]bool{25: true, 50: true, 75: true, 100: true}
	for big := 0; big <= 4; big++ {
		r, err := NewRound(big, rand.New(rand.NewPCG(1, uint64(big))))
		if err != nil {
			t.Fatalf("big=%d: unexpected error: %v", big, err)
		}
		if len(r.Numbers) != 6 {
			t.Fatalf("big=%d: expected 6 numbers, got %v", big, r.Numbers)
		}
		gotBig := 0
		for _, n := range r.Numbers {
			if isBig[n] {
				gotBig++
			} else if n < 1 || n > 10 {
				t.Fatalf("big=%d: unexpected number %d", big, n)
			}
		}
		if gotBig != big {
			t.Fatalf("expected %d big numbers, got %v", big, r.Numbers)
		}
		if r.Target < 101 || r.Target > 999 {
			t.Fatalf("target %d out of range", r.Target)
		}
		if r.State() != "playing" {
			t.Fatalf("expected playing, got %s", r.State())
		}
	}
	if _, err := NewRound(5, nil); !errors.Is(err, ErrBadBig) {
		t.Fatalf("expected ErrBadBig, got %v", err)
	}
}

func TestNewRoundDeterministic(t *testing.T) {
	a, _ := NewRound(2, rand.New(rand.NewPCG(7, 7)))
	b, _ := NewRound(2, rand.New(rand.NewPCG(7, 7)))
	if a.Target != b.Target {
		t.Fatalf("expected same target, got %d and %d", a.Target, b.Target)
	}
	for i := range a.Numbers {
		if a.Numbers[i] != b.Numbers[i] {
			t.Fatalf("expected same numbers, got %v and %v", a.Numbers, b.Numbers)
		}
	}
}

func classicRound() *Round {
	return &Round{ID: "r1", Numbers: []int{100, 75, 50, 25, 6, 3}, Target: 952, Big: 4}
}

func TestSubmitWorking(t *testing.T) {
	r := classicRound()
	out, err := r.Submit(context.Background(), direct{}, "((100+6)*3*75-50)/25", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Exact || out.Score != 10 || out.Value != 952 || out.Answer != 952 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if !r.Finished || r.State() != "finished" {
		t.Fatalf("expected round to be finished")
	}
	if _, err := r.Submit(context.Background(), direct{}, "100", 0); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
}

func TestSubmitDeclaredValue(t *testing.T) {
	r := classicRound()
	out, err := r.Submit(context.Background(), direct{}, "", 950)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Score != 8 || out.Exact || out.Answer != 952 || out.AnswerExpr == "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestSubmitScoresBestStep(t *testing.T) {
	drawn := []int{100, 75, 50, 25, 9, 3}
	tests := []struct {
		name    string
		numbers []int
		target  int
		working string
		want    int
		score   int
	}{
		{"intermediate beats final", drawn, 905, "100*9+75", 900, 5},
		{"final is best", drawn, 975, "100*9+75", 975, 10},
		{"invalid last step", drawn, 905, "100*9+(3-25)", 900, 5},
		{"fraction", drawn, 101, "3/9", 9, 0},
		{"zero result", drawn, 101, "(9/3)-(75/25)", 75, 0},
		{"tie keeps the smaller", []int{100, 75, 50, 25, 15, 3}, 80, "75+(100-15)", 75, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Round{ID: "r2", Numbers: tc.numbers, Target: tc.target, Big: 4}
			out, err := r.Submit(context.Background(), direct{}, tc.working, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Value != tc.want || out.Score != tc.score {
				t.Fatalf("expected value %d scoring %d, got %+v", tc.want, tc.score, out)
			}
			if out.Working == "" || !r.Finished || r.Declared != tc.want {
				t.Fatalf("expected the round to record the working, got %+v", r)
			}
		})
	}
}

func TestSubmitRejects(t *testing.T) {
	tests := []struct {
		name     string
		numbers  []int
		working  string
		declared int
		want     error
	}{
		{"number not drawn", []int{100, 75, 50, 25, 6, 3}, "100+7", 0, ErrNotAvailable},
		{"number used twice", []int{100, 75, 50, 25, 6, 3}, "100+100", 0, ErrNotAvailable},
		{"syntax", []int{100, 75, 50, 25, 6, 3}, "100+", 0, ErrInvalidWorking},
		{"nothing declared", []int{1, 2}, "", 0, ErrInvalidGuess},
		{"unreachable value", []int{1, 2}, "", 50, ErrUnreachable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Round{Numbers: tc.numbers, Target: 101}
			if _, err := r.Submit(context.Background(), direct{}, tc.working, tc.declared); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if r.Finished {
				t.Fatalf("a rejected declaration must not finish the round")
			}
		})
	}
}

func newTestNubble(endOnInvalid bool, dice ...int) *Nubble {
	n := NewNubble(endOnInvalid, rand.New(rand.NewPCG(3, 4)))
	n.Dice = dice
	return n
}

func TestNubblePick(t *testing.T) {
	n := newTestNubble(false, 1, 2, 3, 4)
	if n.Rolls != 1 {
		t.Fatalf("expected opening roll, got %d rolls", n.Rolls)
	}
	out, err := n.Pick(context.Background(), direct{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Allowed || out.Score != 10 || out.Expr == "" || out.State != "playing" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if n.Rolls != 2 || len(n.Dice) != NubbleDice {
		t.Fatalf("expected a reroll, got rolls=%d dice=%v", n.Rolls, n.Dice)
	}
	for _, d := range n.Dice {
		if d < 1 || d > NubbleFaces {
			t.Fatalf("die out of range: %v", n.Dice)
		}
	}
	if _, err := n.Pick(context.Background(), direct{}, 10); !errors.Is(err, ErrAlreadyPicked) {
		t.Fatalf("expected ErrAlreadyPicked, got %v", err)
	}
	for _, pin := range []int{0, 101} {
		if _, err := n.Pick(context.Background(), direct{}, pin); !errors.Is(err, ErrOffGrid) {
			t.Fatalf("pin %d: expected ErrOffGrid, got %v", pin, err)
		}
	}
	if got := n.Picked(); len(got) != 1 || got[0] != 10 {
		t.Fatalf("expected picked [10], got %v", got)
	}
}

func TestNubbleUnreachablePick(t *testing.T) {
	n := newTestNubble(false, 1, 1, 1, 1)
	out, err := n.Pick(context.Background(), direct{}, 97)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Allowed || out.State != "playing" || n.Score != 0 {
		t.Fatalf("expected rejected pick, got %+v", out)
	}

	n = newTestNubble(true, 1, 1, 1, 1)
	out, err = n.Pick(context.Background(), direct{}, 97)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Allowed || out.State != "finished" {
		t.Fatalf("expected game over, got %+v", out)
	}
	if _, err := n.Pick(context.Background(), direct{}, 2); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
}

func TestNubbleRunsOutOfRolls(t *testing.T) {
	n := newTestNubble(false, 2, 2, 2, 2)
	n.MaxRolls = 2
	if err := n.Pass(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Finished {
		t.Fatalf("game should still be running after the second roll")
	}
	n.Dice = []int{2, 2, 2, 2}
	out, err := n.Pick(context.Background(), direct{}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Allowed || out.State != "finished" {
		t.Fatalf("expected last pick to end the game, got %+v", out)
	}
	if err := n.Pass(); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
}
