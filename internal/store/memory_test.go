package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/robalobadob/wingo/apps/go-server/internal/game"
)

func TestMemoryRoundRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	r := &game.Round{ID: "r1", Numbers: []int{1, 2, 3, 4, 5, 6}, Target: 321}
	if err := st.SaveRound(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, release, err := st.Round(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	release()
	if got != r {
		t.Fatalf("expected the stored round back")
	}
	if _, _, err := st.Round(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := st.Nubble(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("a round is not a Nubble game, got %v", err)
	}
}

func TestMemoryNubbleLocksPerGame(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	n := &game.Nubble{ID: "n1"}
	if err := st.SaveNubble(ctx, n); err != nil {
		t.Fatalf("save: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, release, err := st.Nubble(ctx, "n1")
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			defer release()
			g.Score++
		}()
	}
	wg.Wait()
	if n.Score != 50 {
		t.Fatalf("expected 50 serialised updates, got %d", n.Score)
	}
}
