// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds active Countdown Numbers rounds and Nubble games keyed by ID.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each game also carries its own mutex: Round/Nubble hand the game back
//     locked, so two requests for one game never interleave.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wingo/apps/go-server/internal/game"
)

// ErrNotFound is returned when no game has the requested ID.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// SaveRound persists or updates a numbers round.
	SaveRound(ctx context.Context, r *game.Round) error
	// Round returns the round locked for the caller; release must be called
	// once the caller is done with it.
	Round(ctx context.Context, id string) (r *game.Round, release func(), err error)

	// SaveNubble persists or updates a Nubble game.
	SaveNubble(ctx context.Context, n *game.Nubble) error
	// Nubble returns the game locked for the caller; see Round.
	Nubble(ctx context.Context, id string) (n *game.Nubble, release func(), err error)
}

type entry struct {
	mu     sync.Mutex
	round  *game.Round
	nubble *game.Nubble
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards entries map
	entries map[string]*entry // keyed by game ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{entries: make(map[string]*entry)}
}

func (m *memory) SaveRound(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[r.ID]; ok {
		e.round = r
		return nil
	}
	m.entries[r.ID] = &entry{round: r}
	return nil
}

func (m *memory) SaveNubble(ctx context.Context, n *game.Nubble) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[n.ID]; ok {
		e.nubble = n
		return nil
	}
	m.entries[n.ID] = &entry{nubble: n}
	return nil
}

func (m *memory) Round(ctx context.Context, id string) (*game.Round, func(), error) {
	e, err := m.lock(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e.round == nil {
		e.mu.Unlock()
		return nil, nil, ErrNotFound
	}
	return e.round, e.mu.Unlock, nil
}

func (m *memory) Nubble(ctx context.Context, id string) (*game.Nubble, func(), error) {
	e, err := m.lock(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e.nubble == nil {
		e.mu.Unlock()
		return nil, nil, ErrNotFound
	}
	return e.nubble, e.mu.Unlock, nil
}

// lock finds the entry for id and takes its mutex.
func (m *memory) lock(ctx context.Context, id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	return e, nil
}
