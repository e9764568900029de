// apps/go-server/internal/worker/pool.go
//
// Bounded pool that runs CPU-bound solver queries off the request goroutine.
// Responsibilities:
//   - Start N workers (errgroup) that pull jobs from a shared channel.
//   - Let callers wait for a reply or give up when their ctx ends.
//   - Propagate the caller's ctx into the solve so abandoned work stops.
//
// Notes:
//   - The solver itself is synchronous; this package only decides where it runs.
//   - Close stops accepting jobs and waits for in-flight ones.

package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wingo/apps/go-server/internal/solver"
)

// ErrClosed is returned for jobs submitted after Close.
var ErrClosed = errors.New("worker: pool closed")

type job struct {
	ctx  context.Context
	name string
	run  func(ctx context.Context)
	done chan error // buffered; receives exactly one value
}

// Pool dispatches solver queries onto a fixed number of goroutines.
type Pool struct {
	jobs    chan job
	quit    chan struct{}
	g       errgroup.Group
	workers int

	mu     sync.RWMutex // guards closed; held for reading while enqueueing
	closed bool

	completed atomic.Int64
	cancelled atomic.Int64
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int   `json:"workers"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// New starts a pool with the given number of workers.
// workers <= 0 means runtime.NumCPU().
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		jobs:    make(chan job, workers*2),
		quit:    make(chan struct{}),
		workers: workers,
	}
	for i := 0; i < workers; i++ {
		id := i
		p.g.Go(func() error {
			for {
				select {
				case <-p.quit:
					return nil
				case j := <-p.jobs:
					p.runJob(id, j)
				}
			}
		})
	}
	log.Debug().Int("workers", workers).Msg("solver pool started")
	return p
}

func (p *Pool) runJob(worker int, j job) {
	if err := j.ctx.Err(); err != nil {
		p.cancelled.Add(1)
		j.done <- err
		return
	}
	start := time.Now()
	j.run(j.ctx)
	if j.ctx.Err() != nil {
		p.cancelled.Add(1)
	} else {
		p.completed.Add(1)
	}
	j.done <- nil
	log.Debug().Int("worker", worker).Str("job", j.name).Dur("took", time.Since(start)).Msg("solver job done")
}

// do enqueues fn and blocks until it has run or ctx ends.
func (p *Pool) do(ctx context.Context, name string, fn func(ctx context.Context)) error {
	j := job{ctx: ctx, name: name, run: fn, done: make(chan error, 1)}
	if err := p.enqueue(ctx, j); err != nil {
		return err
	}
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) enqueue(ctx context.Context, j job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- j:
		return nil
	}
}

// Solve runs solver.Solve on the pool. limit caps the number of solutions
// (0 means unlimited).
func (p *Pool) Solve(ctx context.Context, numbers []int, target, limit int) (solver.Result, error) {
	var (
		res solver.Result
		err error
	)
	s := solver.Solver{MaxSolutions: limit}
	if perr := p.do(ctx, "solve", func(ctx context.Context) {
		res, err = s.Solve(ctx, numbers, target)
	}); perr != nil {
		return solver.Result{}, perr
	}
	return res, err
}

// Nearest runs solver.Nearest on the pool.
func (p *Pool) Nearest(ctx context.Context, numbers []int, target int) (solver.Solution, error) {
	var (
		sol solver.Solution
		err error
	)
	if perr := p.do(ctx, "nearest", func(ctx context.Context) {
		sol, err = solver.Default.Nearest(ctx, numbers, target)
	}); perr != nil {
		return solver.Solution{}, perr
	}
	return sol, err
}

// SolveOrNearest runs solver.SolveOrNearest on the pool, so an unreachable
// target costs one enumeration rather than two.
func (p *Pool) SolveOrNearest(ctx context.Context, numbers []int, target, limit int) (solver.Result, solver.Solution, error) {
	var (
		res  solver.Result
		best solver.Solution
		err  error
	)
	s := solver.Solver{MaxSolutions: limit}
	if perr := p.do(ctx, "solve-or-nearest", func(ctx context.Context) {
		res, best, err = s.SolveOrNearest(ctx, numbers, target)
	}); perr != nil {
		return solver.Result{}, solver.Solution{}, perr
	}
	return res, best, err
}

// Declare runs solver.Declare on the pool.
func (p *Pool) Declare(ctx context.Context, numbers []int, declared, target int) (bool, solver.Solution, error) {
	var (
		found bool
		best  solver.Solution
		err   error
	)
	if perr := p.do(ctx, "declare", func(ctx context.Context) {
		found, best, err = solver.Default.Declare(ctx, numbers, declared, target)
	}); perr != nil {
		return false, solver.Solution{}, perr
	}
	return found, best, err
}

// NearestValue runs solver.NearestValue on the pool.
func (p *Pool) NearestValue(ctx context.Context, numbers []int, target int) (int, error) {
	sol, err := p.Nearest(ctx, numbers, target)
	if err != nil {
		return 0, err
	}
	return sol.Value, nil
}

// Stats returns the current pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Completed: p.completed.Load(),
		Cancelled: p.cancelled.Load(),
	}
}

// Close stops the workers after their current job and waits for them.
// Jobs still queued are never run; their callers get ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	err := p.g.Wait()
	for {
		select {
		case j := <-p.jobs:
			j.done <- ErrClosed
		default:
			log.Debug().Msg("solver pool stopped")
			return err
		}
	}
}
