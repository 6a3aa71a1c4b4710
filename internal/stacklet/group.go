package stacklet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Group supervises every stacklet goroutine spawned through it (the owning
// package shares one Group across all prompt chains) and bounds how many
// may be live at once, standing in for the bookkeeping
// a real stacklet allocator does when it reserves and releases address
// space for each stacklet it hands out.
type Group struct {
	eg  *errgroup.Group
	ctx context.Context
	sem *semaphore.Weighted
}

// NewGroup returns a Group. max bounds the number of concurrently live
// stacklets spawned through it; max <= 0 leaves it unbounded, matching the
// C allocator's default of no fixed reserve.
func NewGroup(ctx context.Context, max int64) *Group {
	eg, ctx := errgroup.WithContext(ctx)
	g := &Group{eg: eg, ctx: ctx}
	if max > 0 {
		g.sem = semaphore.NewWeighted(max)
	}
	return g
}

// Enter spawns a new stacklet within the group, blocking until a slot is
// free if the group is bounded. It returns once the start function has
// produced its first handoff -- a Yield payload, or a terminal value if it
// ran to completion (or panicked/exited) before ever yielding.
//
// A non-nil error here means the group could not even start the stacklet
// (the bound context was canceled while waiting for a slot); it is the Go
// analogue of the allocator failing to reserve a new stacklet, surfaced as
// an error rather than the process abort the C library falls back to.
func (g *Group) Enter(name string, start StartFunc, init interface{}) (*Stacklet, interface{}, error) {
	if g.sem != nil {
		if err := g.sem.Acquire(g.ctx, 1); err != nil {
			return nil, nil, fmt.Errorf("stacklet %s: could not reserve a slot: %w", name, err)
		}
	}
	s := &Stacklet{
		in:   make(chan interface{}),
		out:  make(chan interface{}),
		done: make(chan struct{}),
	}
	g.eg.Go(func() (err error) {
		if g.sem != nil {
			defer g.sem.Release(1)
		}
		defer func() {
			// s.run already recovers any panic or Goexit from start and
			// bridges it across s.out as an Outcome; reaching here some
			// other way is a bug in this package, not in caller code.
			if e := recover(); e != nil {
				err = fmt.Errorf("stacklet %s: unrecovered internal panic: %v", name, e)
			}
		}()
		s.run(name, start, init)
		return nil
	})
	return s, <-s.out, nil
}

// Wait blocks until every stacklet spawned through the group has finished
// running, returning the first unexpected internal error, if any.
func (g *Group) Wait() error { return g.eg.Wait() }
