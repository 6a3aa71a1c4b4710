// Package stacklet provides the goroutine-backed stand-in for a growable
// stacklet allocator plus non-local jump, the two external collaborators
// the underlying delimited-control design is built against. Go gives
// neither primitive to library code: a goroutine's stack cannot be
// allocated, committed, or byte-copied from outside it, and there is no
// setjmp/longjmp. A parked goroutine, handed values across a pair of
// unbuffered channels, fills both roles: only one side of the handoff is
// ever runnable, which is exactly the single-threaded cooperative model the
// owning engine requires.
package stacklet

// StartFunc is run on a stacklet's own goroutine. init is whatever value
// was passed to Enter/Group.Enter; the return value becomes the stacklet's
// normal termination, delivered to whoever is blocked in Resume waiting for
// it. A StartFunc that wants to suspend mid-flight does so by calling
// Current's Yield from wherever it (or anything it calls, arbitrarily deep)
// is running -- see the owning package's transfer logic for how "current"
// is found without explicit threading.
type StartFunc func(init interface{}) interface{}

// Stacklet is one goroutine parked on a pair of unbuffered channels. At
// most one of the two sides -- the goroutine itself, or whoever holds the
// Stacklet value -- is ever actually running at a time.
type Stacklet struct {
	in   chan interface{}
	out  chan interface{}
	done chan struct{}
}

// Enter spawns a new unsupervised stacklet. Prefer Group.Enter, which adds
// the bounding and panic-supervision described on Group; Enter
// exists directly for callers (and tests) that need a bare stacklet with no
// group bookkeeping.
func Enter(name string, start StartFunc, init interface{}) (*Stacklet, interface{}) {
	s := &Stacklet{
		in:   make(chan interface{}),
		out:  make(chan interface{}),
		done: make(chan struct{}),
	}
	go s.run(name, start, init)
	return s, <-s.out
}

func (s *Stacklet) run(name string, start StartFunc, init interface{}) {
	defer close(s.done)
	defer recoverGoexit(name, s.out)
	defer recoverPanic(name, s.out)
	s.out <- start(init)
}

// Resume hands v into the parked goroutine and blocks for its next handoff:
// either the value of another Yield call, the start function's normal
// return value, or a recovered Outcome if it panicked or called
// runtime.Goexit instead.
func (s *Stacklet) Resume(v interface{}) interface{} {
	s.in <- v
	return <-s.out
}

// Yield is called from inside the goroutine a Stacklet is running (by
// whatever arbitrary code the start function ends up calling). It hands v
// out to whoever is blocked in Resume and parks until the next Resume call
// hands a value back in.
func (s *Stacklet) Yield(v interface{}) interface{} {
	s.out <- v
	return <-s.in
}

// Done returns a channel closed once the stacklet's goroutine has fully
// exited, after its terminal handoff has already been delivered via
// Resume/Enter's return value.
func (s *Stacklet) Done() <-chan struct{} { return s.done }
