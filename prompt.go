package mprompt

import (
	"context"

	"github.com/jcorbin/mprompt/internal/stacklet"
)

// StartFunc is the body run underneath a prompt: it receives the prompt's
// own handle (so it can Yield to it) and the initial argument passed to
// Prompt/PromptCreate, and its return value becomes the prompt's ordinary
// (non-yielding) result.
type StartFunc func(p *Prompt, arg interface{}) interface{}

// Prompt marks a point on the call stack that inner code can Yield back to.
// It is active while its start function is actually running (on its own
// stacklet) and suspended whenever a Yield beneath it has handed control
// back to whoever is holding its resumption.
//
// A Prompt's zero value is not usable; create one with PromptCreate.
type Prompt struct {
	group *stacklet.Group

	// parent is the innermost prompt that was active, on the calling
	// goroutine, at the moment this prompt was most recently linked
	// (first run, or resumed) -- see link/unlink in transfer.go. It can
	// differ across separate resumes of the same prompt, exactly as in
	// the original: a resumption can be invoked from a different dynamic
	// context than the one that captured it.
	parent *Prompt

	// suspended is false while this prompt's start function is running
	// (mp_prompt_is_active's top == nil case), and also once that start
	// function has returned; it is true before the first run and whenever
	// a Yield beneath the prompt has handed control back.
	suspended bool

	refcount int32

	stacklet *stacklet.Stacklet
	start    StartFunc
	name     string

	// rootArg is the value originally passed to run (the PI transition);
	// replay.go re-delivers it to a freshly spawned stacklet reconstructing
	// this chain's state at some later suspension point.
	rootArg interface{}

	// resumeHistory records, in order, every value delivered by a
	// successful deliverResume against this exact prompt -- the Go
	// replacement for a byte-level stack snapshot: replaying this log
	// against a fresh run of start (see replay.go) reconstructs an
	// equivalent suspended copy without ever copying a goroutine's
	// native stack.
	resumeHistory []interface{}
}

// PromptCreate allocates a new, suspended prompt bound to fun, without
// running it. It corresponds to mp_prompt_create, but returns the *Prompt
// itself rather than a resumption handle, and no exported function starts a
// prompt created this way: Prompt creates and runs its own.
func PromptCreate(fun StartFunc) *Prompt {
	return &Prompt{
		group:     defaultGroup,
		start:     fun,
		refcount:  1,
		name:      "prompt",
		suspended: true,
	}
}

// Prompt is the convenience entry point matching mp_prompt: it creates a
// prompt for fun and immediately runs it with arg, returning whatever fun
// eventually returns (after however many intervening Yield/Resume round
// trips happen along the way) or re-raising whatever it panicked with.
func Prompt(fun StartFunc, arg interface{}) interface{} {
	p := PromptCreate(fun)
	return p.run(arg)
}

// IsActive reports whether p is not suspended: it is true while p's start
// function is running (as opposed to not yet started, or parked on a
// suspended Yield), and stays true once that start function has returned.
func (p *Prompt) IsActive() bool { return !p.suspended }

// Parent returns the innermost prompt that was active when p was most
// recently linked, or nil if p was entered/resumed with no enclosing
// prompt. PromptTop() is Parent(nil).
func (p *Prompt) Parent() *Prompt {
	if p == nil {
		return PromptTop()
	}
	return p.parent
}

// PromptTop returns the innermost prompt active on the calling goroutine,
// or nil if the caller is not running underneath any prompt.
func PromptTop() *Prompt { return globalRegistry.currentTop() }

func (p *Prompt) isAncestorOf(q *Prompt) bool {
	for q != nil {
		q = q.Parent()
		if q == p {
			return true
		}
	}
	return false
}

// drop releases one reference to p by decrementing its refcount. Unlike the
// C implementation there is no free step: reaching zero reclaims nothing,
// and the stacklet goroutine backing a dropped-while-suspended prompt stays
// parked on its channel, since Go never collects a blocked goroutine.
func (p *Prompt) drop() {
	p.refcount--
}

// defaultGroup supervises every stacklet goroutine spawned by every prompt
// chain for the life of the process, not one chain at a time: a prompt
// chain routinely outlives the Prompt() call that started it (a dropped or
// not-yet-resumed resumption leaves its stacklet goroutine parked
// indefinitely), so there is no point at which a single chain's group could
// safely Wait() without risking a deadlock on a goroutine nothing has
// resumed yet. Init reassigns this when reconfigured with WithMaxStacklets.
var defaultGroup = stacklet.NewGroup(context.Background(), 0)
