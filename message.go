package mprompt

// transferKind tags a controlMessage with which of the transitions it
// realizes crossing a stacklet boundary. The EXN transition needs no kind
// of its own: a panic occurring anywhere in a prompt's start function
// (including one re-raised by a nested prompt's own resumption) simply
// propagates as an ordinary Go panic up the goroutine's call stack until
// internal/stacklet's recover catches it at the top and bridges it across
// as a stacklet.Outcome instead of a controlMessage.
type transferKind int

const (
	// kindYieldOnce and kindYieldMulti carry a Yield/Yieldm call's
	// callback up to whoever is resuming the prompt: invoke runs that
	// callback, constructing the accompanying resumption handle only once
	// it is known which side -- a live resumer, as opposed to a chain
	// being replayed -- actually needs one.
	kindYieldOnce transferKind = iota
	kindYieldMulti
	// kindResume carries a value down into a suspended prompt, continuing
	// it from wherever it last yielded.
	kindResume
	// kindReturn carries a prompt's start function's normal return value
	// back up to whoever is resuming it.
	kindReturn
)

// controlMessage is the one shape every stacklet handoff uses in this
// port: the original C library keeps separate return-point and
// resume-point records because each occupies a different stack frame
// layout; a Go channel has no such distinction, so both directions
// exchange the same struct.
type controlMessage struct {
	kind transferKind

	// value carries the payload for kindResume (the value delivered into
	// the suspended prompt) and kindReturn (the start function's result).
	value interface{}

	// invoke carries a Yield/Yieldm callback, deferred so the resumption
	// handle it is given is only ever constructed on the receiving side.
	invoke func() interface{}

	// target is the prompt a kindYieldOnce/kindYieldMulti message is
	// logically meant for. It is often the prompt immediately resuming
	// -- but Yield/Yieldm may target any ancestor, and since each hop in
	// this port is a separate goroutine (unlike the single real call
	// stack mp_yield jumps across in one move), reaching a non-immediate
	// ancestor means relaying this same message, hop by hop, through
	// every intermediate prompt's own stacklet -- see unlinkAndDeliver.
	target *Prompt
}
