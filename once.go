package mprompt

// OnceResumption is the resumption handle a Yield callback receives: it
// captures everything needed to continue execution from that exact Yield
// call, but may be invoked at most once. Grounded on mp_resume_t's
// once-tagged form (mp_resume_is_once/mp_resume_once); this port uses a
// dedicated Go type instead of a tagged pointer, since Go has no
// comparable low-bit pointer tagging idiom and real types already give the
// compiler (and readers) the once/multi distinction for free -- an option
// the original design notes explicitly leave open (see DESIGN.md).
type OnceResumption struct {
	prompt   *Prompt
	consumed bool
}

// Resume continues the captured computation with value as the result of
// the Yield call that produced this handle, blocking until it next yields
// or returns, and returning (or re-panicking) whatever that produces.
// Grounded on mp_resume.
func (r *OnceResumption) Resume(value interface{}) interface{} {
	r.mustConsume()
	return r.prompt.deliverResume(value)
}

// ResumeTail is Resume's tail-call counterpart (mp_resume_tail): the
// original reuses the calling C stack frame when the caller is about to
// return the result immediately, avoiding a frame the byte-copying
// snapshot would otherwise have to account for. Go's stack already grows
// and shrinks without that bookkeeping, so ResumeTail here is Resume in
// all but name; it is kept as a separate method so ported call sites that
// distinguish the two compile unchanged.
func (r *OnceResumption) ResumeTail(value interface{}) interface{} {
	return r.Resume(value)
}

// Drop discards this resumption without ever continuing it. Grounded on
// mp_resume_drop; Drop does not release the prompt's parked stacklet
// goroutine, and its only effect is marking the handle consumed so a later
// Resume is rejected instead of silently reusing a stale stacklet.
func (r *OnceResumption) Drop() {
	r.mustConsume()
}

// Dup always fails for a once-resumption: by construction it can never be
// duplicated. Grounded on mp_resume_dup's once-branch, which logs and
// returns NULL rather than aborting -- the one contract violation in this
// package surfaced as a plain error return instead of a panic.
func (r *OnceResumption) Dup() (*OnceResumption, error) {
	current.logf("mprompt: a once-resumption cannot be duplicated")
	return nil, ErrOnceNotDuplicable
}

func (r *OnceResumption) mustConsume() {
	if r.consumed {
		panic(ErrAlreadyConsumed)
	}
	r.consumed = true
}
