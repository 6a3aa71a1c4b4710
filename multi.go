package mprompt

import "sync"

// MultiResumption is the resumption handle a Yieldm callback receives: like
// OnceResumption it captures a continuation from an exact Yield call, but
// may be invoked any number of times, including zero, and may be
// duplicated. Grounded on mp_mresume_s.
type MultiResumption struct {
	mu sync.Mutex

	refcount    int32
	resumeCount int32

	// prompt is the live chain this handle currently targets. The first
	// resume of a sole-owned, never-resumed handle consumes it directly
	// (mp_resume_get_prompt's fast path); every resume after that forks a
	// fresh replayed copy first, per prepare() in replay.go.
	prompt *Prompt

	// replayLog is a snapshot of prompt's resume history as of the moment
	// this handle was captured -- the values needed to reconstruct an
	// equivalent suspended copy of prompt from scratch. See replay.go.
	replayLog []interface{}
}

func newMultiResumption(p *Prompt) *MultiResumption {
	return &MultiResumption{
		refcount:  1,
		prompt:    p,
		replayLog: append([]interface{}(nil), p.resumeHistory...),
	}
}

// ResumeCount reports how many times this handle has been resumed so far.
// Grounded on mp_resume_resume_count.
func (r *MultiResumption) ResumeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.resumeCount)
}

// ShouldUnwind reports whether this handle is a multi-shot resumption that
// is the sole owner of its chain and has never been resumed -- the
// original's hint that a handler about to discard the resumption should
// unwind its captured computation immediately rather than leave it parked.
// Grounded on mp_resume_should_unwind.
func (r *MultiResumption) ShouldUnwind() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refcount == 1 && r.resumeCount == 0
}

// Resume continues the captured computation with value as the result of
// the Yieldm call that produced this handle. The first resume of a handle
// nobody has duplicated reuses the originally captured chain directly; any
// resume after that (a second resume, or a resume of a duplicated handle)
// first reconstructs a fresh copy by replaying the chain's recorded resume
// history from the start -- see prepare in replay.go. Grounded on
// mp_mresume/mp_resume_get_prompt.
func (r *MultiResumption) Resume(value interface{}) interface{} {
	p := r.prepare()
	return p.deliverResume(value)
}

// ResumeTail is Resume's tail-call counterpart; see OnceResumption's
// identically-motivated method.
func (r *MultiResumption) ResumeTail(value interface{}) interface{} {
	return r.Resume(value)
}

// Dup returns another reference to this same resumption, incrementing its
// refcount. Grounded on mp_resume_dup's multi-branch (mp_mresume_dup).
func (r *MultiResumption) Dup() *MultiResumption {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refcount++
	return r
}

// Drop releases one reference to this resumption without resuming it.
// Grounded on mp_resume_drop/mp_mresume_drop.
func (r *MultiResumption) Drop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refcount--
	if r.refcount <= 0 {
		r.prompt.drop()
	}
}
