package mprompt

import "github.com/jcorbin/mprompt/internal/stacklet"

// prepare returns the prompt r.Resume should actually deliver its value
// into: either r.prompt itself, reused directly because nothing else can
// ever need this exact chain again, or a freshly replayed copy
// reconstructing the same suspended state. Grounded on
// mp_resume_get_prompt's three cases; the case that clones captured stack
// bytes in the original (mp_prompt_restore) is replaced here by replay, a
// re-run-from-the-start substitute (see the replay function below).
func (r *MultiResumption) prepare() *Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refcount == 1 && r.resumeCount == 0 {
		// sole owner, never used: this exact chain can never be needed
		// again after this resume, so consume it directly.
		r.resumeCount++
		return r.prompt
	}

	// TODO(restore refcount?): mp_gsave_restore carries an unresolved
	// question of whether restoring a saved prompt should also restore
	// its refcount, rather than leave the restored copy at whatever
	// mp_prompt_dup last set it to. This port inherits that question
	// unresolved rather than silently deciding it: a replayed prompt
	// below is always given a fresh refcount of 1, not r.prompt's.
	fresh := replay(r.prompt, r.replayLog)
	r.resumeCount++
	return fresh
}

// replay reconstructs a prompt equivalent to root having been suspended
// after exactly len(log) resumes, by spawning a new stacklet running
// root's own start function from scratch and silently re-delivering each
// logged value at each yield in turn -- without invoking that yield's
// callback, which already ran once, against a different resumption
// object, the first time this sequence happened live; invoking it again
// here would hand out a second resumption nothing will ever use. This
// requires root's start function to reach exactly the same sequence of
// Yield/Yieldm calls given the same sequence of replayed values -- a
// multi-shot target must be deterministic in that sense, or replay
// diverges from the chain it is meant to reconstruct.
func replay(root *Prompt, log []interface{}) *Prompt {
	fresh := &Prompt{
		group:    root.group,
		start:    root.start,
		name:     root.name,
		refcount: 1,
	}

	out := fresh.enterForReplay(root.rootArg)
	for _, v := range log {
		out = fresh.driveReplayStep(out, v)
	}

	if _, ok := asSuspendedYield(fresh, out); !ok {
		panic(&ContractError{Msg: "multi-shot replay diverged: start function returned before reaching its recorded suspension depth"})
	}
	fresh.suspended = true
	fresh.resumeHistory = append([]interface{}(nil), log...)
	return fresh
}

// driveReplayStep silently resumes one logged step of a replay: out must
// be the (uninvoked) yield message produced by the previous step, and v is
// the value that was actually delivered to it the first time this
// sequence ran live.
func (p *Prompt) driveReplayStep(out interface{}, v interface{}) interface{} {
	if _, ok := asSuspendedYield(p, out); !ok {
		panic(&ContractError{Msg: "multi-shot replay diverged: start function returned before reaching its recorded suspension depth"})
	}
	p.suspended = true
	return p.stacklet.Resume(controlMessage{kind: kindResume, value: v})
}

// asSuspendedYield reports whether out is a yield message (as opposed to a
// return), and panics with a ContractError if that yield targets a prompt
// other than p; replay only supports reconstructing a single prompt's own
// chain, not one that relays yields through or past a nested prompt.
func asSuspendedYield(p *Prompt, out interface{}) (controlMessage, bool) {
	msg, ok := out.(controlMessage)
	if !ok || msg.kind == kindReturn {
		return controlMessage{}, false
	}
	if msg.target != nil && msg.target != p {
		panic(&ContractError{Msg: "multi-shot replay does not support yields relayed through a nested prompt"})
	}
	return msg, true
}

// enterForReplay performs the same PI transition run does, but returns the
// raw first handoff instead of invoking it -- replay.go drives a replayed
// prompt's intermediate yields silently; see replay above.
func (p *Prompt) enterForReplay(arg interface{}) interface{} {
	p.link(PromptTop())
	out := p.spawn(arg)
	if o, ok := stacklet.IsOutcome(out); ok {
		p.suspended = true
		o.Rethrow()
	}
	return out
}
