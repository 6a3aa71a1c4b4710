package mprompt

import "github.com/jcorbin/mprompt/internal/stacklet"

// run performs the PI (Prompt-Initial) transition: p has never executed
// before, so give it a stacklet and let its start function begin. Grounded
// on mp_prompt's call into mp_prompt_resume with a fresh resume_t.
func (p *Prompt) run(arg interface{}) interface{} {
	p.link(PromptTop())
	first := p.spawn(arg)
	return p.unlinkAndDeliver(first)
}

// spawn gives p a stacklet running its start function with arg and returns
// its first handoff, without interpreting it -- shared by run and
// replay.go's enterForReplay, which need the same PI transition but differ
// in what happens to the result.
func (p *Prompt) spawn(arg interface{}) interface{} {
	p.rootArg = arg
	wrapped := func(init interface{}) interface{} {
		globalRegistry.claim(p)
		defer globalRegistry.release()
		result := p.start(p, init)
		return controlMessage{kind: kindReturn, value: result}
	}
	s, first, err := p.group.Enter(p.name, wrapped, arg)
	if err != nil {
		current.logf("mprompt: %s: could not spawn a stacklet: %v", p.name, err)
		panic(&FatalError{Op: "prompt", Err: err})
	}
	p.stacklet = s
	return first
}

// deliverResume performs the PR (Prompt-Resume) transition: p is currently
// suspended at a Yield call, and value becomes that Yield call's return
// value. Grounded on mp_resume/mp_prompt_resume_tail.
func (p *Prompt) deliverResume(value interface{}) interface{} {
	if !p.suspended {
		panic(&ContractError{Msg: "resume of a prompt that is not suspended"})
	}
	p.link(PromptTop())
	p.resumeHistory = append(p.resumeHistory, value)
	out := p.stacklet.Resume(controlMessage{kind: kindResume, value: value})
	return p.unlinkAndDeliver(out)
}

// link records p's dynamic parent for the run about to happen -- the
// prompt active on the calling goroutine right before the handoff, exactly
// as mp_prompt_link captures mp_prompt_top() before making p active. It can
// differ across separate resumes of the same prompt.
func (p *Prompt) link(parent *Prompt) {
	p.parent = parent
	p.suspended = false
}

// unlinkAndDeliver interprets whatever a stacklet handoff produced and
// suspends the prompt that produced it (mp_prompt_unlink), then either
// returns a final value to the caller, invokes a yield's callback, or
// relays a yield on toward its target. Grounded on mp_prompt_unlink plus
// the non-local jump mp_yield/mp_resume perform in one move on a single
// real stack; here, reaching a non-immediate ancestor instead means
// forwarding the same message through every intermediate prompt's own
// stacklet -- p.parent.stacklet.Yield physically parks p.parent's own
// dedicated goroutine (the one running this call) mid-call, exactly where
// its nested Prompt call for the next hop down is waiting.
//
// Once the target is reached and answers (by resuming, directly or
// indirectly), the answer must cascade back down through every one of
// those parked hops in reverse before it reaches the prompt whose code
// is actually waiting on it; the kindResume case below is that cascade,
// each level resuming the one below it and continuing to interpret
// whatever that produces (a final return, a further yield, or a bridged
// panic/Goexit) exactly as if it had arrived directly.
func (p *Prompt) unlinkAndDeliver(out interface{}) interface{} {
	if o, ok := stacklet.IsOutcome(out); ok {
		p.suspended = true
		o.Rethrow()
		panic("unreachable: Outcome.Rethrow always panics or calls runtime.Goexit")
	}
	msg, ok := out.(controlMessage)
	if !ok {
		panic(&ContractError{Msg: "unexpected value delivered across a stacklet handoff"})
	}
	switch msg.kind {
	case kindReturn:
		p.suspended = false
		return msg.value
	case kindResume:
		return p.unlinkAndDeliver(p.stacklet.Resume(msg))
	default: // kindYieldOnce, kindYieldMulti
		p.suspended = true
		if msg.target == nil || msg.target == p {
			return msg.invoke()
		}
		parent := p.parent
		if parent == nil {
			panic(&ContractError{Msg: "yield target is not an ancestor of the calling prompt chain"})
		}
		return p.unlinkAndDeliver(parent.stacklet.Yield(msg))
	}
}

// Yield suspends the innermost running code back to p, the matching
// enclosing prompt, handing fn a once-resumption for this exact point. fn
// runs in the dynamic context of whoever resumes p (immediately, on the
// same stacklet handoff that delivered this Yield), and whatever fn
// returns is handed back to that resumer as the result of its own
// Resume/Prompt call. Yield itself returns, once (if ever) the resumption
// is invoked, the value passed to that Resume. Grounded on mp_yield.
func Yield(p *Prompt, fn func(r *OnceResumption, arg interface{}) interface{}, arg interface{}) interface{} {
	return yield(p, kindYieldOnce, func() interface{} {
		return fn(&OnceResumption{prompt: p}, arg)
	})
}

// Yieldm is Yield's multi-shot counterpart: fn receives a MultiResumption
// that may be invoked any number of times, including after this Yield call
// has itself already returned once. Grounded on mp_yieldm.
func Yieldm(p *Prompt, fn func(r *MultiResumption, arg interface{}) interface{}, arg interface{}) interface{} {
	return yield(p, kindYieldMulti, func() interface{} {
		return fn(newMultiResumption(p), arg)
	})
}

// yield is shared by Yield and Yieldm: the physical channel operation
// always happens on cur, the innermost active prompt on the calling
// goroutine -- the only stacklet the currently running code can actually
// park itself on -- carrying target along so unlinkAndDeliver can relay it
// further up if target is a more distant ancestor.
func yield(target *Prompt, kind transferKind, invoke func() interface{}) interface{} {
	if target == nil {
		panic(&ContractError{Msg: "yield to a nil prompt"})
	}
	cur := PromptTop()
	if cur == nil {
		panic(&ContractError{Msg: "yield called with no active enclosing prompt"})
	}
	if !(cur == target || target.isAncestorOf(cur)) {
		panic(&ContractError{Msg: "yield to a prompt that is not an ancestor of the calling code"})
	}
	out := cur.stacklet.Yield(controlMessage{kind: kind, invoke: invoke, target: target})
	msg, ok := out.(controlMessage)
	if !ok {
		panic(&ContractError{Msg: "unexpected value delivered across a stacklet handoff"})
	}
	return msg.value
}
