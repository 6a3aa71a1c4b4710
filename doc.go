/*
Package mprompt implements multi-shot delimited control: mark a point on
the call stack (a Prompt), run arbitrary code beneath it, and from that
inner code Yield back to the prompt while capturing the intervening
computation as a resumption that can later be invoked -- once, or many
times -- to continue execution from the yield point.

A prompt is created and run with Prompt:

	result := mprompt.Prompt(func(p *mprompt.Prompt, arg interface{}) interface{} {
		// arbitrary code, possibly calling mprompt.Yield(p, ...) somewhere
		// arbitrarily deep in its own call graph
		return arg.(int) + 1
	}, 41)

Code running underneath a prompt yields to it by reference:

	mprompt.Yield(p, func(r *mprompt.OnceResumption, arg interface{}) interface{} {
		// runs in the dynamic context of whoever resumes p; r.Resume(v)
		// continues the yielding code from right after the Yield call,
		// as if Yield had simply returned v
		return r.Resume(99)
	}, "hello")

Yieldm is Yield's multi-shot counterpart: the resumption it hands to its
callback may be invoked any number of times, forking the captured
computation on each use after the first.

This package has no C counterpart to lean on for its two lowest-level
collaborators -- a growable stacklet allocator, and a non-local jump
between stacklets -- because Go exposes neither a way to allocate and
byte-copy a goroutine's own stack, nor setjmp/longjmp. internal/stacklet
realizes both with a goroutine parked on a channel pair standing in for a
stacklet, and a channel handoff standing in for the jump. A multi-shot
target's start function is replayed from scratch to reconstruct a forked
continuation (see replay.go), which adds one invariant a byte-copying
implementation would not need: given the same sequence of resume values,
it must reach the same sequence of Yield/Yieldm calls every time.
*/
package mprompt
