package mprompt

import "runtime"

// Backtrace collects call stack frames from p up through every ancestor
// prompt to the root, one stacklet hop at a time: it yields to p, which
// hands control to whoever is resuming it, captures that side's frames
// with runtime.Callers, then immediately resumes p and recurses into p's
// own parent. Grounded on mprompt.c's Windows mp_yield_backtrace bridge --
// a plain application of the existing Yield protocol, needing no new
// transfer kind -- here realized as one ordinary Yield round trip per
// ancestor.
func Backtrace(p *Prompt) []uintptr {
	if p == nil {
		return nil
	}
	var pcs []uintptr
	Yield(p, func(r *OnceResumption, arg interface{}) interface{} {
		buf := make([]uintptr, 64)
		n := runtime.Callers(0, buf)
		pcs = append([]uintptr(nil), buf[:n]...)
		return r.Resume(nil)
	}, nil)
	if parent := p.Parent(); parent != nil {
		pcs = append(pcs, Backtrace(parent)...)
	}
	return pcs
}
