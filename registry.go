package mprompt

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// registry answers "which prompt owns the goroutine that is currently
// running", the Go analogue of mprompt.c's per-thread _mp_prompt_top. Since
// each stacklet in this port is backed by its own dedicated goroutine, that
// goroutine belongs to exactly one prompt for its entire life: it is spawned
// to run that prompt's start function and nothing else ever runs on it.
// Arbitrary code called from inside that start function, however deeply
// nested, still executes on the same goroutine, so keying this lookup by
// the real goroutine id reproduces the C library's thread-local top
// correctly without threading a context parameter through every call in
// the user's program.
type registry struct {
	mu  sync.Mutex
	top map[int64]*Prompt
}

var globalRegistry = &registry{top: make(map[int64]*Prompt)}

// currentTop returns the prompt owning the calling goroutine, or nil if the
// calling goroutine is not running inside any prompt's start function.
func (r *registry) currentTop() *Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.top[goroutineID()]
}

// claim records that the calling goroutine -- which must be the stacklet
// goroutine p owns, calling this as the first thing it does -- now belongs
// to p for the rest of its life.
func (r *registry) claim(p *Prompt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.top[goroutineID()] = p
}

// release forgets the calling goroutine's association once its prompt's
// start function has fully returned (normally, by panic, or by Goexit) and
// the goroutine is about to exit.
func (r *registry) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.top, goroutineID())
}

// goroutineID parses the numeric id out of the calling goroutine's own
// stack trace header ("goroutine 123 [running]:"). It is called on every
// currentTop, claim and release.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		panic("mprompt: could not parse goroutine id from runtime.Stack: " + err.Error())
	}
	return id
}
