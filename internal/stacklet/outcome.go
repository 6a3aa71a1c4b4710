package stacklet

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

// OutcomeKind tags how a stacklet's start function stopped running without
// handing control back through the normal Yield/return channel.
type OutcomeKind int

const (
	// Panicked means the start function (or something it called, arbitrarily
	// deep) panicked and the panic was never recovered before reaching the
	// top of the stacklet's goroutine.
	Panicked OutcomeKind = iota
	// Exited means the start function called runtime.Goexit, directly or by
	// calling something that does (t.FailNow, log.Fatal's os.Exit excepted).
	Exited
)

// Outcome carries an abnormal stacklet termination across the channel
// boundary to whichever goroutine is blocked resuming it, so the far side
// can reproduce the termination instead of silently losing it.
type Outcome struct {
	Kind  OutcomeKind
	Value interface{} // the value passed to panic, for Panicked
	Stack []byte      // captured via debug.Stack, for Panicked
	Name  string
}

func (o Outcome) Error() string { return fmt.Sprint(o) }

// Format implements fmt.Formatter: %+v additionally appends the captured
// panic stack.
func (o Outcome) Format(f fmt.State, c rune) {
	switch o.Kind {
	case Exited:
		if o.Name == "" {
			fmt.Fprintf(f, "runtime.Goexit called")
		} else {
			fmt.Fprintf(f, "%v called runtime.Goexit", o.Name)
		}
	default:
		if o.Name == "" {
			fmt.Fprintf(f, "paniced: %v", o.Value)
		} else {
			fmt.Fprintf(f, "%v paniced: %v", o.Name, o.Value)
		}
		if c == 'v' && f.Flag('+') {
			fmt.Fprintf(f, "\nPanic stack: %s", o.Stack)
		}
	}
}

func (o Outcome) Unwrap() error {
	err, _ := o.Value.(error)
	return err
}

// Rethrow reproduces the original termination at the call site of whoever
// resumed this stacklet: a captured panic value is panicked again verbatim
// (not wrapped in an error), and a captured Goexit is re-triggered.
func (o Outcome) Rethrow() {
	switch o.Kind {
	case Exited:
		runtime.Goexit()
	default:
		panic(o.Value)
	}
}

// IsOutcome reports whether v is a recovered abnormal stacklet termination
// rather than an ordinary value handed across a Yield/Resume.
func IsOutcome(v interface{}) (Outcome, bool) {
	o, ok := v.(Outcome)
	return o, ok
}

func recoverPanic(name string, out chan<- interface{}) {
	if e := recover(); e != nil {
		// start panicked before the happy path could send on out, and
		// whoever entered or resumed this stacklet is (or is about to be)
		// receiving from out, so this send always completes.
		out <- Outcome{Kind: Panicked, Value: e, Stack: debug.Stack(), Name: name}
	}
}

func recoverGoexit(name string, out chan<- interface{}) {
	select {
	case out <- Outcome{Kind: Exited, Name: name}:
	default:
		// the happy path, or recoverPanic, already sent on out
	}
}

// IsPanic returns true if err indicates a recovered stacklet panic.
func IsPanic(err error) bool {
	var o Outcome
	return errors.As(err, &o) && o.Kind == Panicked
}

// IsExit returns true if err indicates a recovered stacklet Goexit.
func IsExit(err error) bool {
	var o Outcome
	return errors.As(err, &o) && o.Kind == Exited
}
