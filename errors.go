package mprompt

import "fmt"

// ContractError marks a violation of one of this package's calling
// conventions -- yielding to a prompt that is not an ancestor of the
// calling code, resuming a prompt that is not suspended, duplicating or
// resuming a resumption handle that has already been consumed -- rather
// than an ordinary runtime failure. Grounded on core.go's haltError: a
// distinguished type with an Unwrap, panicked rather than returned,
// because the normal return value of Yield/Resume is whatever the other
// side of the transfer eventually delivers, not an (interface{}, error)
// pair.
type ContractError struct {
	Msg string
	Err error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mprompt: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("mprompt: %s", e.Msg)
}

func (e *ContractError) Unwrap() error { return e.Err }

// FatalError marks a failure this library cannot recover from on behalf of
// its caller -- today, only a stacklet.Group failing to reserve a new
// stacklet (the Go analogue of the underlying allocator running out of
// reservable address space, which the C library treats by calling
// mp_fatal_message and aborting the process). A library must not call
// os.Exit on a caller's behalf, so this is surfaced as a panic of a
// distinguished type instead, letting a host recover it, log it, and shut
// down on its own terms.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("mprompt: fatal: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// ErrOnceNotDuplicable is returned by (*OnceResumption).Dup: a once-only
// resumption can never be duplicated, by construction. Unlike other
// contract violations this one has an explicit error-returning signature
// in the original design (mp_resume_dup's once-branch returns NULL and logs
// a message rather than aborting), so this port honors that and returns a
// sentinel instead of panicking.
var ErrOnceNotDuplicable = &ContractError{Msg: "a once-resumption cannot be duplicated"}

// ErrAlreadyConsumed is the value (*OnceResumption).Resume and Drop panic
// with where the original design's debug assertions would fire: resuming or
// dropping a resumption handle a second time.
var ErrAlreadyConsumed = &ContractError{Msg: "resumption has already been consumed"}
