package mprompt

import (
	"context"

	"github.com/jcorbin/mprompt/internal/stacklet"
)

// Option configures the package's default stacklet group. Grounded on
// options.go/api.go's VMOption/options/noption triad, renamed to this
// package's domain; Init plays the role VM construction plays there.
type Option interface{ apply(c *config) }

type config struct {
	maxStacklets int64
	logf         func(mess string, args ...interface{})
}

var current = config{logf: func(string, ...interface{}) {}}

// Options flattens a list of Option values the same way VMOptions does,
// so a package of related options can be composed and passed around as a
// single Option.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*config) {}

type options []Option

func (opts options) apply(c *config) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}
}

type maxStackletsOption int64

// WithMaxStacklets bounds how many stacklet goroutines may be live at
// once, standing in for the real allocator's address-space reservation
// ceiling; n <= 0 means unbounded.
func WithMaxStacklets(n int) Option { return maxStackletsOption(n) }

func (n maxStackletsOption) apply(c *config) { c.maxStacklets = int64(n) }

type logfOption func(mess string, args ...interface{})

// WithLogf installs a diagnostic log sink for internal state transitions
// (today: stacklet reservation failures, and a duplicated once-resumption).
// The core itself takes no logging dependency, so a host can observe these
// without this package importing a logging library of its own.
func WithLogf(f func(mess string, args ...interface{})) Option { return logfOption(f) }

func (f logfOption) apply(c *config) { c.logf = f }

// Init (re)configures the package's default stacklet group and log sink.
// It is not required before use -- PromptCreate and Prompt work against an
// unbounded, silent default configuration -- but a host that wants to
// bound concurrent stacklets or observe fatal reservation failures calls
// it once at startup.
func Init(opts ...Option) {
	c := config{logf: func(string, ...interface{}) {}}
	Options(opts...).apply(&c)
	current = c
	defaultGroup = stacklet.NewGroup(context.Background(), c.maxStacklets)
}
