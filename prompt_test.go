package mprompt

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Prompt_simple_return(t *testing.T) {
	result := Prompt(func(p *Prompt, arg interface{}) interface{} {
		return arg.(int) + 1
	}, 41)
	assert.Equal(t, 42, result)
}

func Test_Prompt_single_yield(t *testing.T) {
	result := Prompt(func(p *Prompt, arg interface{}) interface{} {
		v := Yield(p, func(r *OnceResumption, arg interface{}) interface{} {
			assert.Equal(t, "ping", arg)
			return r.Resume("pong")
		}, "ping")
		return v.(string) + "!"
	}, nil)
	assert.Equal(t, "pong!", result)
}

func Test_Prompt_yield_without_resume(t *testing.T) {
	var captured *OnceResumption
	result := Prompt(func(p *Prompt, arg interface{}) interface{} {
		Yield(p, func(r *OnceResumption, arg interface{}) interface{} {
			captured = r
			return "stored, not resumed"
		}, nil)
		t.Fatal("unreachable: never resumed")
		return nil
	}, nil)
	assert.Equal(t, "stored, not resumed", result)
	require.NotNil(t, captured)
	captured.Drop()
}

func Test_OnceResumption_cannot_be_reused(t *testing.T) {
	var r *OnceResumption
	Prompt(func(p *Prompt, arg interface{}) interface{} {
		return Yield(p, func(res *OnceResumption, arg interface{}) interface{} {
			r = res
			return res.Resume(1)
		}, nil)
	}, nil)
	require.NotNil(t, r)
	assert.PanicsWithValue(t, ErrAlreadyConsumed, func() { r.Resume(2) })
}

func Test_OnceResumption_Dup_fails(t *testing.T) {
	defer Init()

	var logged []string
	Init(WithLogf(func(mess string, args ...interface{}) {
		logged = append(logged, mess)
	}))

	Prompt(func(p *Prompt, arg interface{}) interface{} {
		return Yield(p, func(r *OnceResumption, arg interface{}) interface{} {
			dup, err := r.Dup()
			assert.Nil(t, dup)
			assert.True(t, errors.Is(err, ErrOnceNotDuplicable))
			return r.Resume(nil)
		}, nil)
	}, nil)

	assert.Len(t, logged, 1, "Dup on a once-resumption should have logged the rejection")
}

func Test_MultiResumption_resumes_more_than_once(t *testing.T) {
	var resumption *MultiResumption
	outcomes := map[int]interface{}{}
	n := 0

	Prompt(func(p *Prompt, arg interface{}) interface{} {
		return Yieldm(p, func(r *MultiResumption, arg interface{}) interface{} {
			resumption = r
			return "captured"
		}, nil)
	}, nil)

	require.NotNil(t, resumption)
	assert.True(t, resumption.ShouldUnwind(), "sole owner, never resumed yet")

	for n = 0; n < 3; n++ {
		outcomes[n] = resumption.Resume(n)
	}

	assert.Equal(t, 0, outcomes[0])
	assert.Equal(t, 1, outcomes[1])
	assert.Equal(t, 2, outcomes[2])
	assert.Equal(t, 3, resumption.ResumeCount())
	assert.False(t, resumption.ShouldUnwind())
}

func Test_MultiResumption_Dup_shares_resume_count(t *testing.T) {
	var resumption *MultiResumption
	Prompt(func(p *Prompt, arg interface{}) interface{} {
		return Yieldm(p, func(r *MultiResumption, arg interface{}) interface{} {
			resumption = r
			return nil
		}, nil)
	}, nil)

	dup := resumption.Dup()
	assert.Same(t, resumption, dup, "Dup shares the same handle, per mp_resume_dup")
	assert.False(t, resumption.ShouldUnwind(), "refcount 2: no longer the sole owner")

	got := resumption.Resume("a")
	assert.Equal(t, "a", got)
	got = dup.Resume("b")
	assert.Equal(t, "b", got)
	assert.Equal(t, 2, resumption.ResumeCount())
}

// Test_MultiResumption_fork_and_double exercises the literal multi-shot
// scenario: dup the same handle twice, resume each dup with a different
// value, and let the prompt's own continuation double whatever it was
// resumed with. Each dup forks an independent replay of the suspended
// chain, so the two resumes observe no interference from each other.
func Test_MultiResumption_fork_and_double(t *testing.T) {
	result := Prompt(func(p *Prompt, arg interface{}) interface{} {
		v := Yieldm(p, func(r *MultiResumption, arg interface{}) interface{} {
			a := r.Dup().Resume(1)
			b := r.Dup().Resume(2)
			assert.Equal(t, 2, r.ResumeCount())
			r.Drop()
			return a.(int) + b.(int)
		}, nil)
		return v.(int) * 2
	}, nil)
	assert.Equal(t, 6, result)
}

func Test_Prompt_nested(t *testing.T) {
	var inner *Prompt
	result := Prompt(func(outer *Prompt, arg interface{}) interface{} {
		return Prompt(func(p *Prompt, arg interface{}) interface{} {
			inner = p
			assert.Same(t, outer, p.Parent())
			v := Yield(p, func(r *OnceResumption, arg interface{}) interface{} {
				return r.Resume(arg.(int) * 2)
			}, 21)
			return v
		}, nil)
	}, nil)
	assert.Equal(t, 42, result)
	require.NotNil(t, inner)
}

func Test_Prompt_exception_propagates_across_yield(t *testing.T) {
	boom := errors.New("boom")
	assert.PanicsWithValue(t, boom, func() {
		Prompt(func(p *Prompt, arg interface{}) interface{} {
			return Yield(p, func(r *OnceResumption, arg interface{}) interface{} {
				panic(boom)
			}, nil)
		}, nil)
	})
}

func Test_Prompt_exception_inside_start_function(t *testing.T) {
	assert.PanicsWithValue(t, "nope", func() {
		Prompt(func(p *Prompt, arg interface{}) interface{} {
			panic("nope")
		}, nil)
	})
}

// Test_Prompt_goexit_propagates exercises the Exited branch of
// stacklet.Outcome: runtime.Goexit inside a start function must reach the
// caller of Prompt as a genuine Goexit, not a panic or a silently eaten
// goroutine death. Goexit runs deferred functions but never returns to its
// caller, so this runs Prompt on its own goroutine and checks, from a
// sibling goroutine, that code after the Prompt call never ran.
func Test_Prompt_goexit_propagates(t *testing.T) {
	done := make(chan bool, 1)
	go func() {
		reached := false
		defer func() { done <- reached }()
		Prompt(func(p *Prompt, arg interface{}) interface{} {
			runtime.Goexit()
			return nil
		}, nil)
		reached = true
	}()
	assert.False(t, <-done, "code after Prompt must never run once its start function calls runtime.Goexit")
}

func Test_PromptTop_and_Parent(t *testing.T) {
	var nilPrompt *Prompt
	assert.Nil(t, PromptTop(), "no prompt active on this goroutine yet")
	assert.Nil(t, nilPrompt.Parent(), "Parent on a nil receiver falls back to PromptTop")

	Prompt(func(p *Prompt, arg interface{}) interface{} {
		assert.Same(t, p, PromptTop())
		assert.Nil(t, p.Parent())
		assert.Same(t, p, nilPrompt.Parent())
		return nil
	}, nil)
}
