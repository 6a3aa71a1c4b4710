package mprompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Backtrace_collects_frames_from_resumer(t *testing.T) {
	result := Prompt(func(p *Prompt, arg interface{}) interface{} {
		return Backtrace(p)
	}, nil)
	pcs, ok := result.([]uintptr)
	assert.True(t, ok)
	assert.NotEmpty(t, pcs, "Backtrace should capture at least the resumer's own frame")
}

func Test_Backtrace_recurses_through_ancestors(t *testing.T) {
	var outerOnly, combined []uintptr
	Prompt(func(outer *Prompt, arg interface{}) interface{} {
		return Prompt(func(inner *Prompt, arg interface{}) interface{} {
			outerOnly = Backtrace(outer)
			combined = Backtrace(inner)
			return nil
		}, nil)
	}, nil)

	assert.NotEmpty(t, outerOnly)
	assert.NotEmpty(t, combined)
	assert.True(t, len(combined) >= len(outerOnly), "recursing from the inner prompt through its outer ancestor should collect at least as many frames as the outer prompt's capture alone")
}

func Test_Backtrace_of_nil_prompt_is_empty(t *testing.T) {
	assert.Nil(t, Backtrace(nil))
}
