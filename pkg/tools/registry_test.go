package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTool struct {
	name   string
	result string
	err    error
	panics bool
}

func (t stubTool) Name() string        { return t.name }
func (t stubTool) Description() string { return "stub tool" }
func (t stubTool) Execute(context.Context, string) (string, error) {
	if t.panics {
		panic("stub blew up")
	}
	return t.result, t.err
}

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "alpha", result: "alpha ran"})

	obs := r.Execute(context.Background(), "alpha", "params")
	assert.Equal(t, "alpha ran", obs)
}

func TestRegistryUnknownToolListsAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "alpha"})
	r.Register(stubTool{name: "beta"})

	obs := r.Execute(context.Background(), "gamma", "")
	assert.Contains(t, obs, `unknown tool "gamma"`)
	assert.Contains(t, obs, "alpha, beta")
}

func TestRegistryToolErrorBecomesObservation(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "alpha", err: errors.New("backend down")})

	obs := r.Execute(context.Background(), "alpha", "")
	assert.Contains(t, obs, "failed")
	assert.Contains(t, obs, "backend down")
}

func TestRegistryRecoversPanics(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "alpha", panics: true})

	obs := r.Execute(context.Background(), "alpha", "")
	assert.Contains(t, obs, "failed unexpectedly")
}

func TestRegistryDescriptions(t *testing.T) {
	r := NewRegistry()
	r.Register(stubTool{name: "beta"})
	r.Register(stubTool{name: "alpha"})

	desc := r.Descriptions()
	assert.Equal(t, "- alpha: stub tool\n- beta: stub tool", desc)
}

func TestExtractQuery(t *testing.T) {
	assert.Equal(t, "plain text", extractQuery("  plain text  "))
	assert.Equal(t, "structured", extractQuery(`{"query": " structured "}`))
	assert.Equal(t, `{"other": "field"}`, extractQuery(`{"other": "field"}`))
	assert.Equal(t, "", extractQuery("   "))
}
