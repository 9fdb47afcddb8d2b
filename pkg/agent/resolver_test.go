package agent

import (
	"testing"

	"maestro/pkg/api"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestResolveDefaults(t *testing.T) {
	cfg := ResolveConfig(nil, nil)
	assert.Equal(t, DefaultSystemPrompt, cfg.SystemPrompt)
	assert.Equal(t, DefaultTemperature, cfg.Temperature)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.False(t, cfg.UseTools)
}

func TestResolvePrecedence(t *testing.T) {
	agent := &api.AgentConfig{
		SystemPrompt: "You are a researcher.",
		Temperature:  floatPtr(0.9),
		MaxTokens:    intPtr(512),
	}
	req := &api.ChatRequest{
		Temperature: floatPtr(0.2),
	}

	cfg := ResolveConfig(req, agent)

	// Request beats agent, agent beats default.
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.Equal(t, "You are a researcher.", cfg.SystemPrompt)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
}

func TestResolveExplicitZeroTemperature(t *testing.T) {
	req := &api.ChatRequest{Temperature: floatPtr(0)}
	cfg := ResolveConfig(req, nil)
	assert.Equal(t, 0.0, cfg.Temperature)
}

func TestResolveAgentModelAndProvider(t *testing.T) {
	agent := &api.AgentConfig{Model: "gpt-4o", Provider: "openai"}
	cfg := ResolveConfig(&api.ChatRequest{Model: "llama3"}, agent)
	assert.Equal(t, "llama3", cfg.Model)
	assert.Equal(t, "openai", cfg.Provider)
}

func TestResolveToolsFromAgentProfile(t *testing.T) {
	agent := &api.AgentConfig{Tools: []string{"information_lookup"}}
	cfg := ResolveConfig(nil, agent)
	assert.True(t, cfg.UseTools)
}

func TestResolveUseWebSearchOverridesUseTools(t *testing.T) {
	req := &api.ChatRequest{
		UseWebSearch: boolPtr(false),
		UseTools:     boolPtr(true),
	}
	agent := &api.AgentConfig{Tools: []string{"information_lookup"}}
	cfg := ResolveConfig(req, agent)
	assert.False(t, cfg.UseTools)
}

func TestResolveUseToolsOverride(t *testing.T) {
	cfg := ResolveConfig(&api.ChatRequest{UseTools: boolPtr(true)}, nil)
	assert.True(t, cfg.UseTools)
}
