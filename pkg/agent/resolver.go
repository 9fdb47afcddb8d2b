package agent

import "maestro/pkg/api"

// Hardcoded defaults applied when neither the request nor the agent
// profile sets a value.
const (
	DefaultSystemPrompt  = "You are a helpful assistant."
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 2048
	DefaultMaxIterations = 5
)

// EffectiveConfig is the fully resolved set of knobs for one run.
type EffectiveConfig struct {
	SystemPrompt  string
	Temperature   float64
	MaxTokens     int
	MaxIterations int
	Model         string
	Provider      string
	UseTools      bool
}

// ResolveConfig merges the per-request overrides, the agent profile, and
// the hardcoded defaults, in that precedence order. The agent may be nil
// for profile-less chat.
func ResolveConfig(req *api.ChatRequest, agent *api.AgentConfig) EffectiveConfig {
	cfg := EffectiveConfig{
		SystemPrompt:  DefaultSystemPrompt,
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
		MaxIterations: DefaultMaxIterations,
	}

	if agent != nil {
		if agent.SystemPrompt != "" {
			cfg.SystemPrompt = agent.SystemPrompt
		}
		if agent.Temperature != nil {
			cfg.Temperature = *agent.Temperature
		}
		if agent.MaxTokens != nil {
			cfg.MaxTokens = *agent.MaxTokens
		}
		if agent.MaxIterations != nil {
			cfg.MaxIterations = *agent.MaxIterations
		}
		cfg.Model = agent.Model
		cfg.Provider = agent.Provider
		cfg.UseTools = agent.HasTool("information_lookup")
	}

	if req != nil {
		if req.SystemPrompt != "" {
			cfg.SystemPrompt = req.SystemPrompt
		}
		if req.Temperature != nil {
			cfg.Temperature = *req.Temperature
		}
		if req.MaxTokens != nil {
			cfg.MaxTokens = *req.MaxTokens
		}
		if req.Model != "" {
			cfg.Model = req.Model
		}
		if req.Provider != "" {
			cfg.Provider = req.Provider
		}
		switch {
		case req.UseWebSearch != nil:
			cfg.UseTools = *req.UseWebSearch
		case req.UseTools != nil:
			cfg.UseTools = *req.UseTools
		}
	}

	return cfg
}
