package llm

import (
	"fmt"
	"log/slog"
	"time"

	"maestro/pkg/config"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewFromConfig builds all configured clients and wraps them in a Selector.
// The raw JSON is a list of provider groups; unknown provider types are
// skipped with a warning so one bad entry cannot take the service down.
func NewFromConfig(rawLLM jsoniter.RawMessage, defaults config.DefaultsConfig, system *config.SystemConfig) (*Selector, error) {
	if rawLLM == nil {
		return nil, fmt.Errorf("missing 'llm' config")
	}

	var groups []ProviderGroupConfig
	if err := json.Unmarshal(rawLLM, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse 'llm' config: %v", err)
	}

	var allClients []Client
	for _, group := range groups {
		slog.Info("Loading LLM group", "type", group.Type, "models", len(group.Models))

		factory, ok := GetProviderFactory(group.Type)
		if !ok {
			slog.Warn("Unknown provider type", "type", group.Type)
			continue
		}

		clients, err := factory.Create(group, system)
		if err != nil {
			slog.Warn("Failed to create clients", "type", group.Type, "error", err)
			continue
		}

		allClients = append(allClients, clients...)
	}

	// Every completion call gets its own deadline; the loop around the
	// calls stays unbounded.
	callTimeout := time.Duration(system.LLMTimeoutMs) * time.Millisecond
	for i, c := range allClients {
		allClients[i] = WithCallTimeout(c, callTimeout)
	}

	if len(allClients) == 0 {
		return nil, fmt.Errorf("no LLM clients could be initialized")
	}

	slog.Info("LLM clients initialized", "count", len(allClients))

	return NewSelector(allClients, defaults.Provider, defaults.Model)
}
