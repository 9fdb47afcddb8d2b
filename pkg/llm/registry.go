package llm

import (
	"maestro/pkg/config"
)

// ProviderGroupConfig defines the configuration of one group of models
// served by a single provider type. It is the standard input to a factory.
type ProviderGroupConfig struct {
	Type    string         `json:"type"`
	APIKeys []string       `json:"api_keys,omitempty"`
	Models  []string       `json:"models"`
	BaseURL string         `json:"base_url,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// ProviderFactory defines the factory interface for building clients.
type ProviderFactory interface {
	// Create builds one atomic client per configured model.
	Create(groupConfig ProviderGroupConfig, systemConfig *config.SystemConfig) ([]Client, error)
}

// Global provider registry, populated by the autoload blank imports.
var providerRegistry = make(map[string]ProviderFactory)

// RegisterProvider registers a provider factory under a type name.
func RegisterProvider(name string, factory ProviderFactory) {
	providerRegistry[name] = factory
}

// GetProviderFactory returns the factory registered for the given type name.
func GetProviderFactory(name string) (ProviderFactory, bool) {
	f, ok := providerRegistry[name]
	return f, ok
}
