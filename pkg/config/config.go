package config

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// Config defines the global application configuration structure.
// This structure maps directly to the config.json file and holds
// business-level settings like provider credentials and server options.
type Config struct {
	// Server holds the HTTP listener settings.
	Server ServerConfig `json:"server"`
	// Auth holds session-token settings for the API surface.
	Auth AuthConfig `json:"auth"`
	// Store holds the SQLite database location.
	Store StoreConfig `json:"store"`
	// LLM holds the configuration for the completion providers in raw JSON.
	// It is parsed by the llm package against its provider registry.
	LLM jsoniter.RawMessage `json:"llm"`
	// Defaults selects the provider/model used when neither the request
	// nor the agent names one.
	Defaults DefaultsConfig `json:"defaults"`
	// Search configures the information-lookup chain.
	Search SearchConfig `json:"search"`
}

// ServerConfig defines the HTTP listener settings.
type ServerConfig struct {
	// Port is the TCP port the API listens on. Default: 9453.
	Port int `json:"port"`
	// AllowedOrigins lists origins accepted by the CORS middleware.
	// An empty list allows any origin (decoupled web client).
	AllowedOrigins []string `json:"allowed_origins"`
}

// AuthConfig defines session-token settings.
type AuthConfig struct {
	// Secret signs session tokens. Mandatory.
	Secret string `json:"secret"`
	// TokenTTLMinutes is the session token lifetime. Default: 10080 (7 days).
	TokenTTLMinutes int `json:"token_ttl_minutes"`
}

// StoreConfig defines the persistence location.
type StoreConfig struct {
	// Path is the SQLite database file. Default: "maestro.db".
	Path string `json:"path"`
}

// DefaultsConfig selects the fallback completion provider and model.
type DefaultsConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// SearchConfig configures the information-lookup fallback chain.
type SearchConfig struct {
	// TavilyAPIKey enables the primary paid provider when non-empty.
	TavilyAPIKey string `json:"tavily_api_key"`
	// SearXNGInstances is the fixed, ordered pool of self-hosted
	// secondary endpoints tried after the primary provider.
	SearXNGInstances []string `json:"searxng_instances"`
	// MaxResults caps the number of results per lookup. Default: 5.
	MaxResults int `json:"max_results"`
}

// Validate ensures the configuration structure contains all mandatory fields.
// It acts as a primary guard before the system proceeds to initialization.
func (c *Config) Validate() error {
	if len(c.LLM) == 0 {
		return fmt.Errorf("mandatory 'llm' configuration is missing or empty")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("mandatory 'auth.secret' configuration is missing or empty")
	}
	return nil
}

// SystemConfig defines engine-level technical parameters.
// These settings are usually stored in system.json and control the
// performance, reliability, and technical behavior of the maestro engine.
type SystemConfig struct {
	// LLMTimeoutMs is the hard cutoff time (in milliseconds) for a single
	// completion call. Each call gets its own deadline; a multi-step run
	// is never bounded as a whole.
	LLMTimeoutMs int `json:"llm_timeout_ms"`
	// SearchTimeoutMs is the per-attempt timeout (in milliseconds) applied
	// to each endpoint of the information-lookup chain.
	SearchTimeoutMs int `json:"search_timeout_ms"`
	// InternalChannelBuffer defines the size of the internal Go channels
	// used for buffering loop progress events to prevent production blocking.
	InternalChannelBuffer int `json:"internal_channel_buffer"`
	// LogLevel sets the minimum severity for log output.
	// Accepted values: "debug", "info", "warn", "error". Default: "info".
	LogLevel string `json:"log_level"`
	// EnableTools globally toggles the tool calling (agentic) functionality.
	// If false, every chat request runs as a single plain completion even
	// when the request asks for tools. Team runs keep delegation, which
	// does not depend on registered tools.
	EnableTools bool `json:"enable_tools"`
}

// DefaultSystemConfig returns a SystemConfig pointer initialized with hardcoded
// safe default values. This is used as a fallback when the system.json file
// is missing or corrupt, ensuring the engine can always start.
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		LLMTimeoutMs:          600000,
		SearchTimeoutMs:       5000,
		InternalChannelBuffer: 100,
		LogLevel:              "info",
		EnableTools:           true,
	}
}

// Load reads and parses the JSON configuration files from the current working directory.
// It first attempts to load 'config.json' (app config). If this file is missing, it returns an error.
// Then it calls LoadSystemConfig to load 'system.json'.
// Returns pointers to the loaded Config and SystemConfig, or an error if the mandatory app config fails.
func Load() (*Config, *SystemConfig, error) {
	// 1. Load Application Config
	appPath := "config.json"
	if _, err := os.Stat(appPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("config file '%s' not found. please create one", appPath)
	}

	appFile, err := os.ReadFile(appPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(appFile, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// 1a. Validate structure integrity
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cfg.applyDefaults()

	// 2. Load System Config independently
	sysCfg := LoadSystemConfig("system.json")

	return &cfg, sysCfg, nil
}

// applyDefaults fills zero-valued optional fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 9453
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 7 * 24 * 60
	}
	if c.Store.Path == "" {
		c.Store.Path = "maestro.db"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 5
	}
}

// LoadSystemConfig attempts to load system settings, returns defaults if it fails
func LoadSystemConfig(path string) *SystemConfig {
	cfg := DefaultSystemConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return cfg // File not found, use defaults
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(file, cfg); err != nil {
		return cfg // Parse failed, use defaults
	}

	return cfg
}
