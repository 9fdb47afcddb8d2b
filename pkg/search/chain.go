package search

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"maestro/pkg/config"
)

// Chain walks an ordered list of providers until one yields usable
// results. The last provider is the offline generator, so Lookup never
// returns an error to its caller.
type Chain struct {
	providers  []Provider
	maxResults int

	// Nanoseconds, atomic so a settings reload can adjust it while
	// lookups are in flight.
	attemptTimeout atomic.Int64
}

// NewChain assembles the lookup chain from configuration: Tavily first
// when a key is present, then each SearXNG instance in order, then the
// offline fallback.
func NewChain(cfg config.SearchConfig, sys *config.SystemConfig) *Chain {
	httpClient := &http.Client{}

	var providers []Provider
	if cfg.TavilyAPIKey != "" {
		providers = append(providers, NewTavilyProvider(cfg.TavilyAPIKey, httpClient))
	}
	for _, instance := range cfg.SearXNGInstances {
		providers = append(providers, NewSearXNGProvider(instance, httpClient))
	}
	providers = append(providers, NewOfflineProvider())

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return NewChainWithProviders(providers, time.Duration(sys.SearchTimeoutMs)*time.Millisecond, maxResults)
}

// NewChainWithProviders builds a chain over an explicit provider list.
func NewChainWithProviders(providers []Provider, attemptTimeout time.Duration, maxResults int) *Chain {
	c := &Chain{
		providers:  providers,
		maxResults: maxResults,
	}
	c.attemptTimeout.Store(int64(attemptTimeout))
	return c
}

// SetAttemptTimeout adjusts the per-attempt timeout for subsequent
// lookups. Called when the system settings are reloaded from disk.
func (c *Chain) SetAttemptTimeout(d time.Duration) {
	c.attemptTimeout.Store(int64(d))
}

// Lookup runs the query through the chain. Each attempt gets its own
// timeout; malformed hits with an empty title or URL are dropped before
// an attempt counts as successful.
func (c *Chain) Lookup(ctx context.Context, query string) *Response {
	for _, provider := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, time.Duration(c.attemptTimeout.Load()))
		results, err := provider.Search(attemptCtx, query, c.maxResults)
		cancel()

		if err != nil {
			slog.WarnContext(ctx, "Search provider failed, trying next", "provider", provider.Name(), "error", err)
			continue
		}

		results = filterResults(results, c.maxResults)
		if len(results) == 0 {
			slog.WarnContext(ctx, "Search provider returned no usable results, trying next", "provider", provider.Name())
			continue
		}

		slog.InfoContext(ctx, "🔍 Search completed", "provider", provider.Name(), "query", query, "results", len(results))
		return NewResponse(query, results)
	}

	// Unreachable in practice since the offline provider always succeeds,
	// but keep the empty response as a hard floor.
	return NewResponse(query, nil)
}

func filterResults(results []Result, maxResults int) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Title == "" || r.URL == "" {
			continue
		}
		filtered = append(filtered, r)
		if len(filtered) >= maxResults {
			break
		}
	}
	return filtered
}
