package llm

import (
	"fmt"
	"sort"
)

// ErrUnknownProvider is wrapped into errors returned for selector misses.
var ErrUnknownProvider = fmt.Errorf("no such provider or model")

// Selector resolves an effective (provider, model) pair to a concrete client.
// Requests and agents may name either or both; absent fields fall back to the
// configured default client.
type Selector struct {
	clients     []Client
	byProvider  map[string]Client // first client registered per provider
	byModel     map[string]Client // "provider/model" -> client
	defaultItem Client
}

// NewSelector indexes the given clients. The default is the client matching
// defaultProvider/defaultModel, or the first client when neither is set.
func NewSelector(clients []Client, defaultProvider, defaultModel string) (*Selector, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("no LLM clients available")
	}

	s := &Selector{
		clients:    clients,
		byProvider: make(map[string]Client),
		byModel:    make(map[string]Client),
	}
	for _, c := range clients {
		key := c.Provider() + "/" + c.Model()
		if _, dup := s.byModel[key]; !dup {
			s.byModel[key] = c
		}
		if _, dup := s.byProvider[c.Provider()]; !dup {
			s.byProvider[c.Provider()] = c
		}
	}

	def, err := s.Select(defaultProvider, defaultModel)
	if err != nil {
		return nil, fmt.Errorf("default client: %w", err)
	}
	s.defaultItem = def
	return s, nil
}

// Select resolves a client for the given provider and model. Empty provider
// falls back to the default client's provider; empty model picks the first
// model of that provider. Unknown combinations are a request-level error.
func (s *Selector) Select(provider, model string) (Client, error) {
	if provider == "" && model == "" {
		if s.defaultItem != nil {
			return s.defaultItem, nil
		}
		return s.clients[0], nil
	}

	if provider == "" {
		// Model named without a provider: search every provider.
		for _, c := range s.clients {
			if c.Model() == model {
				return c, nil
			}
		}
		return nil, fmt.Errorf("%w: model %q", ErrUnknownProvider, model)
	}

	if model == "" {
		if c, ok := s.byProvider[provider]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("%w: provider %q", ErrUnknownProvider, provider)
	}

	if c, ok := s.byModel[provider+"/"+model]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrUnknownProvider, provider, model)
}

// Models lists the available "provider/model" pairs, sorted.
func (s *Selector) Models() []string {
	out := make([]string, 0, len(s.byModel))
	for key := range s.byModel {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
