package tools

import (
	"context"
	"strings"

	"maestro/pkg/search"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LookupTool exposes the search chain as the information_lookup tool.
type LookupTool struct {
	chain *search.Chain
}

// NewLookupTool wraps a search chain.
func NewLookupTool(chain *search.Chain) *LookupTool {
	return &LookupTool{chain: chain}
}

func (t *LookupTool) Name() string { return "information_lookup" }

func (t *LookupTool) Description() string {
	return `Search the web for current information. Params: a JSON object {"query": "..."} or the query as plain text.`
}

// Execute implements Tool. Params may be a JSON object with a "query"
// field or a bare query string.
func (t *LookupTool) Execute(ctx context.Context, params string) (string, error) {
	query := extractQuery(params)
	if query == "" {
		return "Lookup failed, try a different query.", nil
	}

	resp := t.chain.Lookup(ctx, query)
	return search.Format(resp), nil
}

func extractQuery(params string) string {
	trimmed := strings.TrimSpace(params)

	var structured struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(trimmed), &structured); err == nil && structured.Query != "" {
		return strings.TrimSpace(structured.Query)
	}
	return trimmed
}
