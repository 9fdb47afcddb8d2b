package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name    string
	results []Result
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(context.Context, string, int) ([]Result, error) {
	p.calls++
	return p.results, p.err
}

func newChain(providers ...Provider) *Chain {
	return NewChainWithProviders(providers, 5*time.Second, 3)
}

func TestChainFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "first", results: []Result{{Title: "a", URL: "http://a"}}}
	second := &stubProvider{name: "second", results: []Result{{Title: "b", URL: "http://b"}}}

	resp := newChain(first, second).Lookup(context.Background(), "query")

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "a", resp.Results[0].Title)
	assert.Equal(t, 0, second.calls)
	assert.Equal(t, len(resp.Results), resp.NumberOfResults)
}

func TestChainFallsThroughFailures(t *testing.T) {
	failing := &stubProvider{name: "down", err: errors.New("connection refused")}
	empty := &stubProvider{name: "empty"}
	working := &stubProvider{name: "up", results: []Result{{Title: "hit", URL: "http://hit"}}}

	resp := newChain(failing, empty, working).Lookup(context.Background(), "query")

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "hit", resp.Results[0].Title)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestChainNeverFails(t *testing.T) {
	failing := &stubProvider{name: "down", err: errors.New("boom")}

	chain := NewChainWithProviders([]Provider{failing, NewOfflineProvider()}, time.Second, 3)
	resp := chain.Lookup(context.Background(), "anything at all")

	require.NotEmpty(t, resp.Results)
	assert.Contains(t, resp.Results[0].Title, "Offline result")
	assert.Contains(t, resp.Results[0].Content, "anything at all")
}

func TestChainFiltersMalformedResults(t *testing.T) {
	provider := &stubProvider{name: "mixed", results: []Result{
		{Title: "", URL: "http://no-title"},
		{Title: "no url", URL: ""},
		{Title: "good", URL: "http://good"},
	}}

	resp := newChain(provider).Lookup(context.Background(), "q")

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "good", resp.Results[0].Title)
}

func TestChainCapsResults(t *testing.T) {
	provider := &stubProvider{name: "many", results: []Result{
		{Title: "1", URL: "u1"}, {Title: "2", URL: "u2"},
		{Title: "3", URL: "u3"}, {Title: "4", URL: "u4"},
	}}

	resp := newChain(provider).Lookup(context.Background(), "q")
	assert.Len(t, resp.Results, 3)
	assert.Equal(t, 3, resp.NumberOfResults)
}

func TestChainSetAttemptTimeout(t *testing.T) {
	provider := &deadlineProvider{results: []Result{{Title: "hit", URL: "http://hit"}}}
	chain := NewChainWithProviders([]Provider{provider}, 5*time.Second, 3)

	chain.Lookup(context.Background(), "q")
	chain.SetAttemptTimeout(50 * time.Millisecond)
	chain.Lookup(context.Background(), "q")

	require.Len(t, provider.remaining, 2)
	assert.Greater(t, provider.remaining[0], time.Second)
	assert.Less(t, provider.remaining[1], 500*time.Millisecond)
}

type deadlineProvider struct {
	results   []Result
	remaining []time.Duration
}

func (p *deadlineProvider) Name() string { return "deadline" }

func (p *deadlineProvider) Search(ctx context.Context, _ string, _ int) ([]Result, error) {
	deadline, _ := ctx.Deadline()
	p.remaining = append(p.remaining, time.Until(deadline))
	return p.results, nil
}

func TestChainSkipsProviderWithOnlyMalformedResults(t *testing.T) {
	badOnly := &stubProvider{name: "bad", results: []Result{{Title: "", URL: ""}}}
	good := &stubProvider{name: "good", results: []Result{{Title: "ok", URL: "http://ok"}}}

	resp := newChain(badOnly, good).Lookup(context.Background(), "q")

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "ok", resp.Results[0].Title)
}
