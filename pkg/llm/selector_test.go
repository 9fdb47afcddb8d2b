package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	provider string
	model    string
}

func (c *stubClient) Complete(context.Context, CompletionRequest) (*Completion, error) {
	return &Completion{}, nil
}
func (c *stubClient) Provider() string            { return c.provider }
func (c *stubClient) Model() string               { return c.model }
func (c *stubClient) IsTransientError(error) bool { return false }

func newTestSelector(t *testing.T) *Selector {
	t.Helper()
	s, err := NewSelector([]Client{
		&stubClient{provider: "openai", model: "gpt-4o"},
		&stubClient{provider: "openai", model: "gpt-4o-mini"},
		&stubClient{provider: "ollama", model: "llama3"},
	}, "openai", "gpt-4o-mini")
	require.NoError(t, err)
	return s
}

func TestSelectDefault(t *testing.T) {
	s := newTestSelector(t)
	c, err := s.Select("", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.Model())
}

func TestSelectByProviderAndModel(t *testing.T) {
	s := newTestSelector(t)
	c, err := s.Select("openai", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.Model())
}

func TestSelectModelOnly(t *testing.T) {
	s := newTestSelector(t)
	c, err := s.Select("", "llama3")
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.Provider())
}

func TestSelectProviderOnlyPicksFirstModel(t *testing.T) {
	s := newTestSelector(t)
	c, err := s.Select("ollama", "")
	require.NoError(t, err)
	assert.Equal(t, "llama3", c.Model())
}

func TestSelectUnknownProvider(t *testing.T) {
	s := newTestSelector(t)
	_, err := s.Select("anthropic", "claude")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestSelectUnknownModel(t *testing.T) {
	s := newTestSelector(t)
	_, err := s.Select("", "missing-model")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewSelectorRejectsBadDefault(t *testing.T) {
	_, err := NewSelector([]Client{&stubClient{provider: "openai", model: "gpt-4o"}}, "ollama", "llama3")
	assert.Error(t, err)
}

func TestModelsSorted(t *testing.T) {
	s := newTestSelector(t)
	assert.Equal(t, []string{"ollama/llama3", "openai/gpt-4o", "openai/gpt-4o-mini"}, s.Models())
}
