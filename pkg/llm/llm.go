package llm

import (
	"context"
	"errors"
	"time"
)

// Message roles used throughout the transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Stop reasons normalized across providers.
const (
	StopReasonStop   = "stop"   // Normal completion
	StopReasonLength = "length" // Output truncated due to token limit
)

// ErrProviderUnavailable wraps any failure of a completion call itself
// (network, auth, quota, malformed response). It is the only error class
// that aborts a reasoning loop.
var ErrProviderUnavailable = errors.New("completion provider unavailable")

// Message is one turn of a completion transcript.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// NewMessage builds a message with the current timestamp.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now().Unix()}
}

// NewSystemMessage builds a system message.
func NewSystemMessage(content string) Message { return NewMessage(RoleSystem, content) }

// NewUserMessage builds a user message.
func NewUserMessage(content string) Message { return NewMessage(RoleUser, content) }

// NewAssistantMessage builds an assistant message.
func NewAssistantMessage(content string) Message { return NewMessage(RoleAssistant, content) }

// ToolCall is a native structured tool-call request returned by providers
// that support them. Arguments is a JSON object string.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// CompletionRequest carries one completion call's transcript and the
// effective sampling parameters resolved for the request.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	// ToolsEnabled advertises the tool interface to providers that support
	// native tool calls. Providers without that capability ignore it; the
	// reasoning loop drives them purely via the text tag grammar.
	ToolsEnabled bool `json:"tools_enabled"`
}

// Completion is a provider reply: free text, or one or more native tool
// calls for providers able to produce them.
type Completion struct {
	Text       string     `json:"text"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	StopReason string     `json:"stop_reason,omitempty"`
}

// Client is the common completion provider interface.
type Client interface {
	// Complete sends the transcript and returns the provider's reply.
	// Any returned error means the provider itself failed and should wrap
	// ErrProviderUnavailable.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// Provider returns the provider identifier (e.g. "openai", "ollama").
	Provider() string

	// Model returns the model identifier this client is bound to.
	Model() string

	// IsTransientError reports whether an error looks like a temporary
	// condition (503, rate limit). Used by the HTTP layer for status mapping.
	IsTransientError(err error) bool
}
