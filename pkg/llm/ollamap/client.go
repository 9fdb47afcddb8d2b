package ollamap

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"maestro/pkg/llm"

	"github.com/ollama/ollama/api"
)

// Client talks to a locally-hosted Ollama instance. It cannot produce
// native tool calls; the reasoning loop drives it purely via the text tag
// grammar.
type Client struct {
	client  *api.Client
	model   string
	options map[string]any
}

// NewClient creates an Ollama client.
func NewClient(model string, baseURL string, options map[string]any) (*Client, error) {
	var client *api.Client
	var err error

	// Custom transport so local model loading is never cut off by a
	// response header timeout.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 0,
	}

	customClient := &http.Client{
		Transport: transport,
		Timeout:   0,
	}

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		client = api.NewClient(u, customClient)
	} else {
		client, err = api.ClientFromEnvironment()
	}

	if err != nil {
		return nil, err
	}

	slog.Info("Ollama client initialized", "model", model, "base_url", baseURL)

	return &Client{
		client:  client,
		model:   model,
		options: options,
	}, nil
}

func (c *Client) Provider() string { return "ollama" }

func (c *Client) Model() string { return c.model }

// Complete implements llm.Client with a single non-streaming chat call.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	options := make(map[string]any, len(c.options)+2)
	for k, v := range c.options {
		options[k] = v
	}
	options["temperature"] = req.Temperature
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model:    c.model,
		Messages: convertMessages(req.Messages),
		Options:  options,
		Stream:   &stream,
	}

	var text strings.Builder
	var doneReason string

	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		if resp.Done {
			doneReason = resp.DoneReason
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %v", llm.ErrProviderUnavailable, err)
	}

	if doneReason == llm.StopReasonLength {
		slog.WarnContext(ctx, "Response truncated due to length", "provider", "ollama", "model", c.model)
	}

	return &llm.Completion{
		Text:       text.String(),
		StopReason: doneReason,
	}, nil
}

func convertMessages(messages []llm.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, api.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

// IsTransientError implements llm.Client.
func (c *Client) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()

	// Connection related errors (refused, reset)
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "connection reset") {
		return true
	}

	// High load
	if strings.Contains(strings.ToLower(errMsg), "overloaded") {
		return true
	}

	return false
}
