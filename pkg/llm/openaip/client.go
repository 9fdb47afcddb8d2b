package openaip

import (
	"context"
	"fmt"
	"strings"

	"maestro/pkg/llm"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client is a wrapper around the official OpenAI Go SDK. It is the
// cloud-hosted provider and the only one able to return native tool calls.
type Client struct {
	client   *openai.Client
	provider string
	model    string
}

// NewClient creates a new OpenAI-compatible client.
func NewClient(provider, apiKey, model, baseURL string) (*Client, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	// The SDK uses functional options; NewClient returns a value.
	c := openai.NewClient(opts...)

	return &Client{
		client:   &c,
		provider: provider,
		model:    model,
	}, nil
}

func (c *Client) Provider() string { return c.provider }

func (c *Client) Model() string { return c.model }

// Complete implements llm.Client via the chat completions API.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            convertMessages(req.Messages),
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
	}

	if req.ToolsEnabled {
		params.Tools = toolDeclarations()
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", llm.ErrProviderUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", llm.ErrProviderUnavailable)
	}

	choice := resp.Choices[0]

	completion := &llm.Completion{
		Text:       choice.Message.Content,
		StopReason: normalizeStopReason(string(choice.FinishReason)),
	}

	for _, tc := range choice.Message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return completion, nil
}

// IsTransientError implements llm.Client.
func (c *Client) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	// Transient: network-level issues
	if strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "timeout") {
		return true
	}

	// Transient: server-side temporary failures
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "500 internal") ||
		strings.Contains(msg, "502 bad gateway") ||
		strings.Contains(msg, "503 service unavailable") ||
		strings.Contains(msg, "overloaded") {
		return true
	}

	// Everything else (400 Bad Request, 401 Unauthorized, etc.) is non-transient
	return false
}

func convertMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// toolDeclarations advertises the tool surface to models with native tool
// calling. The reasoning loop accepts either a native call or the text tag
// grammar; providers without this capability simply never produce the former.
func toolDeclarations() []openai.ChatCompletionToolUnionParam {
	params := openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
		},
		"required": []string{"query"},
	}

	return []openai.ChatCompletionToolUnionParam{
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "information_lookup",
			Description: openai.String("Look up current information on the web."),
			Parameters:  params,
		}),
	}
}

func normalizeStopReason(reason string) string {
	switch reason {
	case "length":
		return llm.StopReasonLength
	default:
		return llm.StopReasonStop
	}
}
