package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"maestro/pkg/api"
	"maestro/pkg/llm"
	"maestro/pkg/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient replays a scripted sequence of completions. Once the script
// runs out it keeps returning the last entry.
type fakeClient struct {
	provider string
	model    string
	replies  []*llm.Completion
	err      error
	calls    int
	requests []llm.CompletionRequest
}

func (c *fakeClient) Complete(_ context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	c.calls++
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	idx := c.calls - 1
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	return c.replies[idx], nil
}

func (c *fakeClient) Provider() string {
	if c.provider == "" {
		return "fake"
	}
	return c.provider
}

func (c *fakeClient) Model() string {
	if c.model == "" {
		return "fake-model"
	}
	return c.model
}

func (c *fakeClient) IsTransientError(error) bool { return false }

func text(s string) *llm.Completion {
	return &llm.Completion{Text: s, StopReason: llm.StopReasonStop}
}

type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "Echoes its params back." }
func (echoTool) Execute(_ context.Context, params string) (string, error) {
	return "echo: " + params, nil
}

func newTestRegistry() *tools.Registry {
	registry := tools.NewRegistry()
	registry.Register(echoTool{})
	return registry
}

func testConfig(useTools bool) EffectiveConfig {
	return EffectiveConfig{
		SystemPrompt:  "You are a test assistant.",
		Temperature:   0.7,
		MaxTokens:     256,
		MaxIterations: 5,
		UseTools:      useTools,
	}
}

func TestRunDirectWhenToolsDisabled(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{text("  verbatim reply with spaces  ")}}
	eng := NewEngine(client, testConfig(false), NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "hello")
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "  verbatim reply with spaces  ", result.Answer)
	// No grammar instructions leak into a plain completion.
	assert.Equal(t, "You are a test assistant.", client.requests[0].Messages[0].Content)
	assert.False(t, client.requests[0].ToolsEnabled)
}

func TestRunAnswerOnFirstIteration(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{text("<think>easy</think><answer>  42  </answer>")}}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "what is the answer?")
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "42", result.Answer)
	assert.Empty(t, result.ToolsUsed)
}

func TestRunUnstructuredPassthrough(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{text("plain reply, no tags")}}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "hi")
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "plain reply, no tags", result.Answer)
}

func TestRunActThenAnswer(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{
		text(`<action tool="echo">ping</action>`),
		text("<answer>pong</answer>"),
	}}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "use the tool")
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "pong", result.Answer)
	require.Len(t, result.ToolsUsed, 1)
	assert.Equal(t, "echo(ping)", result.ToolsUsed[0])

	// The observation came back as a user turn in the second call.
	secondCall := client.requests[1].Messages
	last := secondCall[len(secondCall)-1]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Contains(t, last.Content, "echo: ping")
}

func TestRunExhaustionForcesFinalAnswer(t *testing.T) {
	cfg := testConfig(true)
	cfg.MaxIterations = 2

	client := &fakeClient{replies: []*llm.Completion{
		text(`<action tool="echo">one</action>`),
		text(`<action tool="echo">two</action>`),
		text("<answer>best effort</answer>"),
	}}
	eng := NewEngine(client, cfg, NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "keep going")
	require.NoError(t, err)

	// Exactly maxIterations+1 completion calls.
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, "best effort", result.Answer)
	assert.Equal(t, 3, result.Iterations)

	finalCall := client.requests[2].Messages
	last := finalCall[len(finalCall)-1]
	assert.Contains(t, last.Content, "final answer")
}

func TestRunExhaustionFinalWithoutAnswerTag(t *testing.T) {
	cfg := testConfig(true)
	cfg.MaxIterations = 1

	client := &fakeClient{replies: []*llm.Completion{
		text(`<action tool="echo">one</action>`),
		text("could not finish, raw text"),
	}}
	eng := NewEngine(client, cfg, NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "go")
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "could not finish, raw text", result.Answer)
}

func TestRunProviderFailureIsFatal(t *testing.T) {
	client := &fakeClient{err: llm.ErrProviderUnavailable}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	_, err := eng.Run(context.Background(), nil, "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrProviderUnavailable))
	// No retry.
	assert.Equal(t, 1, client.calls)
}

func TestRunThinkOnlyStopsWithRawText(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{
		text("<think>let me consider</think>"),
	}}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "hi")
	require.NoError(t, err)

	// No action and no answer tag: the raw reply ends the run.
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "<think>let me consider</think>", result.Answer)
}

func TestRunUnknownToolBecomesObservation(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{
		text(`<action tool="no_such_tool">x</action>`),
		text("<answer>recovered</answer>"),
	}}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Answer)

	secondCall := client.requests[1].Messages
	last := secondCall[len(secondCall)-1]
	assert.Contains(t, last.Content, "unknown tool")
	assert.Contains(t, last.Content, "echo")
}

func TestRunDelegateRejectedOutsideTeam(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{
		text(`<action tool="delegate_to_agent" agent="someone">task</action>`),
		text("<answer>solo after all</answer>"),
	}}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	result, err := eng.Run(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "solo after all", result.Answer)

	secondCall := client.requests[1].Messages
	last := secondCall[len(secondCall)-1]
	assert.Contains(t, last.Content, "not available")
}

func TestRunEmitsProgressEvents(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{
		text(`<action tool="echo">ping</action>`),
		text("<answer>pong</answer>"),
	}}

	var events []api.LoopEvent
	sink := func(e api.LoopEvent) { events = append(events, e) }

	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), sink)
	_, err := eng.Run(context.Background(), nil, "use the tool")
	require.NoError(t, err)

	var types []string
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{"iteration", "action", "observation", "iteration", "done"}, types)
}

func TestCallLabelTruncatesOnRuneBoundary(t *testing.T) {
	params := strings.Repeat("ü", 100)
	label := callLabel("echo", params)

	assert.True(t, utf8.ValidString(label))
	assert.Equal(t, "echo("+strings.Repeat("ü", 80)+"…)", label)

	assert.Equal(t, "echo(short)", callLabel("echo", "short"))
}

func TestGrammarInstructionsInSystemPrompt(t *testing.T) {
	client := &fakeClient{replies: []*llm.Completion{text("<answer>ok</answer>")}}
	eng := NewEngine(client, testConfig(true), NewToolActionResolver(newTestRegistry()), nil)

	_, err := eng.Run(context.Background(), nil, "hi")
	require.NoError(t, err)

	system := client.requests[0].Messages[0].Content
	assert.True(t, strings.HasPrefix(system, "You are a test assistant."))
	assert.Contains(t, system, "<action tool=")
	assert.Contains(t, system, "echo: Echoes its params back.")
}
