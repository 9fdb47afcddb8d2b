// Package agent implements the bounded reasoning loop that drives a
// completion provider through think / act / delegate / answer turns.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"maestro/pkg/api"
	"maestro/pkg/llm"
	"maestro/pkg/tools"
)

// State accumulates what happened across one run: which tools were
// invoked and, for team runs, the delegation step log.
type State struct {
	ToolsUsed []string
	Steps     []api.TeamStep
}

// ActionResolver decides how Act and Delegate intents are carried out.
// A plain chat run resolves only tools; a team run additionally resolves
// delegations to members.
type ActionResolver interface {
	// ToolDescriptions lists the tools for the system prompt.
	ToolDescriptions() string
	// Roster lists delegation targets for the system prompt, or "" when
	// delegation is unavailable.
	Roster() string
	// Execute carries out the intent and returns the observation text.
	// It must not fail; problems are reported inside the observation.
	Execute(ctx context.Context, intent ParsedIntent, state *State) string
}

// Result is the outcome of one loop run.
type Result struct {
	Answer     string
	Iterations int
	ToolsUsed  []string
	Steps      []api.TeamStep
}

// Engine runs the reasoning loop against one provider client.
type Engine struct {
	client   llm.Client
	cfg      EffectiveConfig
	resolver ActionResolver
	sink     api.EventSink
}

// NewEngine wires a loop run. sink may be nil.
func NewEngine(client llm.Client, cfg EffectiveConfig, resolver ActionResolver, sink api.EventSink) *Engine {
	return &Engine{
		client:   client,
		cfg:      cfg,
		resolver: resolver,
		sink:     sink,
	}
}

func (e *Engine) emit(event api.LoopEvent) {
	if e.sink != nil {
		e.sink(event)
	}
}

// Run executes the loop over the given history plus the new user message.
// With tools disabled it makes exactly one completion call and returns
// its text untouched. With tools enabled it makes at most
// MaxIterations+1 calls; the final call, if reached, forces an answer.
// A provider failure aborts the run immediately.
func (e *Engine) Run(ctx context.Context, history []llm.Message, userMessage string) (*Result, error) {
	if !e.cfg.UseTools {
		return e.runDirect(ctx, history, userMessage)
	}

	systemPrompt := buildSystemPrompt(e.cfg.SystemPrompt, e.resolver.ToolDescriptions(), e.resolver.Roster())

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.NewSystemMessage(systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, llm.NewUserMessage(userMessage))

	state := &State{}

	for i := 1; i <= e.cfg.MaxIterations; i++ {
		e.emit(api.LoopEvent{Type: "iteration", Content: strconv.Itoa(i)})

		completion, err := e.complete(ctx, messages)
		if err != nil {
			e.emit(api.LoopEvent{Type: "error", Content: err.Error()})
			return nil, err
		}

		intent := ParseCompletion(completion)

		switch intent.Kind {
		case IntentAnswer:
			return e.finish(intent.Answer, i, state), nil

		case IntentThink, IntentUnstructured:
			// A reply with no action and no answer tag ends the run with
			// its raw text; ignoring the grammar is not an error.
			return e.finish(intent.Raw, i, state), nil

		case IntentAct:
			e.emit(api.LoopEvent{Type: "action", Tool: intent.Tool, Content: intent.Params})
			observation := e.resolver.Execute(ctx, intent, state)
			e.emit(api.LoopEvent{Type: "observation", Tool: intent.Tool, Content: observation})
			messages = appendObservation(messages, intent.Raw, observation)

		case IntentDelegate:
			e.emit(api.LoopEvent{Type: "delegation", Agent: intent.Agent, Content: intent.Params})
			observation := e.resolver.Execute(ctx, intent, state)
			e.emit(api.LoopEvent{Type: "observation", Agent: intent.Agent, Content: observation})
			messages = appendObservation(messages, intent.Raw, observation)
		}
	}

	// Iteration budget exhausted: one last call that must answer.
	slog.WarnContext(ctx, "Iteration budget exhausted, forcing final answer", "max_iterations", e.cfg.MaxIterations)
	messages = append(messages, llm.NewUserMessage(
		"You have used all your reasoning steps. Provide your final answer now in <answer> tags, using what you have learned so far."))

	completion, err := e.complete(ctx, messages)
	if err != nil {
		e.emit(api.LoopEvent{Type: "error", Content: err.Error()})
		return nil, err
	}

	intent := ParseCompletion(completion)
	answer := intent.Raw
	if intent.Kind == IntentAnswer {
		answer = intent.Answer
	}
	return e.finish(answer, e.cfg.MaxIterations+1, state), nil
}

func (e *Engine) runDirect(ctx context.Context, history []llm.Message, userMessage string) (*Result, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.NewSystemMessage(e.cfg.SystemPrompt))
	messages = append(messages, history...)
	messages = append(messages, llm.NewUserMessage(userMessage))

	completion, err := e.complete(ctx, messages)
	if err != nil {
		e.emit(api.LoopEvent{Type: "error", Content: err.Error()})
		return nil, err
	}

	result := &Result{Answer: completion.Text, Iterations: 1}
	e.emit(api.LoopEvent{Type: "done", Content: result.Answer})
	return result, nil
}

func (e *Engine) complete(ctx context.Context, messages []llm.Message) (*llm.Completion, error) {
	return e.client.Complete(ctx, llm.CompletionRequest{
		Messages:     messages,
		Temperature:  e.cfg.Temperature,
		MaxTokens:    e.cfg.MaxTokens,
		ToolsEnabled: e.cfg.UseTools,
	})
}

func (e *Engine) finish(answer string, iterations int, state *State) *Result {
	result := &Result{
		Answer:     answer,
		Iterations: iterations,
		ToolsUsed:  state.ToolsUsed,
		Steps:      state.Steps,
	}
	e.emit(api.LoopEvent{Type: "done", Content: result.Answer})
	return result
}

func appendObservation(messages []llm.Message, raw, observation string) []llm.Message {
	return append(messages,
		llm.NewAssistantMessage(raw),
		llm.NewUserMessage("Observation:\n"+observation+"\n\nContinue. Use another tool if needed, or provide your final answer in <answer> tags."))
}

// ToolActionResolver resolves Act intents against the tool registry.
// Delegations are rejected; they only exist in team runs.
type ToolActionResolver struct {
	registry *tools.Registry
}

// NewToolActionResolver creates the single-agent resolver.
func NewToolActionResolver(registry *tools.Registry) *ToolActionResolver {
	return &ToolActionResolver{registry: registry}
}

func (r *ToolActionResolver) ToolDescriptions() string {
	return r.registry.Descriptions()
}

func (r *ToolActionResolver) Roster() string { return "" }

// Execute implements ActionResolver.
func (r *ToolActionResolver) Execute(ctx context.Context, intent ParsedIntent, state *State) string {
	if intent.Kind == IntentDelegate {
		return "Error: delegation is not available outside a team run."
	}
	state.ToolsUsed = append(state.ToolsUsed, callLabel(intent.Tool, intent.Params))
	return r.registry.Execute(ctx, intent.Tool, intent.Params)
}

func callLabel(name, params string) string {
	const maxParams = 80
	params = strings.ReplaceAll(strings.TrimSpace(params), "\n", " ")
	// Cut on a rune boundary so multibyte params stay valid UTF-8.
	if runes := []rune(params); len(runes) > maxParams {
		params = string(runes[:maxParams]) + "…"
	}
	return fmt.Sprintf("%s(%s)", name, params)
}
