package agent

import (
	"context"
	"fmt"
	"log/slog"

	"maestro/pkg/api"
	"maestro/pkg/llm"
	"maestro/pkg/tools"
)

// TeamActionResolver extends the tool resolver with delegation to team
// members. The coordinator's loop delegates via the reserved
// delegate_to_agent tool; each delegation runs the member once with its
// own resolved configuration and at most one tool cycle.
type TeamActionResolver struct {
	base     *ToolActionResolver
	selector *llm.Selector
	registry *tools.Registry
	members  map[string]*api.AgentConfig
	roster   string
}

// NewTeamActionResolver creates the resolver for a team run.
func NewTeamActionResolver(selector *llm.Selector, registry *tools.Registry, members []*api.AgentConfig) *TeamActionResolver {
	byID := make(map[string]*api.AgentConfig, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return &TeamActionResolver{
		base:     NewToolActionResolver(registry),
		selector: selector,
		registry: registry,
		members:  byID,
		roster:   formatRoster(members),
	}
}

func (r *TeamActionResolver) ToolDescriptions() string {
	return r.base.ToolDescriptions()
}

func (r *TeamActionResolver) Roster() string { return r.roster }

// Execute implements ActionResolver. Member failures of any kind come
// back as observations so the coordinator can re-plan.
func (r *TeamActionResolver) Execute(ctx context.Context, intent ParsedIntent, state *State) string {
	if intent.Kind != IntentDelegate {
		return r.base.Execute(ctx, intent, state)
	}

	member, ok := r.members[intent.Agent]
	if !ok {
		return fmt.Sprintf("Error: agent %q not found in this team. Delegate only to the members listed in your team roster.", intent.Agent)
	}

	state.ToolsUsed = append(state.ToolsUsed, callLabel(DelegateToolName, member.Name))

	result := r.runMember(ctx, member, intent.Params)
	state.Steps = append(state.Steps, api.TeamStep{
		Agent:  member.Name,
		Task:   intent.Params,
		Result: result,
	})
	return fmt.Sprintf("Result from %s:\n%s", member.Name, result)
}

// runMember executes one delegated task: a single completion under the
// member's own configuration, with room for one tool cycle.
func (r *TeamActionResolver) runMember(ctx context.Context, member *api.AgentConfig, task string) string {
	cfg := ResolveConfig(nil, member)

	client, err := r.selector.Select(cfg.Provider, cfg.Model)
	if err != nil {
		slog.WarnContext(ctx, "No provider for team member", "agent", member.Name, "error", err)
		return fmt.Sprintf("Error: member %q has no usable provider: %v", member.Name, err)
	}

	systemPrompt := cfg.SystemPrompt
	if cfg.UseTools {
		systemPrompt = buildSystemPrompt(cfg.SystemPrompt, r.registry.Descriptions(), "")
	}

	messages := []llm.Message{
		llm.NewSystemMessage(systemPrompt),
		llm.NewUserMessage(task),
	}

	completion, err := r.memberComplete(ctx, client, cfg, messages)
	if err != nil {
		slog.WarnContext(ctx, "Team member completion failed", "agent", member.Name, "error", err)
		return fmt.Sprintf("Error: member %q failed: %v", member.Name, err)
	}

	intent := ParseCompletion(completion)

	if intent.Kind == IntentAct && cfg.UseTools {
		observation := r.registry.Execute(ctx, intent.Tool, intent.Params)
		messages = append(messages,
			llm.NewAssistantMessage(intent.Raw),
			llm.NewUserMessage("Observation:\n"+observation+"\n\nProvide your final answer now in <answer> tags."))

		completion, err = r.memberComplete(ctx, client, cfg, messages)
		if err != nil {
			slog.WarnContext(ctx, "Team member completion failed", "agent", member.Name, "error", err)
			return fmt.Sprintf("Error: member %q failed: %v", member.Name, err)
		}
		intent = ParseCompletion(completion)
	}

	if intent.Kind == IntentAnswer {
		return intent.Answer
	}
	return intent.Raw
}

func (r *TeamActionResolver) memberComplete(ctx context.Context, client llm.Client, cfg EffectiveConfig, messages []llm.Message) (*llm.Completion, error) {
	return client.Complete(ctx, llm.CompletionRequest{
		Messages:     messages,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		ToolsEnabled: cfg.UseTools,
	})
}
