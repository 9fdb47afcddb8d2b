package agent

import (
	"fmt"
	"strings"

	"maestro/pkg/api"
)

// grammarInstructions explains the response tags to the model. It is
// appended to the agent's system prompt whenever tools are enabled.
const grammarInstructions = `You can reason step by step and use tools before answering.

Respond using these tags:
<think>your reasoning, never shown to the user</think>
<action tool="TOOL_NAME">parameters for the tool</action>
<answer>your final answer to the user</answer>

Rules:
- To use a tool, emit exactly one <action> tag and stop. The tool result will come back as an observation.
- When you have enough information, emit <answer> with the complete final answer.
- Never put an <action> and an <answer> in the same response.`

const delegationInstructions = `
You lead a team. To hand a task to a member, emit:
<action tool="delegate_to_agent" agent="MEMBER_ID">the task for that member</action>
The member's result will come back as an observation.

Your team:`

// buildSystemPrompt assembles the full system prompt for a loop run.
func buildSystemPrompt(base, toolDescriptions, roster string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	b.WriteString(grammarInstructions)
	if toolDescriptions != "" {
		b.WriteString("\n\nAvailable tools:\n")
		b.WriteString(toolDescriptions)
	}
	if roster != "" {
		b.WriteString("\n")
		b.WriteString(delegationInstructions)
		b.WriteString("\n")
		b.WriteString(roster)
	}
	return b.String()
}

// formatRoster renders the member list for the coordinator prompt.
func formatRoster(members []*api.AgentConfig) string {
	var b strings.Builder
	for _, m := range members {
		desc := m.Description
		if desc == "" {
			desc = m.SystemPrompt
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", m.ID, m.Name, desc)
	}
	return strings.TrimRight(b.String(), "\n")
}
