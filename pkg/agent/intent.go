package agent

import (
	"regexp"
	"strings"

	"maestro/pkg/llm"
)

// IntentKind classifies what the model asked for in one completion.
type IntentKind int

const (
	// IntentUnstructured is a completion with no recognized tags; its raw
	// text is surfaced to the user as-is.
	IntentUnstructured IntentKind = iota
	// IntentThink carries reasoning but no action or answer.
	IntentThink
	// IntentAct requests a tool invocation.
	IntentAct
	// IntentDelegate requests handing a task to a team member.
	IntentDelegate
	// IntentAnswer carries the final answer.
	IntentAnswer
)

// ParsedIntent is the structured reading of one model completion.
type ParsedIntent struct {
	Kind    IntentKind
	Thought string
	Tool    string
	Agent   string
	Params  string
	Answer  string
	Raw     string
}

// DelegateToolName is the reserved tool name that routes an action to a
// team member instead of the tool registry.
const DelegateToolName = "delegate_to_agent"

var (
	answerRe = regexp.MustCompile(`(?s)<answer>(.*?)</answer>`)
	actionRe = regexp.MustCompile(`(?s)<action\s+tool="([^"]+)"(?:\s+agent="([^"]+)")?\s*>(.*?)</action>`)
	thinkRe  = regexp.MustCompile(`(?s)<think>(.*?)</think>`)
)

// ParseCompletion reads a completion into an intent. A native tool call
// takes priority over the tag grammar; otherwise an answer tag beats an
// action tag, and for each tag type only the first occurrence counts.
func ParseCompletion(c *llm.Completion) ParsedIntent {
	if len(c.ToolCalls) > 0 {
		tc := c.ToolCalls[0]
		intent := parseText(c.Text)
		if intent.Kind == IntentAnswer {
			return intent
		}
		return ParsedIntent{
			Kind:    IntentAct,
			Thought: intent.Thought,
			Tool:    tc.Name,
			Params:  tc.Arguments,
			Raw:     c.Text,
		}
	}
	return parseText(c.Text)
}

func parseText(text string) ParsedIntent {
	intent := ParsedIntent{Raw: text}

	if m := thinkRe.FindStringSubmatch(text); m != nil {
		intent.Thought = strings.TrimSpace(m[1])
	}

	if m := answerRe.FindStringSubmatch(text); m != nil {
		intent.Kind = IntentAnswer
		intent.Answer = strings.TrimSpace(m[1])
		return intent
	}

	if m := actionRe.FindStringSubmatch(text); m != nil {
		tool, agentID, params := m[1], m[2], m[3]
		if tool == DelegateToolName && agentID != "" {
			intent.Kind = IntentDelegate
			intent.Agent = agentID
			intent.Params = strings.TrimSpace(params)
			return intent
		}
		intent.Kind = IntentAct
		intent.Tool = tool
		intent.Params = strings.TrimSpace(params)
		return intent
	}

	if intent.Thought != "" {
		intent.Kind = IntentThink
		return intent
	}

	intent.Kind = IntentUnstructured
	return intent
}
