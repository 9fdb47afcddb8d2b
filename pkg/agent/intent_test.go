package agent

import (
	"testing"

	"maestro/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestParseAnswer(t *testing.T) {
	intent := parseText("<think>done reasoning</think>\n<answer>  Paris is the capital.  </answer>")
	assert.Equal(t, IntentAnswer, intent.Kind)
	assert.Equal(t, "Paris is the capital.", intent.Answer)
	assert.Equal(t, "done reasoning", intent.Thought)
}

func TestParseAnswerBeatsAction(t *testing.T) {
	intent := parseText(`<answer>final</answer><action tool="information_lookup">query</action>`)
	assert.Equal(t, IntentAnswer, intent.Kind)
	assert.Equal(t, "final", intent.Answer)
}

func TestParseFirstAnswerWins(t *testing.T) {
	intent := parseText("<answer>first</answer> text <answer>second</answer>")
	assert.Equal(t, "first", intent.Answer)
}

func TestParseAction(t *testing.T) {
	intent := parseText(`<think>need data</think><action tool="information_lookup">{"query": "go 1.25"}</action>`)
	assert.Equal(t, IntentAct, intent.Kind)
	assert.Equal(t, "information_lookup", intent.Tool)
	assert.Equal(t, `{"query": "go 1.25"}`, intent.Params)
}

func TestParseDelegate(t *testing.T) {
	intent := parseText(`<action tool="delegate_to_agent" agent="researcher-1">find recent papers</action>`)
	assert.Equal(t, IntentDelegate, intent.Kind)
	assert.Equal(t, "researcher-1", intent.Agent)
	assert.Equal(t, "find recent papers", intent.Params)
}

func TestParseDelegateWithoutAgentIsAct(t *testing.T) {
	// A delegate action missing its agent attribute falls through to the
	// tool path, where the registry reports it as unknown.
	intent := parseText(`<action tool="delegate_to_agent">do something</action>`)
	assert.Equal(t, IntentAct, intent.Kind)
	assert.Equal(t, DelegateToolName, intent.Tool)
}

func TestParseThinkOnly(t *testing.T) {
	intent := parseText("<think>still working through it</think>")
	assert.Equal(t, IntentThink, intent.Kind)
	assert.Equal(t, "still working through it", intent.Thought)
}

func TestParseUnstructured(t *testing.T) {
	raw := "Just a plain reply with no tags."
	intent := parseText(raw)
	assert.Equal(t, IntentUnstructured, intent.Kind)
	assert.Equal(t, raw, intent.Raw)
}

func TestParseMultilineParams(t *testing.T) {
	intent := parseText("<action tool=\"information_lookup\">line one\nline two</action>")
	assert.Equal(t, IntentAct, intent.Kind)
	assert.Equal(t, "line one\nline two", intent.Params)
}

func TestParseCompletionNativeToolCall(t *testing.T) {
	intent := ParseCompletion(&llm.Completion{
		Text:      "",
		ToolCalls: []llm.ToolCall{{Name: "information_lookup", Arguments: `{"query":"weather"}`}},
	})
	assert.Equal(t, IntentAct, intent.Kind)
	assert.Equal(t, "information_lookup", intent.Tool)
	assert.Equal(t, `{"query":"weather"}`, intent.Params)
}

func TestParseCompletionAnswerBeatsNativeToolCall(t *testing.T) {
	intent := ParseCompletion(&llm.Completion{
		Text:      "<answer>done</answer>",
		ToolCalls: []llm.ToolCall{{Name: "information_lookup", Arguments: "{}"}},
	})
	assert.Equal(t, IntentAnswer, intent.Kind)
	assert.Equal(t, "done", intent.Answer)
}
