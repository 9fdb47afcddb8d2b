package api

// ChatRequest is the standardized payload for a chat or team-execute call.
// All override fields are optional; absent fields fall back to the agent's
// configuration and then to hardcoded defaults (request > agent > default).
type ChatRequest struct {
	Message        string   `json:"message"`
	ConversationID string   `json:"conversation_id,omitempty"`
	AgentID        string   `json:"agent_id,omitempty"`
	SystemPrompt   string   `json:"system_prompt,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	MaxTokens      *int     `json:"max_tokens,omitempty"`
	// UseWebSearch takes precedence over UseTools when both are present.
	UseWebSearch *bool  `json:"use_web_search,omitempty"`
	UseTools     *bool  `json:"use_tools,omitempty"`
	Model        string `json:"model,omitempty"`
	Provider     string `json:"provider,omitempty"`
}

// TeamStep records one delegation performed by a team coordinator.
type TeamStep struct {
	Agent  string `json:"agent"`
	Task   string `json:"task"`
	Result string `json:"result"`
}

// ChatResponse is the outcome of one reasoning loop run.
type ChatResponse struct {
	Reply          string     `json:"reply"`
	Model          string     `json:"model"`
	ConversationID string     `json:"conversation_id,omitempty"`
	ToolsUsed      []string   `json:"tools_used,omitempty"`
	Steps          []TeamStep `json:"steps,omitempty"`
}

// LoopEvent is a progress notification emitted while a reasoning loop runs.
// It is streamed to WebSocket clients so the UI can show tool activity.
type LoopEvent struct {
	Type    string `json:"type"` // "iteration", "action", "observation", "delegation", "done", "error"
	Agent   string `json:"agent,omitempty"`
	Tool    string `json:"tool,omitempty"`
	Content string `json:"content,omitempty"`
}

// EventSink receives loop progress events. Implementations must not block;
// slow consumers are expected to buffer or drop.
type EventSink func(LoopEvent)
