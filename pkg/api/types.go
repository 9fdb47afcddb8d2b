package api

import "time"

// AgentConfig defines a stored, user-owned agent configuration.
// Optional numeric fields are pointers so the configuration resolver can
// distinguish "not set" from a deliberate zero.
type AgentConfig struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Description  string    `json:"description,omitempty"`
	Model        string    `json:"model,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	MaxTokens    *int      `json:"max_tokens,omitempty"`
	// MaxIterations bounds the agent's reasoning loop. Nil means the
	// hardcoded default of 5.
	MaxIterations *int `json:"max_iterations,omitempty"`
	// Tools lists the tool names enabled for this agent.
	Tools     []string  `json:"tools,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTool reports whether the agent has the named tool enabled.
func (a *AgentConfig) HasTool(name string) bool {
	for _, t := range a.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// Team execution modes. Only sequential delegation is implemented;
// "parallel" is accepted and stored as a reserved value.
const (
	ExecutionModeSequential = "sequential"
	ExecutionModeParallel   = "parallel"
)

// TeamConfig defines a stored team: one coordinator agent plus an ordered
// set of member agents.
type TeamConfig struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	CoordinatorID string    `json:"coordinator_id"`
	MemberIDs     []string  `json:"member_ids"`
	ExecutionMode string    `json:"execution_mode"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Conversation groups an append-only sequence of turns, optionally bound
// to an agent whose defaults apply to every chat in it.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AgentID   string    `json:"agent_id,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationTurn is one stored message of a conversation, ordered by
// creation time.
type ConversationTurn struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListItem is a plain keyed CRUD record (shopping/todo style lists kept
// alongside conversations).
type ListItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	List      string    `json:"list"`
	Content   string    `json:"content"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is an account record. PasswordHash never leaves the store layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
