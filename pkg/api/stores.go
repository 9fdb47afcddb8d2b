package api

import (
	"context"
	"errors"
)

// ErrNotFound is returned by every store lookup that matches no row.
var ErrNotFound = errors.New("not found")

// AgentStore is the persistence contract for agent configurations.
// Implementations are user/tenant-scoped: every call carries the owner's id.
type AgentStore interface {
	CreateAgent(ctx context.Context, agent *AgentConfig) error
	GetAgent(ctx context.Context, userID, id string) (*AgentConfig, error)
	ListAgents(ctx context.Context, userID string) ([]AgentConfig, error)
	UpdateAgent(ctx context.Context, agent *AgentConfig) error
	DeleteAgent(ctx context.Context, userID, id string) error
}

// TeamStore is the persistence contract for team configurations.
type TeamStore interface {
	CreateTeam(ctx context.Context, team *TeamConfig) error
	GetTeam(ctx context.Context, userID, id string) (*TeamConfig, error)
	ListTeams(ctx context.Context, userID string) ([]TeamConfig, error)
	UpdateTeam(ctx context.Context, team *TeamConfig) error
	DeleteTeam(ctx context.Context, userID, id string) error
}

// ConversationStore is the persistence contract for conversations and their
// append-only turns.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, userID, id string) (*Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	DeleteConversation(ctx context.Context, userID, id string) error

	AppendTurn(ctx context.Context, conversationID, role, content string) (*ConversationTurn, error)
	ListTurns(ctx context.Context, conversationID string) ([]ConversationTurn, error)
}

// UserStore is the persistence contract for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ListItemStore is the persistence contract for keyed list records.
type ListItemStore interface {
	CreateListItem(ctx context.Context, item *ListItem) error
	ListItems(ctx context.Context, userID, list string) ([]ListItem, error)
	UpdateListItem(ctx context.Context, item *ListItem) error
	DeleteListItem(ctx context.Context, userID, id string) error
}
