package store

import (
	"context"
	"path/filepath"
	"testing"

	"maestro/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAgentCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	temp := 0.3
	agent := &api.AgentConfig{
		UserID:       "u1",
		Name:         "Researcher",
		SystemPrompt: "You research things.",
		Provider:     "openai",
		Model:        "gpt-4o",
		Temperature:  &temp,
		Tools:        []string{"information_lookup"},
	}
	require.NoError(t, s.CreateAgent(ctx, agent))
	require.NotEmpty(t, agent.ID)

	got, err := s.GetAgent(ctx, "u1", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Researcher", got.Name)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.3, *got.Temperature)
	assert.Nil(t, got.MaxTokens)
	assert.Equal(t, []string{"information_lookup"}, got.Tools)

	got.Name = "Senior Researcher"
	require.NoError(t, s.UpdateAgent(ctx, got))

	updated, err := s.GetAgent(ctx, "u1", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Researcher", updated.Name)

	agents, err := s.ListAgents(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, agents, 1)

	require.NoError(t, s.DeleteAgent(ctx, "u1", agent.ID))
	_, err = s.GetAgent(ctx, "u1", agent.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestAgentUserScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	agent := &api.AgentConfig{UserID: "u1", Name: "Private"}
	require.NoError(t, s.CreateAgent(ctx, agent))

	_, err := s.GetAgent(ctx, "u2", agent.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)

	err = s.DeleteAgent(ctx, "u2", agent.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestTeamCRUDAndValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := &api.TeamConfig{
		UserID:        "u1",
		Name:          "Research Team",
		CoordinatorID: "coord",
		MemberIDs:     []string{"m1", "m2"},
	}
	require.NoError(t, s.CreateTeam(ctx, team))
	assert.Equal(t, api.ExecutionModeSequential, team.ExecutionMode)

	got, err := s.GetTeam(ctx, "u1", team.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, got.MemberIDs)

	// Coordinator inside the member set is rejected.
	bad := &api.TeamConfig{UserID: "u1", Name: "Bad", CoordinatorID: "m1", MemberIDs: []string{"m1"}}
	assert.ErrorIs(t, s.CreateTeam(ctx, bad), ErrCoordinatorInMembers)

	// Unknown execution modes are rejected, parallel is stored as-is.
	badMode := &api.TeamConfig{UserID: "u1", Name: "Bad", CoordinatorID: "c", ExecutionMode: "roundrobin"}
	assert.ErrorIs(t, s.CreateTeam(ctx, badMode), ErrInvalidExecutionMode)

	parallel := &api.TeamConfig{UserID: "u1", Name: "P", CoordinatorID: "c", ExecutionMode: api.ExecutionModeParallel}
	require.NoError(t, s.CreateTeam(ctx, parallel))

	require.NoError(t, s.DeleteTeam(ctx, "u1", team.ID))
	_, err = s.GetTeam(ctx, "u1", team.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestConversationTurns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := &api.Conversation{UserID: "u1", Title: "First chat"}
	require.NoError(t, s.CreateConversation(ctx, conv))

	_, err := s.AppendTurn(ctx, conv.ID, "user", "hello")
	require.NoError(t, err)
	_, err = s.AppendTurn(ctx, conv.ID, "assistant", "hi there")
	require.NoError(t, err)

	turns, err := s.ListTurns(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)

	// Deleting the conversation cascades to its turns.
	require.NoError(t, s.DeleteConversation(ctx, "u1", conv.ID))
	turns, err = s.ListTurns(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestUserUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &api.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))

	dup := &api.User{Username: "alice", PasswordHash: "other"}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrUsernameTaken)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestListItemCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := &api.ListItem{UserID: "u1", List: "groceries", Content: "milk"}
	require.NoError(t, s.CreateListItem(ctx, item))

	other := &api.ListItem{UserID: "u1", List: "todo", Content: "ship release"}
	require.NoError(t, s.CreateListItem(ctx, other))

	groceries, err := s.ListItems(ctx, "u1", "groceries")
	require.NoError(t, err)
	require.Len(t, groceries, 1)
	assert.Equal(t, "milk", groceries[0].Content)

	all, err := s.ListItems(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	item.Done = true
	require.NoError(t, s.UpdateListItem(ctx, item))

	groceries, err = s.ListItems(ctx, "u1", "groceries")
	require.NoError(t, err)
	assert.True(t, groceries[0].Done)

	require.NoError(t, s.DeleteListItem(ctx, "u1", item.ID))
	assert.ErrorIs(t, s.DeleteListItem(ctx, "u1", item.ID), api.ErrNotFound)
}
