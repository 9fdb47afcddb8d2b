package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"maestro/pkg/api"
	"maestro/pkg/utils"
)

// CreateConversation implements api.ConversationStore.
func (s *Store) CreateConversation(ctx context.Context, conv *api.Conversation) error {
	if conv.ID == "" {
		conv.ID = utils.GenerateID()
	}
	conv.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, agent_id, title, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		conv.ID, conv.UserID, conv.AgentID, conv.Title, conv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// GetConversation implements api.ConversationStore.
func (s *Store) GetConversation(ctx context.Context, userID, id string) (*api.Conversation, error) {
	var conv api.Conversation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, agent_id, title, created_at
		FROM conversations WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&conv.ID, &conv.UserID, &conv.AgentID, &conv.Title, &conv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}
	return &conv, nil
}

// ListConversations implements api.ConversationStore.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]api.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, agent_id, title, created_at
		FROM conversations WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var convs []api.Conversation
	for rows.Next() {
		var conv api.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.AgentID, &conv.Title, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// DeleteConversation implements api.ConversationStore. Turns cascade.
func (s *Store) DeleteConversation(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return requireRow(res)
}

// AppendTurn implements api.ConversationStore.
func (s *Store) AppendTurn(ctx context.Context, conversationID, role, content string) (*api.ConversationTurn, error) {
	turn := &api.ConversationTurn{
		ID:             utils.GenerateID(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (id, conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		turn.ID, turn.ConversationID, turn.Role, turn.Content, turn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert turn: %w", err)
	}
	return turn, nil
}

// ListTurns implements api.ConversationStore. Turns come back oldest
// first.
func (s *Store) ListTurns(ctx context.Context, conversationID string) ([]api.ConversationTurn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, created_at
		FROM turns WHERE conversation_id = ? ORDER BY created_at, id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []api.ConversationTurn
	for rows.Next() {
		var turn api.ConversationTurn
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
