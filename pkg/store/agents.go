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

// CreateAgent implements api.AgentStore.
func (s *Store) CreateAgent(ctx context.Context, agent *api.AgentConfig) error {
	if agent.ID == "" {
		agent.ID = utils.GenerateID()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	tools, err := json.Marshal(agent.Tools)
	if err != nil {
		return fmt.Errorf("failed to encode tools: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO agents (id, user_id, name, system_prompt, description, model, provider,
			temperature, max_tokens, max_iterations, tools, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		agent.ID, agent.UserID, agent.Name, agent.SystemPrompt, agent.Description,
		agent.Model, agent.Provider, agent.Temperature, agent.MaxTokens,
		agent.MaxIterations, string(tools), agent.CreatedAt, agent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert agent: %w", err)
	}
	return nil
}

// GetAgent implements api.AgentStore.
func (s *Store) GetAgent(ctx context.Context, userID, id string) (*api.AgentConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, system_prompt, description, model, provider,
			temperature, max_tokens, max_iterations, tools, created_at, updated_at
		FROM agents WHERE id = ? AND user_id = ?`, id, userID)
	return scanAgent(row)
}

// ListAgents implements api.AgentStore.
func (s *Store) ListAgents(ctx context.Context, userID string) ([]api.AgentConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, system_prompt, description, model, provider,
			temperature, max_tokens, max_iterations, tools, created_at, updated_at
		FROM agents WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []api.AgentConfig
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// UpdateAgent implements api.AgentStore.
func (s *Store) UpdateAgent(ctx context.Context, agent *api.AgentConfig) error {
	agent.UpdatedAt = time.Now().UTC()

	tools, err := json.Marshal(agent.Tools)
	if err != nil {
		return fmt.Errorf("failed to encode tools: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE agents SET name = ?, system_prompt = ?, description = ?, model = ?,
			provider = ?, temperature = ?, max_tokens = ?, max_iterations = ?,
			tools = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		agent.Name, agent.SystemPrompt, agent.Description, agent.Model, agent.Provider,
		agent.Temperature, agent.MaxTokens, agent.MaxIterations, string(tools),
		agent.UpdatedAt, agent.ID, agent.UserID)
	if err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	return requireRow(res)
}

// DeleteAgent implements api.AgentStore.
func (s *Store) DeleteAgent(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*api.AgentConfig, error) {
	var agent api.AgentConfig
	var tools string
	err := row.Scan(&agent.ID, &agent.UserID, &agent.Name, &agent.SystemPrompt,
		&agent.Description, &agent.Model, &agent.Provider, &agent.Temperature,
		&agent.MaxTokens, &agent.MaxIterations, &tools, &agent.CreatedAt, &agent.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}
	if err := json.Unmarshal([]byte(tools), &agent.Tools); err != nil {
		return nil, fmt.Errorf("failed to decode tools: %w", err)
	}
	return &agent, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return api.ErrNotFound
	}
	return nil
}
