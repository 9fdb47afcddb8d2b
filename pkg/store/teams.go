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

// ErrCoordinatorInMembers is returned when a team lists its coordinator
// among its members.
var ErrCoordinatorInMembers = errors.New("coordinator cannot be a team member")

// ErrInvalidExecutionMode is returned for unknown execution modes.
var ErrInvalidExecutionMode = errors.New("invalid execution mode")

func validateTeam(team *api.TeamConfig) error {
	if team.ExecutionMode == "" {
		team.ExecutionMode = api.ExecutionModeSequential
	}
	if team.ExecutionMode != api.ExecutionModeSequential && team.ExecutionMode != api.ExecutionModeParallel {
		return fmt.Errorf("%w: %q", ErrInvalidExecutionMode, team.ExecutionMode)
	}
	for _, id := range team.MemberIDs {
		if id == team.CoordinatorID {
			return ErrCoordinatorInMembers
		}
	}
	return nil
}

// CreateTeam implements api.TeamStore.
func (s *Store) CreateTeam(ctx context.Context, team *api.TeamConfig) error {
	if err := validateTeam(team); err != nil {
		return err
	}
	if team.ID == "" {
		team.ID = utils.GenerateID()
	}
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now

	members, err := json.Marshal(team.MemberIDs)
	if err != nil {
		return fmt.Errorf("failed to encode member ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO teams (id, user_id, name, coordinator_id, member_ids, execution_mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		team.ID, team.UserID, team.Name, team.CoordinatorID, string(members),
		team.ExecutionMode, team.CreatedAt, team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

// GetTeam implements api.TeamStore.
func (s *Store) GetTeam(ctx context.Context, userID, id string) (*api.TeamConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, coordinator_id, member_ids, execution_mode, created_at, updated_at
		FROM teams WHERE id = ? AND user_id = ?`, id, userID)
	return scanTeam(row)
}

// ListTeams implements api.TeamStore.
func (s *Store) ListTeams(ctx context.Context, userID string) ([]api.TeamConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, coordinator_id, member_ids, execution_mode, created_at, updated_at
		FROM teams WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []api.TeamConfig
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// UpdateTeam implements api.TeamStore.
func (s *Store) UpdateTeam(ctx context.Context, team *api.TeamConfig) error {
	if err := validateTeam(team); err != nil {
		return err
	}
	team.UpdatedAt = time.Now().UTC()

	members, err := json.Marshal(team.MemberIDs)
	if err != nil {
		return fmt.Errorf("failed to encode member ids: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE teams SET name = ?, coordinator_id = ?, member_ids = ?, execution_mode = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		team.Name, team.CoordinatorID, string(members), team.ExecutionMode,
		team.UpdatedAt, team.ID, team.UserID)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	return requireRow(res)
}

// DeleteTeam implements api.TeamStore.
func (s *Store) DeleteTeam(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return requireRow(res)
}

func scanTeam(row rowScanner) (*api.TeamConfig, error) {
	var team api.TeamConfig
	var members string
	err := row.Scan(&team.ID, &team.UserID, &team.Name, &team.CoordinatorID,
		&members, &team.ExecutionMode, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	if err := json.Unmarshal([]byte(members), &team.MemberIDs); err != nil {
		return nil, fmt.Errorf("failed to decode member ids: %w", err)
	}
	return &team, nil
}
