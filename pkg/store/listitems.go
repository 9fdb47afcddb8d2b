package store

import (
	"context"
	"fmt"
	"time"

	"maestro/pkg/api"
	"maestro/pkg/utils"
)

// CreateListItem implements api.ListItemStore.
func (s *Store) CreateListItem(ctx context.Context, item *api.ListItem) error {
	if item.ID == "" {
		item.ID = utils.GenerateID()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO list_items (id, user_id, list, content, done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.List, item.Content, item.Done, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert list item: %w", err)
	}
	return nil
}

// ListItems implements api.ListItemStore. An empty list name returns
// every item the user owns.
func (s *Store) ListItems(ctx context.Context, userID, list string) ([]api.ListItem, error) {
	query := `SELECT id, user_id, list, content, done, created_at, updated_at
		FROM list_items WHERE user_id = ?`
	args := []any{userID}
	if list != "" {
		query += ` AND list = ?`
		args = append(args, list)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []api.ListItem
	for rows.Next() {
		var item api.ListItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.List, &item.Content,
			&item.Done, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateListItem implements api.ListItemStore.
func (s *Store) UpdateListItem(ctx context.Context, item *api.ListItem) error {
	item.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE list_items SET list = ?, content = ?, done = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		item.List, item.Content, item.Done, item.UpdatedAt, item.ID, item.UserID)
	if err != nil {
		return fmt.Errorf("failed to update list item: %w", err)
	}
	return requireRow(res)
}

// DeleteListItem implements api.ListItemStore.
func (s *Store) DeleteListItem(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM list_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete list item: %w", err)
	}
	return requireRow(res)
}
