package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/nomadcloset/internal/model"
)

// ActionStore appends to and reads the audit log. Rows are never updated.
type ActionStore struct {
	db *sqlx.DB
}

func NewActionStore(db *sqlx.DB) *ActionStore {
	return &ActionStore{db: db}
}

const actionCols = `id, user_id, session_id, action_type, item_id, item_name, from_place_id, to_place_id, metadata, created_at`

func (s *ActionStore) Log(ctx context.Context, a model.Action) (*model.Action, error) {
	a.ID = newID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO actions (`+actionCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.UserID, a.SessionID, string(a.ActionType),
		nullString(a.ItemID), nullString(a.ItemName), nullString(a.FromPlaceID), nullString(a.ToPlaceID),
		nullString(a.Metadata), a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert action: %w", err)
	}
	return &a, nil
}

// ListByUser returns the user's actions oldest first.
func (s *ActionStore) ListByUser(ctx context.Context, userID string) ([]model.Action, error) {
	actions := []model.Action{}
	err := s.db.SelectContext(ctx, &actions, s.db.Rebind(
		`SELECT `+actionCols+` FROM actions WHERE user_id = ? ORDER BY created_at ASC, id ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return actions, nil
}
