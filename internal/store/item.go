package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/nomadcloset/internal/model"
)

type ItemStore struct {
	db *sqlx.DB
}

func NewItemStore(db *sqlx.DB) *ItemStore {
	return &ItemStore{db: db}
}

// ItemInput carries the writable fields of an item.
type ItemInput struct {
	Name       string
	Quantity   int
	PlaceID    *string
	CategoryID *string
}

const itemSelect = `SELECT i.id, i.user_id, i.name, i.quantity, i.place_id, i.category_id,
	p.name AS place_name, c.name AS category_name, i.created_at
	FROM items i
	LEFT JOIN places p ON p.id = i.place_id AND p.user_id = i.user_id
	LEFT JOIN categories c ON c.id = i.category_id AND c.user_id = i.user_id`

func (s *ItemStore) Create(ctx context.Context, userID string, in ItemInput) (*model.Item, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO items (id, user_id, name, quantity, place_id, category_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		id, userID, in.Name, in.Quantity, nullString(in.PlaceID), nullString(in.CategoryID), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return s.Get(ctx, userID, id)
}

func (s *ItemStore) Get(ctx context.Context, userID, id string) (*model.Item, error) {
	var item model.Item
	err := s.db.GetContext(ctx, &item, s.db.Rebind(itemSelect+` WHERE i.id = ? AND i.user_id = ?`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

// List returns every item of the user with place and category names resolved.
func (s *ItemStore) List(ctx context.Context, userID string) ([]model.Item, error) {
	items := []model.Item{}
	err := s.db.SelectContext(ctx, &items, s.db.Rebind(itemSelect+` WHERE i.user_id = ? ORDER BY i.name ASC, i.id ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Modify updates name, quantity and category. The place is changed only by Move.
func (s *ItemStore) Modify(ctx context.Context, userID, id string, in ItemInput) (*model.Item, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE items SET name = ?, quantity = ?, category_id = ? WHERE id = ? AND user_id = ?`),
		in.Name, in.Quantity, nullString(in.CategoryID), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("modify item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.Get(ctx, userID, id)
}

// Move sets the item's place. A nil placeID unassigns it.
func (s *ItemStore) Move(ctx context.Context, userID, id string, placeID *string) (*model.Item, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE items SET place_id = ? WHERE id = ? AND user_id = ?`),
		nullString(placeID), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("move item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.Get(ctx, userID, id)
}

func (s *ItemStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM items WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// BulkMove moves the listed items to placeID (nil unassigns) and returns how
// many rows changed. Ids that no longer exist for the user are skipped.
func (s *ItemStore) BulkMove(ctx context.Context, userID string, ids []string, placeID *string) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`UPDATE items SET place_id = ? WHERE user_id = ? AND id IN (?)`, nullString(placeID), userID, ids)
	if err != nil {
		return 0, fmt.Errorf("build bulk move: %w", err)
	}
	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("bulk move items: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// BulkDelete deletes the listed items and returns how many rows were removed.
func (s *ItemStore) BulkDelete(ctx context.Context, userID string, ids []string) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM items WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("build bulk delete: %w", err)
	}
	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete items: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
