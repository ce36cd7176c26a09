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

type ShoppingStore struct {
	db *sqlx.DB
}

func NewShoppingStore(db *sqlx.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

const (
	boardCols        = `id, user_id, place_id, name, created_at`
	shoppingItemCols = `id, user_id, list_id, name, is_taken, created_at`
)

// ListBoardsWithItems returns the boards of a place, each with its items.
func (s *ShoppingStore) ListBoardsWithItems(ctx context.Context, userID, placeID string) ([]model.ShoppingBoard, error) {
	boards := []model.ShoppingBoard{}
	err := s.db.SelectContext(ctx, &boards, s.db.Rebind(
		`SELECT `+boardCols+` FROM shopping_lists WHERE user_id = ? AND place_id = ? ORDER BY name ASC`), userID, placeID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	if len(boards) == 0 {
		return boards, nil
	}

	ids := make([]string, len(boards))
	byID := make(map[string]*model.ShoppingBoard, len(boards))
	for i := range boards {
		ids[i] = boards[i].ID
		boards[i].Items = []model.ShoppingItem{}
		byID[boards[i].ID] = &boards[i]
	}

	query, args, err := sqlx.In(`SELECT `+shoppingItemCols+` FROM shopping_items WHERE list_id IN (?) ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}
	var items []model.ShoppingItem
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	for _, item := range items {
		if b, ok := byID[item.ListID]; ok {
			b.Items = append(b.Items, item)
		}
	}
	return boards, nil
}

func (s *ShoppingStore) GetBoard(ctx context.Context, userID, id string) (*model.ShoppingBoard, error) {
	var b model.ShoppingBoard
	err := s.db.GetContext(ctx, &b, s.db.Rebind(
		`SELECT `+boardCols+` FROM shopping_lists WHERE id = ? AND user_id = ?`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	return &b, nil
}

func (s *ShoppingStore) CreateBoard(ctx context.Context, userID, placeID, name string) (*model.ShoppingBoard, error) {
	b := model.ShoppingBoard{ID: newID(), UserID: userID, PlaceID: placeID, Name: name, Items: []model.ShoppingItem{}, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO shopping_lists (`+boardCols+`) VALUES (?, ?, ?, ?, ?)`),
		b.ID, b.UserID, b.PlaceID, b.Name, b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert board: %w", err)
	}
	return &b, nil
}

func (s *ShoppingStore) RenameBoard(ctx context.Context, userID, id, name string) (*model.ShoppingBoard, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE shopping_lists SET name = ? WHERE id = ? AND user_id = ?`), name, id, userID)
	if err != nil {
		return nil, fmt.Errorf("rename board: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetBoard(ctx, userID, id)
}

// DeleteBoard removes the board. Its items go with it through the schema's cascade.
func (s *ShoppingStore) DeleteBoard(ctx context.Context, userID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`DELETE FROM shopping_lists WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete board: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *ShoppingStore) AddItem(ctx context.Context, userID, listID, name string) (*model.ShoppingItem, error) {
	item := model.ShoppingItem{ID: newID(), UserID: userID, ListID: listID, Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO shopping_items (`+shoppingItemCols+`) VALUES (?, ?, ?, ?, ?, ?)`),
		item.ID, item.UserID, item.ListID, item.Name, false, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping item: %w", err)
	}
	return &item, nil
}

func (s *ShoppingStore) GetItem(ctx context.Context, userID, id string) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	err := s.db.GetContext(ctx, &item, s.db.Rebind(
		`SELECT `+shoppingItemCols+` FROM shopping_items WHERE id = ? AND user_id = ?`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return &item, nil
}

func (s *ShoppingStore) DeleteItem(ctx context.Context, userID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`DELETE FROM shopping_items WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete shopping item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SetTaken writes the taken flag. A missing item is reported as sql.ErrNoRows
// so detached callers can compensate.
func (s *ShoppingStore) SetTaken(ctx context.Context, userID, id string, taken bool) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE shopping_items SET is_taken = ? WHERE id = ? AND user_id = ?`), taken, id, userID)
	if err != nil {
		return fmt.Errorf("set taken: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set taken %s: %w", id, sql.ErrNoRows)
	}
	return nil
}
