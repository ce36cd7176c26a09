package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/nomadcloset/internal/model"
)

type CategoryStore struct {
	db *sqlx.DB
}

func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryCols = `id, user_id, name, created_at`

func (s *CategoryStore) Create(ctx context.Context, userID, name string) (*model.Category, error) {
	c := model.Category{ID: newID(), UserID: userID, Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO categories (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`),
		c.ID, c.UserID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

func (s *CategoryStore) List(ctx context.Context, userID string) ([]model.Category, error) {
	categories := []model.Category{}
	err := s.db.SelectContext(ctx, &categories, s.db.Rebind(
		`SELECT `+categoryCols+` FROM categories WHERE user_id = ? ORDER BY name ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) Exists(ctx context.Context, userID, id string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(
		`SELECT COUNT(*) FROM categories WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return n > 0, nil
}

// Rename returns false if the category does not belong to the user.
func (s *CategoryStore) Rename(ctx context.Context, userID, id, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE categories SET name = ? WHERE id = ? AND user_id = ?`), name, id, userID)
	if err != nil {
		return false, fmt.Errorf("rename category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes the category. Items that used it become uncategorized.
func (s *CategoryStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`DELETE FROM categories WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
