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

var (
	DefaultPlaces     = []string{"Casa Uni", "Casa Genitori", "Valigia"}
	DefaultCategories = []string{"Uncategorized", "Tech", "Clothing", "Toiletries", "Documents", "Books", "Hobby", "Other"}
)

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, email, password_hash, created_at`

// Create inserts the user together with the default places and categories.
func (s *UserStore) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	u := model.User{ID: newID(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	_, err = tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`),
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if err := seedDefaults(ctx, tx, u.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &u, nil
}

func seedDefaults(ctx context.Context, tx *sqlx.Tx, userID string) error {
	for _, name := range DefaultPlaces {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO places (id, user_id, name, is_luggage) VALUES (?, ?, ?, ?)`),
			newID(), userID, name, false,
		)
		if err != nil {
			return fmt.Errorf("seed place %q: %w", name, err)
		}
	}
	for _, name := range DefaultCategories {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO categories (id, user_id, name) VALUES (?, ?, ?)`),
			newID(), userID, name,
		)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userCols+` FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userCols+` FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}
