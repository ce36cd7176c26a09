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

type PlaceStore struct {
	db *sqlx.DB
}

func NewPlaceStore(db *sqlx.DB) *PlaceStore {
	return &PlaceStore{db: db}
}

const placeCols = `id, user_id, name, is_luggage, created_at`

func (s *PlaceStore) Create(ctx context.Context, userID, name string) (*model.Place, error) {
	p := model.Place{ID: newID(), UserID: userID, Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO places (id, user_id, name, is_luggage, created_at) VALUES (?, ?, ?, ?, ?)`),
		p.ID, p.UserID, p.Name, false, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert place: %w", err)
	}
	return &p, nil
}

func (s *PlaceStore) Get(ctx context.Context, userID, id string) (*model.Place, error) {
	var p model.Place
	err := s.db.GetContext(ctx, &p, s.db.Rebind(
		`SELECT `+placeCols+` FROM places WHERE id = ? AND user_id = ?`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}
	return &p, nil
}

func (s *PlaceStore) List(ctx context.Context, userID string) ([]model.Place, error) {
	places := []model.Place{}
	err := s.db.SelectContext(ctx, &places, s.db.Rebind(
		`SELECT `+placeCols+` FROM places WHERE user_id = ? ORDER BY name ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

func (s *PlaceStore) Rename(ctx context.Context, userID, id, name string) (*model.Place, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE places SET name = ? WHERE id = ? AND user_id = ?`), name, id, userID)
	if err != nil {
		return nil, fmt.Errorf("rename place: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.Get(ctx, userID, id)
}

// Delete removes the place. Its items become unassigned and its shopping
// boards are removed by the schema's foreign keys.
func (s *PlaceStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`DELETE FROM places WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete place: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SetLuggage makes id the user's only luggage place. The flag is cleared on
// every place and then set on the target inside one transaction, so no reader
// sees zero or two flagged places. It returns nil if the target is not one of
// the user's places, leaving the flags untouched.
func (s *PlaceStore) SetLuggage(ctx context.Context, userID, id string) (*model.Place, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(
		`UPDATE places SET is_luggage = ? WHERE user_id = ? AND is_luggage = ?`), false, userID, true)
	if err != nil {
		return nil, fmt.Errorf("clear luggage: %w", err)
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(
		`UPDATE places SET is_luggage = ? WHERE id = ? AND user_id = ?`), true, id, userID)
	if err != nil {
		return nil, fmt.Errorf("set luggage: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	var p model.Place
	if err := tx.GetContext(ctx, &p, tx.Rebind(
		`SELECT `+placeCols+` FROM places WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &p, nil
}
