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

type PackingListStore struct {
	db *sqlx.DB
}

func NewPackingListStore(db *sqlx.DB) *PackingListStore {
	return &PackingListStore{db: db}
}

const (
	packingListCols  = `id, user_id, name, created_at`
	packingEntryCols = `list_id, position, item_id, name, quantity`
)

// Create stores a named snapshot of entries. Entry order is kept.
func (s *PackingListStore) Create(ctx context.Context, userID, name string, entries []model.PackingEntry) (*model.PackingList, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	list := model.PackingList{ID: newID(), UserID: userID, Name: name, CreatedAt: time.Now().UTC()}
	_, err = tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO packing_lists (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`),
		list.ID, list.UserID, list.Name, list.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert packing list: %w", err)
	}

	list.Entries = make([]model.PackingEntry, 0, len(entries))
	for i, e := range entries {
		e.ListID = list.ID
		e.Position = i
		_, err = tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO packing_list_entries (`+packingEntryCols+`) VALUES (?, ?, ?, ?, ?)`),
			e.ListID, e.Position, e.ItemID, e.Name, e.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("insert packing entry: %w", err)
		}
		list.Entries = append(list.Entries, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &list, nil
}

func (s *PackingListStore) Get(ctx context.Context, userID, id string) (*model.PackingList, error) {
	var list model.PackingList
	err := s.db.GetContext(ctx, &list, s.db.Rebind(
		`SELECT `+packingListCols+` FROM packing_lists WHERE id = ? AND user_id = ?`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get packing list: %w", err)
	}

	list.Entries = []model.PackingEntry{}
	err = s.db.SelectContext(ctx, &list.Entries, s.db.Rebind(
		`SELECT `+packingEntryCols+` FROM packing_list_entries WHERE list_id = ? ORDER BY position ASC`), id)
	if err != nil {
		return nil, fmt.Errorf("list packing entries: %w", err)
	}
	return &list, nil
}

// List returns the user's packing lists, entries included, ordered by name.
func (s *PackingListStore) List(ctx context.Context, userID string) ([]model.PackingList, error) {
	lists := []model.PackingList{}
	err := s.db.SelectContext(ctx, &lists, s.db.Rebind(
		`SELECT `+packingListCols+` FROM packing_lists WHERE user_id = ? ORDER BY name ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list packing lists: %w", err)
	}
	if len(lists) == 0 {
		return lists, nil
	}

	ids := make([]string, len(lists))
	byID := make(map[string]*model.PackingList, len(lists))
	for i := range lists {
		ids[i] = lists[i].ID
		lists[i].Entries = []model.PackingEntry{}
		byID[lists[i].ID] = &lists[i]
	}

	query, args, err := sqlx.In(`SELECT `+packingEntryCols+` FROM packing_list_entries WHERE list_id IN (?) ORDER BY list_id, position ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("build entries query: %w", err)
	}
	var entries []model.PackingEntry
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list packing entries: %w", err)
	}
	for _, e := range entries {
		if l, ok := byID[e.ListID]; ok {
			l.Entries = append(l.Entries, e)
		}
	}
	return lists, nil
}

func (s *PackingListStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`DELETE FROM packing_lists WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete packing list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
