package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dukerupert/nomadcloset/internal/apperr"
)

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	db := sqlx.NewDb(mockDB, "postgres")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestSetLuggagePostgresOrdering(t *testing.T) {
	db, mock := setupMock(t)
	ps := NewPlaceStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE places SET is_luggage = $1 WHERE user_id = $2 AND is_luggage = $3`)).
		WithArgs(false, "u1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE places SET is_luggage = $1 WHERE id = $2 AND user_id = $3`)).
		WithArgs(true, "p2", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, name, is_luggage, created_at FROM places WHERE id = $1 AND user_id = $2`)).
		WithArgs("p2", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "is_luggage", "created_at"}).
			AddRow("p2", "u1", "Valigia", true, time.Now()))
	mock.ExpectCommit()

	p, err := ps.SetLuggage(context.Background(), "u1", "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || !p.IsLuggage {
		t.Fatalf("got %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSetLuggagePostgresRollsBackMissingTarget(t *testing.T) {
	db, mock := setupMock(t)
	ps := NewPlaceStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE places SET is_luggage = $1 WHERE user_id = $2 AND is_luggage = $3`)).
		WithArgs(false, "u1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE places SET is_luggage = $1 WHERE id = $2 AND user_id = $3`)).
		WithArgs(true, "missing", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	p, err := ps.SetLuggage(context.Background(), "u1", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil place, got %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreatePlacePostgresDuplicate(t *testing.T) {
	db, mock := setupMock(t)
	ps := NewPlaceStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO places (id, user_id, name, is_luggage, created_at) VALUES ($1, $2, $3, $4, $5)`)).
		WithArgs(sqlmock.AnyArg(), "u1", "Valigia", false, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := ps.Create(context.Background(), "u1", "Valigia")
	if err == nil {
		t.Fatal("expected error")
	}
	translated := apperr.Translate(err, "A place with this name already exists.")
	if apperr.KindOf(translated) != apperr.KindConflict {
		t.Errorf("kind = %q, want conflict", apperr.KindOf(translated))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBulkMovePostgresExpandsIDs(t *testing.T) {
	db, mock := setupMock(t)
	is := NewItemStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE items SET place_id = $1 WHERE user_id = $2 AND id IN ($3, $4)`)).
		WithArgs(sqlmock.AnyArg(), "u1", "a", "b").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := is.BulkMove(context.Background(), "u1", []string{"a", "", "b", "a"}, strPtr("p1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("moved %d, want 2", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
