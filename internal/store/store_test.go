package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/nomadcloset/internal/database"
	"github.com/dukerupert/nomadcloset/internal/model"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createUser inserts a user with the default places and categories.
func createUser(t *testing.T, db *sqlx.DB, email string) *model.User {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), email, "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func placeByName(t *testing.T, db *sqlx.DB, userID, name string) *model.Place {
	t.Helper()
	places, err := NewPlaceStore(db).List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list places: %v", err)
	}
	for i := range places {
		if places[i].Name == name {
			return &places[i]
		}
	}
	t.Fatalf("place %q not found", name)
	return nil
}

func strPtr(s string) *string { return &s }
