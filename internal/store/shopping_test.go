package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dukerupert/nomadcloset/internal/apperr"
)

func TestShoppingBoardsWithItems(t *testing.T) {
	db := setupTestDB(t)
	ss := NewShoppingStore(db)
	ctx := context.Background()
	u := createUser(t, db, "alice@example.com")
	uni := placeByName(t, db, u.ID, "Casa Uni")
	parents := placeByName(t, db, u.ID, "Casa Genitori")

	groceries, err := ss.CreateBoard(ctx, u.ID, uni.ID, "Groceries")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if _, err := ss.CreateBoard(ctx, u.ID, uni.ID, "Hardware"); err != nil {
		t.Fatalf("create board: %v", err)
	}
	if _, err := ss.CreateBoard(ctx, u.ID, parents.ID, "Groceries"); err != nil {
		t.Fatalf("same name at another place: %v", err)
	}

	_, err = ss.CreateBoard(ctx, u.ID, uni.ID, "Groceries")
	if !apperr.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}

	milk, _ := ss.AddItem(ctx, u.ID, groceries.ID, "Milk")
	if _, err := ss.AddItem(ctx, u.ID, groceries.ID, "Bread"); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := ss.SetTaken(ctx, u.ID, milk.ID, true); err != nil {
		t.Fatalf("set taken: %v", err)
	}

	boards, err := ss.ListBoardsWithItems(ctx, u.ID, uni.ID)
	if err != nil {
		t.Fatalf("list boards: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("got %d boards, want 2", len(boards))
	}
	if boards[0].Name != "Groceries" || len(boards[0].Items) != 2 {
		t.Fatalf("unexpected first board %+v", boards[0])
	}
	if len(boards[1].Items) != 0 {
		t.Errorf("hardware board should be empty")
	}
	var taken int
	for _, item := range boards[0].Items {
		if item.IsTaken {
			taken++
		}
	}
	if taken != 1 {
		t.Errorf("taken = %d, want 1", taken)
	}
}

func TestShoppingDeleteBoardCascades(t *testing.T) {
	db := setupTestDB(t)
	ss := NewShoppingStore(db)
	ctx := context.Background()
	u := createUser(t, db, "alice@example.com")
	uni := placeByName(t, db, u.ID, "Casa Uni")

	board, _ := ss.CreateBoard(ctx, u.ID, uni.ID, "Groceries")
	item, _ := ss.AddItem(ctx, u.ID, board.ID, "Milk")

	ok, err := ss.DeleteBoard(ctx, u.ID, board.ID)
	if err != nil || !ok {
		t.Fatalf("delete board: %v, %v", ok, err)
	}
	if got, _ := ss.GetItem(ctx, u.ID, item.ID); got != nil {
		t.Error("items should be deleted with their board")
	}
}

func TestShoppingRenameBoard(t *testing.T) {
	db := setupTestDB(t)
	ss := NewShoppingStore(db)
	ctx := context.Background()
	u := createUser(t, db, "alice@example.com")
	uni := placeByName(t, db, u.ID, "Casa Uni")

	board, _ := ss.CreateBoard(ctx, u.ID, uni.ID, "Groceries")
	renamed, err := ss.RenameBoard(ctx, u.ID, board.ID, "Food")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed == nil || renamed.Name != "Food" {
		t.Errorf("got %+v", renamed)
	}
}

func TestShoppingSetTakenMissing(t *testing.T) {
	db := setupTestDB(t)
	ss := NewShoppingStore(db)
	u := createUser(t, db, "alice@example.com")

	err := ss.SetTaken(context.Background(), u.ID, "nope", true)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}
