package store

import (
	"context"
	"testing"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/model"
)

func TestPackingListSnapshot(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingListStore(db)
	is := NewItemStore(db)
	ctx := context.Background()
	u := createUser(t, db, "alice@example.com")

	uni := placeByName(t, db, u.ID, "Casa Uni")
	laptop, _ := is.Create(ctx, u.ID, ItemInput{Name: "Laptop", Quantity: 1, PlaceID: &uni.ID})
	socks, _ := is.Create(ctx, u.ID, ItemInput{Name: "Socks", Quantity: 5, PlaceID: &uni.ID})

	list, err := ps.Create(ctx, u.ID, "Weekend", []model.PackingEntry{
		{ItemID: socks.ID, Name: socks.Name, Quantity: socks.Quantity},
		{ItemID: laptop.ID, Name: laptop.Name, Quantity: laptop.Quantity},
	})
	if err != nil {
		t.Fatalf("create packing list: %v", err)
	}

	// deleting an item keeps the entry and its fallback name
	if _, err := is.Delete(ctx, u.ID, laptop.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	got, err := ps.Get(ctx, u.ID, list.ID)
	if err != nil {
		t.Fatalf("get packing list: %v", err)
	}
	if got == nil || len(got.Entries) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Entries[0].ItemID != socks.ID || got.Entries[0].Quantity != 5 {
		t.Errorf("entry[0] = %+v", got.Entries[0])
	}
	if got.Entries[1].Name != "Laptop" {
		t.Errorf("entry[1] name = %q, want Laptop", got.Entries[1].Name)
	}
}

func TestPackingListListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingListStore(db)
	ctx := context.Background()
	u := createUser(t, db, "alice@example.com")

	if _, err := ps.Create(ctx, u.ID, "Zermatt", []model.PackingEntry{{ItemID: "x", Name: "Skis", Quantity: 1}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	beach, err := ps.Create(ctx, u.ID, "Beach", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = ps.Create(ctx, u.ID, "Beach", nil)
	if !apperr.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}

	lists, err := ps.List(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists) != 2 || lists[0].Name != "Beach" || lists[1].Name != "Zermatt" {
		t.Fatalf("unexpected lists %+v", lists)
	}
	if len(lists[0].Entries) != 0 || len(lists[1].Entries) != 1 {
		t.Errorf("entries = %d, %d", len(lists[0].Entries), len(lists[1].Entries))
	}

	ok, err := ps.Delete(ctx, u.ID, beach.ID)
	if err != nil || !ok {
		t.Fatalf("delete: %v, %v", ok, err)
	}
	if got, _ := ps.Get(ctx, u.ID, beach.ID); got != nil {
		t.Error("list should be gone")
	}
}
