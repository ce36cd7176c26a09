package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/model"
)

func newItemHandler(e *testEnv) *ItemHandler {
	return NewItemHandler(e.items, e.places, e.categories, e.recorder, e.hub, e.logger)
}

func TestCreateItem(t *testing.T) {
	e := newTestEnv(t)
	h := newItemHandler(e)
	uni := e.place(t, "Casa Uni")

	rec := e.call(t, h.Create, "POST", "/api/items", map[string]any{"name": "Charger", "place_id": uni.ID})
	expectStatus(t, rec, http.StatusCreated)
	item := decode[model.Item](t, rec)
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want default 1", item.Quantity)
	}
	if item.PlaceName == nil || *item.PlaceName != "Casa Uni" {
		t.Errorf("place_name = %v", item.PlaceName)
	}

	actions := e.actionsLogged(t)
	if len(actions) != 1 || actions[0].ActionType != model.ActionCreateItem {
		t.Fatalf("actions = %+v", actions)
	}
	if actions[0].ToPlaceID == nil || *actions[0].ToPlaceID != uni.ID {
		t.Errorf("to_place_id = %v, want %s", actions[0].ToPlaceID, uni.ID)
	}

	tests := []struct {
		name string
		body map[string]any
		msg  string
	}{
		{"no name", map[string]any{"place_id": uni.ID}, "name is required"},
		{"no place", map[string]any{"name": "Cable"}, "place is required"},
		{"null place", map[string]any{"name": "Cable", "place_id": "null"}, "place is required"},
		{"unknown place", map[string]any{"name": "Cable", "place_id": "nope"}, "unknown place"},
		{"unknown category", map[string]any{"name": "Cable", "place_id": uni.ID, "category_id": "nope"}, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.call(t, h.Create, "POST", "/api/items", tt.body)
			expectError(t, rec, http.StatusBadRequest, apperr.KindValidation, tt.msg)
		})
	}
}

func TestModifyItemDefaultsQuantity(t *testing.T) {
	e := newTestEnv(t)
	h := newItemHandler(e)
	uni := e.place(t, "Casa Uni")
	item := e.item(t, "Socks", uni.ID, 4)

	categories, _ := e.categories.List(context.Background(), e.ac.UserID)
	var clothing string
	for _, c := range categories {
		if c.Name == "Clothing" {
			clothing = c.ID
		}
	}

	rec := e.call(t, h.Modify, "PUT", "/", map[string]any{"name": "Wool socks", "quantity": -3, "category_id": clothing}, "id", item.ID)
	expectStatus(t, rec, http.StatusOK)
	got := decode[model.Item](t, rec)
	if got.Name != "Wool socks" || got.Quantity != 1 {
		t.Errorf("item = %+v", got)
	}
	if got.CategoryName == nil || *got.CategoryName != "Clothing" {
		t.Errorf("category = %v", got.CategoryName)
	}
	if got.PlaceID == nil || *got.PlaceID != uni.ID {
		t.Error("modify must not change the place")
	}

	rec = e.call(t, h.Modify, "PUT", "/", map[string]any{"name": "Wool socks", "quantity": 6}, "id", item.ID)
	expectStatus(t, rec, http.StatusOK)
	got = decode[model.Item](t, rec)
	if got.Quantity != 6 || got.CategoryID != nil {
		t.Errorf("item = %+v, want quantity 6 and no category", got)
	}

	rec = e.call(t, h.Modify, "PUT", "/", map[string]any{"name": "X"}, "id", "missing")
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound, "item not found")
}

func TestMoveItem(t *testing.T) {
	e := newTestEnv(t)
	h := newItemHandler(e)
	uni := e.place(t, "Casa Uni")
	home := e.place(t, "Casa Genitori")
	item := e.item(t, "Laptop", uni.ID, 1)

	// same place: nothing logged
	rec := e.call(t, h.Move, "POST", "/", map[string]string{"to_place_id": uni.ID}, "id", item.ID)
	expectStatus(t, rec, http.StatusOK)
	if n := len(e.actionsLogged(t)); n != 0 {
		t.Fatalf("no-op move logged %d actions", n)
	}

	rec = e.call(t, h.Move, "POST", "/", map[string]string{"to_place_id": home.ID}, "id", item.ID)
	expectStatus(t, rec, http.StatusOK)
	moved := decode[model.Item](t, rec)
	if moved.PlaceID == nil || *moved.PlaceID != home.ID {
		t.Fatalf("place = %v, want %s", moved.PlaceID, home.ID)
	}

	actions := e.actionsLogged(t)
	if len(actions) != 1 || actions[0].ActionType != model.ActionMoveItem {
		t.Fatalf("actions = %+v", actions)
	}
	if *actions[0].FromPlaceID != uni.ID || *actions[0].ToPlaceID != home.ID {
		t.Errorf("from/to = %s/%s", *actions[0].FromPlaceID, *actions[0].ToPlaceID)
	}

	rec = e.call(t, h.Move, "POST", "/", map[string]string{"to_place_id": "null"}, "id", item.ID)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[model.Item](t, rec); got.PlaceID != nil {
		t.Errorf("place = %v, want unassigned", *got.PlaceID)
	}

	rec = e.call(t, h.Move, "POST", "/", map[string]string{"to_place_id": "nope"}, "id", item.ID)
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound, "place not found")
}

func TestDeleteItemLogsName(t *testing.T) {
	e := newTestEnv(t)
	h := newItemHandler(e)
	uni := e.place(t, "Casa Uni")
	item := e.item(t, "Passport", uni.ID, 1)

	expectStatus(t, e.call(t, h.Delete, "DELETE", "/", nil, "id", item.ID), http.StatusNoContent)
	expectError(t, e.call(t, h.Delete, "DELETE", "/", nil, "id", item.ID), http.StatusNotFound, apperr.KindNotFound, "")

	actions := e.actionsLogged(t)
	if len(actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(actions))
	}
	a := actions[0]
	if a.ActionType != model.ActionDeleteItem || *a.ItemName != "Passport" || *a.FromPlaceID != uni.ID {
		t.Errorf("action = %+v", a)
	}
	if a.Metadata != nil {
		t.Errorf("unexpected metadata %s", *a.Metadata)
	}
}
