package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/inventory"
	"github.com/dukerupert/nomadcloset/internal/model"
)

func newPlaceHandler(e *testEnv) *PlaceHandler {
	return NewPlaceHandler(e.places, e.views, e.recorder, e.hub, e.logger)
}

func TestCreatePlace(t *testing.T) {
	e := newTestEnv(t)
	h := newPlaceHandler(e)

	rec := e.call(t, h.Create, "POST", "/api/places", map[string]string{"name": "  Ufficio "})
	expectStatus(t, rec, http.StatusCreated)
	place := decode[model.Place](t, rec)
	if place.Name != "Ufficio" || place.IsLuggage {
		t.Errorf("place = %+v", place)
	}

	actions := e.actionsLogged(t)
	if len(actions) != 1 || actions[0].ActionType != model.ActionCreatePlace {
		t.Fatalf("actions = %+v", actions)
	}
	if actions[0].ItemName == nil || *actions[0].ItemName != "Ufficio" {
		t.Errorf("item_name = %v, want place name", actions[0].ItemName)
	}
	if actions[0].SessionID != e.ac.SessionID {
		t.Errorf("session_id = %q, want %q", actions[0].SessionID, e.ac.SessionID)
	}

	rec = e.call(t, h.Create, "POST", "/api/places", map[string]string{"name": "Ufficio"})
	expectError(t, rec, http.StatusConflict, apperr.KindConflict, "A place with this name already exists.")

	rec = e.call(t, h.Create, "POST", "/api/places", map[string]string{"name": "   "})
	expectError(t, rec, http.StatusBadRequest, apperr.KindValidation, "name is required")
}

func TestRenamePlace(t *testing.T) {
	e := newTestEnv(t)
	h := newPlaceHandler(e)
	uni := e.place(t, "Casa Uni")

	rec := e.call(t, h.Rename, "PUT", "/api/places/"+uni.ID, map[string]string{"name": "Dorm"}, "id", uni.ID)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[model.Place](t, rec); got.Name != "Dorm" {
		t.Errorf("name = %q", got.Name)
	}

	rec = e.call(t, h.Rename, "PUT", "/api/places/"+uni.ID, map[string]string{"name": "Valigia"}, "id", uni.ID)
	expectError(t, rec, http.StatusConflict, apperr.KindConflict, "A place with this name already exists.")

	rec = e.call(t, h.Rename, "PUT", "/api/places/missing", map[string]string{"name": "X"}, "id", "missing")
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound, "place not found")
}

func TestSetLuggageKeepsSingleFlag(t *testing.T) {
	e := newTestEnv(t)
	h := newPlaceHandler(e)
	valigia := e.place(t, "Valigia")
	genitori := e.place(t, "Casa Genitori")

	expectStatus(t, e.call(t, h.SetLuggage, "POST", "/", nil, "id", valigia.ID), http.StatusOK)
	expectStatus(t, e.call(t, h.SetLuggage, "POST", "/", nil, "id", genitori.ID), http.StatusOK)

	places, err := e.places.List(context.Background(), e.ac.UserID)
	if err != nil {
		t.Fatalf("list places: %v", err)
	}
	luggage, err := inventory.LuggagePlace(places)
	if err != nil {
		t.Fatalf("luggage: %v", err)
	}
	if luggage.ID != genitori.ID {
		t.Errorf("luggage = %s, want %s", luggage.Name, genitori.Name)
	}

	var logged int
	for _, a := range e.actionsLogged(t) {
		if a.ActionType == model.ActionSetLuggage {
			logged++
		}
	}
	if logged != 2 {
		t.Errorf("set_luggage actions = %d, want 2", logged)
	}

	rec := e.call(t, h.SetLuggage, "POST", "/", nil, "id", "missing")
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound, "")
}

func TestDeleteActivePlaceResetsView(t *testing.T) {
	e := newTestEnv(t)
	h := newPlaceHandler(e)
	uni := e.place(t, "Casa Uni")
	item := e.item(t, "Laptop", uni.ID, 1)

	e.views.Update(e.ac.Token, func(s *inventory.State) error {
		s.SwitchView(uni.ID)
		s.Selection.Toggle(item.ID)
		return nil
	})

	rec := e.call(t, h.Delete, "DELETE", "/", nil, "id", uni.ID)
	expectStatus(t, rec, http.StatusNoContent)

	e.views.Update(e.ac.Token, func(s *inventory.State) error {
		if s.ActiveView != inventory.FilterAll {
			t.Errorf("view = %q, want all", s.ActiveView)
		}
		if !s.Selection.Empty() {
			t.Error("selection should be cleared")
		}
		return nil
	})

	got, err := e.items.Get(context.Background(), e.ac.UserID, item.ID)
	if err != nil || got == nil {
		t.Fatalf("item should survive place deletion: %v", err)
	}
	if got.PlaceID != nil {
		t.Errorf("place_id = %v, want unassigned", *got.PlaceID)
	}

	rec = e.call(t, h.Delete, "DELETE", "/", nil, "id", uni.ID)
	expectError(t, rec, http.StatusNotFound, apperr.KindNotFound, "")
}

func TestCategoryCRUD(t *testing.T) {
	e := newTestEnv(t)
	h := NewCategoryHandler(e.categories, e.hub, e.logger)

	rec := e.call(t, h.Create, "POST", "/api/categories", map[string]string{"name": "Sport"})
	expectStatus(t, rec, http.StatusCreated)
	cat := decode[model.Category](t, rec)

	rec = e.call(t, h.Create, "POST", "/api/categories", map[string]string{"name": "Tech"})
	expectError(t, rec, http.StatusConflict, apperr.KindConflict, "A category with this name already exists.")

	rec = e.call(t, h.Rename, "PUT", "/", map[string]string{"name": "Sports"}, "id", cat.ID)
	expectStatus(t, rec, http.StatusOK)

	rec = e.call(t, h.List, "GET", "/api/categories", nil)
	expectStatus(t, rec, http.StatusOK)
	list := decode[[]model.Category](t, rec)
	var found bool
	for _, c := range list {
		if c.ID == cat.ID && c.Name == "Sports" {
			found = true
		}
	}
	if !found {
		t.Errorf("renamed category missing from %+v", list)
	}

	expectStatus(t, e.call(t, h.Delete, "DELETE", "/", nil, "id", cat.ID), http.StatusNoContent)
	expectError(t, e.call(t, h.Delete, "DELETE", "/", nil, "id", cat.ID), http.StatusNotFound, apperr.KindNotFound, "")
}
