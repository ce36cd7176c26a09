package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/inventory"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
	"github.com/dukerupert/nomadcloset/internal/viewstate"
	ws "github.com/dukerupert/nomadcloset/internal/websocket"
)

const duplicatePlace = "A place with this name already exists."

type PlaceHandler struct {
	placeStore *store.PlaceStore
	views      *viewstate.Store
	actions    *ActionRecorder
	hub        *ws.Hub
	logger     *slog.Logger
}

func NewPlaceHandler(ps *store.PlaceStore, views *viewstate.Store, actions *ActionRecorder, hub *ws.Hub, logger *slog.Logger) *PlaceHandler {
	return &PlaceHandler{placeStore: ps, views: views, actions: actions, hub: hub, logger: logger}
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.placeStore.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	writeJSON(w, http.StatusOK, places)
}

func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, h.logger, apperr.Validation("name is required"))
		return
	}

	userID := auth.UserID(r.Context())
	place, err := h.placeStore.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, duplicatePlace))
		return
	}

	h.actions.Record(r.Context(), model.Action{
		ActionType: model.ActionCreatePlace,
		ItemName:   str(place.Name),
		ToPlaceID:  str(place.ID),
	})
	h.hub.Broadcast(userID, ws.NewMessage("place", "created", place.ID, nil))
	writeJSON(w, http.StatusCreated, place)
}

func (h *PlaceHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, h.logger, apperr.Validation("name is required"))
		return
	}

	userID := auth.UserID(r.Context())
	place, err := h.placeStore.Rename(r.Context(), userID, r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, duplicatePlace))
		return
	}
	if place == nil {
		writeError(w, h.logger, apperr.NotFound("place not found"))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("place", "updated", place.ID, nil))
	writeJSON(w, http.StatusOK, place)
}

// Delete removes a place. Its items become unassigned and its boards go with
// it. If this session was showing the place, the view falls back to "all".
func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	ok, err := h.placeStore.Delete(r.Context(), ac.UserID, id)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if !ok {
		writeError(w, h.logger, apperr.NotFound("place not found"))
		return
	}

	h.views.Update(ac.Token, func(s *inventory.State) error {
		s.Forget(id)
		return nil
	})
	h.hub.Broadcast(ac.UserID, ws.NewMessage("place", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// SetLuggage makes the place the single packing destination.
func (h *PlaceHandler) SetLuggage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	place, err := h.placeStore.SetLuggage(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if place == nil {
		writeError(w, h.logger, apperr.NotFound("place not found"))
		return
	}

	h.actions.Record(r.Context(), model.Action{
		ActionType: model.ActionSetLuggage,
		ItemName:   str(place.Name),
		ToPlaceID:  str(place.ID),
	})
	h.hub.Broadcast(userID, ws.NewMessage("place", "luggage", place.ID, nil))
	writeJSON(w, http.StatusOK, place)
}
