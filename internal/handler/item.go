package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
	ws "github.com/dukerupert/nomadcloset/internal/websocket"
)

type ItemHandler struct {
	itemStore     *store.ItemStore
	placeStore    *store.PlaceStore
	categoryStore *store.CategoryStore
	actions       *ActionRecorder
	hub           *ws.Hub
	logger        *slog.Logger
}

func NewItemHandler(is *store.ItemStore, ps *store.PlaceStore, cs *store.CategoryStore, actions *ActionRecorder, hub *ws.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemStore:     is,
		placeStore:    ps,
		categoryStore: cs,
		actions:       actions,
		hub:           hub,
		logger:        logger,
	}
}

type itemRequest struct {
	Name       string `json:"name"`
	Quantity   *int   `json:"quantity"`
	PlaceID    string `json:"place_id"`
	CategoryID string `json:"category_id"`
}

type moveRequest struct {
	ToPlaceID string `json:"to_place_id"`
}

// quantity defaults to 1 when absent or below 1.
func (req itemRequest) quantity() int {
	if req.Quantity == nil || *req.Quantity < 1 {
		return 1
	}
	return *req.Quantity
}

// category resolves the requested category. Unknown ids are rejected.
func (h *ItemHandler) category(ctx context.Context, userID, id string) (*string, error) {
	ref := idRef(id)
	if ref == nil {
		return nil, nil
	}
	ok, err := h.categoryStore.Exists(ctx, userID, *ref)
	if err != nil {
		return nil, apperr.Remote(err)
	}
	if !ok {
		return nil, apperr.Validation("unknown category")
	}
	return ref, nil
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, h.logger, apperr.Validation("name is required"))
		return
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)

	placeID := idRef(req.PlaceID)
	if placeID == nil {
		writeError(w, h.logger, apperr.Validation("place is required"))
		return
	}
	place, err := h.placeStore.Get(ctx, userID, *placeID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if place == nil {
		writeError(w, h.logger, apperr.Validation("unknown place"))
		return
	}

	categoryID, err := h.category(ctx, userID, req.CategoryID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.itemStore.Create(ctx, userID, store.ItemInput{
		Name:       req.Name,
		Quantity:   req.quantity(),
		PlaceID:    placeID,
		CategoryID: categoryID,
	})
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType: model.ActionCreateItem,
		ItemID:     str(item.ID),
		ItemName:   str(item.Name),
		ToPlaceID:  item.PlaceID,
	})
	h.hub.Broadcast(userID, ws.NewMessage("item", "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, item)
}

// Modify changes name, quantity and category. The place is left alone.
func (h *ItemHandler) Modify(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, h.logger, apperr.Validation("name is required"))
		return
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)
	categoryID, err := h.category(ctx, userID, req.CategoryID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.itemStore.Modify(ctx, userID, r.PathValue("id"), store.ItemInput{
		Name:       req.Name,
		Quantity:   req.quantity(),
		CategoryID: categoryID,
	})
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if item == nil {
		writeError(w, h.logger, apperr.NotFound("item not found"))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType: model.ActionModifyItem,
		ItemID:     str(item.ID),
		ItemName:   str(item.Name),
		Metadata:   metadata(map[string]any{"quantity": item.Quantity, "category_id": item.CategoryID}),
	})
	h.hub.Broadcast(userID, ws.NewMessage("item", "updated", item.ID, nil))
	writeJSON(w, http.StatusOK, item)
}

// Move puts one item in another place. "null" unassigns it. Moving to the
// place it is already in changes nothing and logs nothing.
func (h *ItemHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)

	item, err := h.itemStore.Get(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if item == nil {
		writeError(w, h.logger, apperr.NotFound("item not found"))
		return
	}

	to := idRef(req.ToPlaceID)
	if to != nil {
		place, err := h.placeStore.Get(ctx, userID, *to)
		if err != nil {
			writeError(w, h.logger, apperr.Remote(err))
			return
		}
		if place == nil {
			writeError(w, h.logger, apperr.NotFound("place not found"))
			return
		}
	}

	if sameRef(item.PlaceID, to) {
		writeJSON(w, http.StatusOK, item)
		return
	}

	from := item.PlaceID
	moved, err := h.itemStore.Move(ctx, userID, item.ID, to)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if moved == nil {
		writeError(w, h.logger, apperr.NotFound("item not found"))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType:  model.ActionMoveItem,
		ItemID:      str(moved.ID),
		ItemName:    str(moved.Name),
		FromPlaceID: from,
		ToPlaceID:   to,
	})
	h.hub.Broadcast(userID, ws.NewMessage("item", "moved", moved.ID, nil))
	writeJSON(w, http.StatusOK, moved)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserID(ctx)

	item, err := h.itemStore.Get(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if item == nil {
		writeError(w, h.logger, apperr.NotFound("item not found"))
		return
	}

	ok, err := h.itemStore.Delete(ctx, userID, item.ID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if !ok {
		writeError(w, h.logger, apperr.NotFound("item not found"))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType:  model.ActionDeleteItem,
		ItemID:      str(item.ID),
		ItemName:    str(item.Name),
		FromPlaceID: item.PlaceID,
	})
	h.hub.Broadcast(userID, ws.NewMessage("item", "deleted", item.ID, nil))
	w.WriteHeader(http.StatusNoContent)
}
