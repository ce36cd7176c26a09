package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/inventory"
	"github.com/dukerupert/nomadcloset/internal/metrics"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
	"github.com/dukerupert/nomadcloset/internal/viewstate"
	ws "github.com/dukerupert/nomadcloset/internal/websocket"
)

const duplicatePackingList = "A packing list with this name already exists."

type PackingHandler struct {
	packingStore *store.PackingListStore
	itemStore    *store.ItemStore
	placeStore   *store.PlaceStore
	views        *viewstate.Store
	actions      *ActionRecorder
	metrics      *metrics.Metrics
	hub          *ws.Hub
	logger       *slog.Logger
}

func NewPackingHandler(
	pls *store.PackingListStore,
	is *store.ItemStore,
	ps *store.PlaceStore,
	views *viewstate.Store,
	actions *ActionRecorder,
	m *metrics.Metrics,
	hub *ws.Hub,
	logger *slog.Logger,
) *PackingHandler {
	return &PackingHandler{
		packingStore: pls,
		itemStore:    is,
		placeStore:   ps,
		views:        views,
		actions:      actions,
		metrics:      m,
		hub:          hub,
		logger:       logger,
	}
}

type packingListRequest struct {
	Name    string   `json:"name"`
	ItemIDs []string `json:"item_ids"`
}

type packRequest struct {
	ItemIDs []string `json:"item_ids"`
}

func (h *PackingHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.packingStore.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// Create saves a snapshot of the chosen items' names and quantities.
// Ids that no longer exist are skipped.
func (h *PackingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req packingListRequest
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

	items, err := h.itemStore.List(ctx, userID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	live := make(map[string]model.Item, len(items))
	for _, item := range items {
		live[item.ID] = item
	}

	var entries []model.PackingEntry
	for _, id := range inventory.FilterIDs(req.ItemIDs) {
		item, ok := live[id]
		if !ok {
			continue
		}
		entries = append(entries, model.PackingEntry{ItemID: item.ID, Name: item.Name, Quantity: item.Quantity})
	}
	if len(entries) == 0 {
		writeError(w, h.logger, apperr.Validation("select at least one item"))
		return
	}

	list, err := h.packingStore.Create(ctx, userID, req.Name, entries)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, duplicatePackingList))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType: model.ActionCreatePackingList,
		ItemName:   str(list.Name),
		Metadata:   metadata(map[string]any{"list_id": list.ID, "item_count": len(list.Entries)}),
	})
	h.hub.Broadcast(userID, ws.NewMessage("packing_list", "created", list.ID, nil))
	writeJSON(w, http.StatusCreated, list)
}

func (h *PackingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	ok, err := h.packingStore.Delete(r.Context(), ac.UserID, id)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if !ok {
		writeError(w, h.logger, apperr.NotFound("packing list not found"))
		return
	}

	h.views.Update(ac.Token, func(s *inventory.State) error {
		s.Forget(inventory.ListView(id))
		return nil
	})
	h.hub.Broadcast(ac.UserID, ws.NewMessage("packing_list", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *PackingHandler) reconcile(ctx context.Context, userID, listID string) (*inventory.Reconciliation, error) {
	list, err := h.packingStore.Get(ctx, userID, listID)
	if err != nil {
		return nil, apperr.Remote(err)
	}
	if list == nil {
		return nil, apperr.NotFound("packing list not found")
	}
	items, err := h.itemStore.List(ctx, userID)
	if err != nil {
		return nil, apperr.Remote(err)
	}
	places, err := h.placeStore.List(ctx, userID)
	if err != nil {
		return nil, apperr.Remote(err)
	}
	return inventory.ReconcilePackingList(*list, items, places)
}

// Reconcile checks the list against live inventory and the luggage place.
func (h *PackingHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reconcile(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Pack moves the checked move candidates into the luggage place. Only the
// checked ids are moved, never the whole candidate list.
func (h *PackingHandler) Pack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)
	listID := r.PathValue("id")

	rec, err := h.reconcile(ctx, userID, listID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	moves, err := inventory.SelectMoves(rec, req.ItemIDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	luggageID := rec.Luggage.ID
	n, err := h.itemStore.BulkMove(ctx, userID, moves, &luggageID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType: model.ActionBulkMoveItems,
		ToPlaceID:  &luggageID,
		Metadata:   metadata(bulkMetadata{ItemCount: len(moves), ItemIDs: moves}),
	})
	h.metrics.BulkAffected("pack", n)
	h.hub.Broadcast(userID, ws.NewMessage("item", "bulk_moved", "", map[string]any{"count": n, "to_place_id": luggageID}))

	rec, err = h.reconcile(ctx, userID, listID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
