package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/inventory"
	"github.com/dukerupert/nomadcloset/internal/metrics"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
	"github.com/dukerupert/nomadcloset/internal/viewstate"
	ws "github.com/dukerupert/nomadcloset/internal/websocket"
)

const (
	modeInventory = "inventory"
	modePacking   = "packing"
)

// ViewHandler serves the session's inventory or packing view and the bulk
// actions on its selection.
type ViewHandler struct {
	itemStore    *store.ItemStore
	placeStore   *store.PlaceStore
	packingStore *store.PackingListStore
	views        *viewstate.Store
	actions      *ActionRecorder
	metrics      *metrics.Metrics
	hub          *ws.Hub
	logger       *slog.Logger
}

func NewViewHandler(
	is *store.ItemStore,
	ps *store.PlaceStore,
	pls *store.PackingListStore,
	views *viewstate.Store,
	actions *ActionRecorder,
	m *metrics.Metrics,
	hub *ws.Hub,
	logger *slog.Logger,
) *ViewHandler {
	return &ViewHandler{
		itemStore:    is,
		placeStore:   ps,
		packingStore: pls,
		views:        views,
		actions:      actions,
		metrics:      m,
		hub:          hub,
		logger:       logger,
	}
}

type viewResponse struct {
	State     *inventory.State          `json:"state"`
	Mode      string                    `json:"mode"`
	Inventory *inventory.View           `json:"inventory,omitempty"`
	List      *model.PackingList        `json:"list,omitempty"`
	Packing   *inventory.Reconciliation `json:"packing,omitempty"`
}

type switchRequest struct {
	View string `json:"view"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type toggleRequest struct {
	ID string `json:"id"`
}

// snapshot copies the session state so it can be used outside the lock.
func (h *ViewHandler) snapshot(token string, fn func(*inventory.State)) *inventory.State {
	var snap *inventory.State
	h.views.Update(token, func(s *inventory.State) error {
		if fn != nil {
			fn(s)
		}
		snap = s.Clone()
		return nil
	})
	return snap
}

func placeExists(places []model.Place, view string) bool {
	if view == inventory.FilterAll || view == inventory.FilterUnassigned {
		return true
	}
	for _, p := range places {
		if p.ID == view {
			return true
		}
	}
	return false
}

// render recomputes the view from fresh data. A view naming a place or list
// that no longer exists falls back to "all".
func (h *ViewHandler) render(ctx context.Context, ac auth.AuthContext) (*viewResponse, error) {
	items, err := h.itemStore.List(ctx, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(err)
	}
	places, err := h.placeStore.List(ctx, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(err)
	}

	state := h.snapshot(ac.Token, nil)
	if listID, ok := state.PackingListID(); ok {
		list, err := h.packingStore.Get(ctx, ac.UserID, listID)
		if err != nil {
			return nil, apperr.Remote(err)
		}
		if list != nil {
			rec, err := inventory.ReconcilePackingList(*list, items, places)
			if err != nil {
				return nil, err
			}
			return &viewResponse{State: state, Mode: modePacking, List: list, Packing: rec}, nil
		}
		state = h.forget(ac.Token, state.ActiveView)
	} else if !placeExists(places, state.ActiveView) {
		state = h.forget(ac.Token, state.ActiveView)
	}

	view := inventory.ComputeView(items, places, state.PlaceFilter(), state.Query, state.Selection)
	return &viewResponse{State: state, Mode: modeInventory, Inventory: &view}, nil
}

func (h *ViewHandler) forget(token, view string) *inventory.State {
	return h.snapshot(token, func(s *inventory.State) { s.Forget(view) })
}

func (h *ViewHandler) respond(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	resp, err := h.render(r.Context(), ac)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)
}

// Switch shows another place ("all", "null", a place id) or a packing list
// ("list-<id>"). The selection and query are reset.
func (h *ViewHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.View == "" {
		req.View = inventory.FilterAll
	}

	ctx := r.Context()
	ac, _ := auth.FromContext(ctx)

	target := inventory.State{ActiveView: req.View}
	if listID, ok := target.PackingListID(); ok {
		list, err := h.packingStore.Get(ctx, ac.UserID, listID)
		if err != nil {
			writeError(w, h.logger, apperr.Remote(err))
			return
		}
		if list == nil {
			writeError(w, h.logger, apperr.NotFound("packing list not found"))
			return
		}
	} else {
		places, err := h.placeStore.List(ctx, ac.UserID)
		if err != nil {
			writeError(w, h.logger, apperr.Remote(err))
			return
		}
		if !placeExists(places, req.View) {
			writeError(w, h.logger, apperr.NotFound("place not found"))
			return
		}
	}

	h.views.Update(ac.Token, func(s *inventory.State) error {
		s.SwitchView(req.View)
		return nil
	})
	h.respond(w, r)
}

// SetQuery changes the search text. The selection survives.
func (h *ViewHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	ac, _ := auth.FromContext(r.Context())
	h.views.Update(ac.Token, func(s *inventory.State) error {
		s.SetQuery(req.Query)
		return nil
	})
	h.respond(w, r)
}

func (h *ViewHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	ac, _ := auth.FromContext(r.Context())
	h.views.Update(ac.Token, func(s *inventory.State) error {
		s.Selection.Toggle(req.ID)
		return nil
	})
	h.respond(w, r)
}

// SelectAll selects every visible item, or clears the selection when all of
// them are already selected.
func (h *ViewHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ac, _ := auth.FromContext(ctx)

	items, err := h.itemStore.List(ctx, ac.UserID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}

	h.views.Update(ac.Token, func(s *inventory.State) error {
		visible := inventory.Filter(items, s.PlaceFilter(), s.Query)
		ids := make([]string, 0, len(visible))
		for _, item := range visible {
			ids = append(ids, item.ID)
		}
		s.Selection.SelectAll(ids)
		return nil
	})
	h.respond(w, r)
}

func (h *ViewHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	h.views.Update(ac.Token, func(s *inventory.State) error {
		s.Selection.Clear()
		return nil
	})
	h.respond(w, r)
}

// submission is the selection as it should be sent to the store.
func (h *ViewHandler) submission(token string) ([]string, error) {
	ids := h.snapshot(token, nil).Selection.Submission()
	if len(ids) == 0 {
		return nil, apperr.Validation("select at least one item")
	}
	return ids, nil
}

func (h *ViewHandler) clearSelection(token string) {
	h.views.Update(token, func(s *inventory.State) error {
		s.Selection.Clear()
		return nil
	})
}

// MoveSelection moves the selected items to one place ("null" unassigns) and
// clears the selection.
func (h *ViewHandler) MoveSelection(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ctx := r.Context()
	ac, _ := auth.FromContext(ctx)

	ids, err := h.submission(ac.Token)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	to := idRef(req.ToPlaceID)
	if to != nil {
		place, err := h.placeStore.Get(ctx, ac.UserID, *to)
		if err != nil {
			writeError(w, h.logger, apperr.Remote(err))
			return
		}
		if place == nil {
			writeError(w, h.logger, apperr.NotFound("place not found"))
			return
		}
	}

	n, err := h.itemStore.BulkMove(ctx, ac.UserID, ids, to)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType: model.ActionBulkMoveItems,
		ToPlaceID:  to,
		Metadata:   metadata(bulkMetadata{ItemCount: len(ids), ItemIDs: ids}),
	})
	h.metrics.BulkAffected("move", n)
	h.clearSelection(ac.Token)
	h.hub.Broadcast(ac.UserID, ws.NewMessage("item", "bulk_moved", "", map[string]any{"count": n}))
	h.respond(w, r)
}

// DeleteSelection deletes the selected items and clears the selection.
func (h *ViewHandler) DeleteSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ac, _ := auth.FromContext(ctx)

	ids, err := h.submission(ac.Token)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	n, err := h.itemStore.BulkDelete(ctx, ac.UserID, ids)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType: model.ActionBulkDeleteItems,
		Metadata:   metadata(bulkMetadata{ItemCount: len(ids), ItemIDs: ids}),
	})
	h.metrics.BulkAffected("delete", n)
	h.clearSelection(ac.Token)
	h.hub.Broadcast(ac.UserID, ws.NewMessage("item", "bulk_deleted", "", map[string]any{"count": n}))
	h.respond(w, r)
}
