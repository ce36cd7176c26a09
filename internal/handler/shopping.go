package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/shopping"
	"github.com/dukerupert/nomadcloset/internal/store"
	ws "github.com/dukerupert/nomadcloset/internal/websocket"
)

const duplicateBoard = "A board with this name already exists for this place."

type ShoppingHandler struct {
	shoppingStore *store.ShoppingStore
	placeStore    *store.PlaceStore
	toggler       *shopping.Toggler
	hub           *ws.Hub
	logger        *slog.Logger
}

func NewShoppingHandler(ss *store.ShoppingStore, ps *store.PlaceStore, toggler *shopping.Toggler, hub *ws.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{shoppingStore: ss, placeStore: ps, toggler: toggler, hub: hub, logger: logger}
}

type takenRequest struct {
	Taken bool `json:"taken"`
}

// ListBoards returns the place's boards with their items, untaken first.
func (h *ShoppingHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserID(ctx)
	placeID := r.PathValue("id")

	place, err := h.placeStore.Get(ctx, userID, placeID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if place == nil {
		writeError(w, h.logger, apperr.NotFound("place not found"))
		return
	}

	boards, err := h.shoppingStore.ListBoardsWithItems(ctx, userID, placeID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	shopping.SortBoards(boards)
	writeJSON(w, http.StatusOK, boards)
}

func (h *ShoppingHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()
	userID := auth.UserID(ctx)
	placeID := r.PathValue("id")

	place, err := h.placeStore.Get(ctx, userID, placeID)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if place == nil {
		writeError(w, h.logger, apperr.NotFound("place not found"))
		return
	}

	board, err := h.shoppingStore.CreateBoard(ctx, userID, placeID, req.Name)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, duplicateBoard))
		return
	}
	board.Items = []model.ShoppingItem{}

	h.hub.Broadcast(userID, ws.NewMessage("board", "created", board.ID, map[string]any{"place_id": placeID}))
	writeJSON(w, http.StatusCreated, board)
}

// RenameBoard renames a board. Keeping the same name is a no-op.
func (h *ShoppingHandler) RenameBoard(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()
	userID := auth.UserID(ctx)

	board, err := h.shoppingStore.GetBoard(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if board == nil {
		writeError(w, h.logger, apperr.NotFound("board not found"))
		return
	}
	if board.Name == req.Name {
		writeJSON(w, http.StatusOK, board)
		return
	}

	renamed, err := h.shoppingStore.RenameBoard(ctx, userID, board.ID, req.Name)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, duplicateBoard))
		return
	}
	if renamed == nil {
		writeError(w, h.logger, apperr.NotFound("board not found"))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("board", "updated", renamed.ID, map[string]any{"place_id": renamed.PlaceID}))
	writeJSON(w, http.StatusOK, renamed)
}

// DeleteBoard removes a board together with its items.
func (h *ShoppingHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	ok, err := h.shoppingStore.DeleteBoard(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if !ok {
		writeError(w, h.logger, apperr.NotFound("board not found"))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("board", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()
	userID := auth.UserID(ctx)

	board, err := h.shoppingStore.GetBoard(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if board == nil {
		writeError(w, h.logger, apperr.NotFound("board not found"))
		return
	}

	item, err := h.shoppingStore.AddItem(ctx, userID, board.ID, req.Name)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("shopping_item", "created", item.ID, map[string]any{"list_id": board.ID}))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	ok, err := h.shoppingStore.DeleteItem(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if !ok {
		writeError(w, h.logger, apperr.NotFound("item not found"))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("shopping_item", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// SetTaken answers with the toggled item before the write lands. If the write
// fails, the toggler's failure hook pushes the undo to the user's clients.
func (h *ShoppingHandler) SetTaken(w http.ResponseWriter, r *http.Request) {
	var req takenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)

	item, err := h.shoppingStore.GetItem(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if item == nil {
		writeError(w, h.logger, apperr.NotFound("item not found"))
		return
	}

	cmd := shopping.NewToggle(*item, req.Taken)
	optimistic, _ := shopping.Apply([]model.ShoppingItem{*item}, cmd)

	h.toggler.Submit(ctx, userID, cmd)
	h.hub.Broadcast(userID, ws.NewMessage("shopping_item", "taken", item.ID, map[string]any{"taken": cmd.Taken, "list_id": item.ListID}))
	writeJSON(w, http.StatusAccepted, optimistic[0])
}
