package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/store"
	ws "github.com/dukerupert/nomadcloset/internal/websocket"
)

const duplicateCategory = "A category with this name already exists."

type CategoryHandler struct {
	categoryStore *store.CategoryStore
	hub           *ws.Hub
	logger        *slog.Logger
}

func NewCategoryHandler(cs *store.CategoryStore, hub *ws.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryStore: cs, hub: hub, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	category, err := h.categoryStore.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, duplicateCategory))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("category", "created", category.ID, nil))
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
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
	id := r.PathValue("id")
	ok, err := h.categoryStore.Rename(r.Context(), userID, id, req.Name)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, duplicateCategory))
		return
	}
	if !ok {
		writeError(w, h.logger, apperr.NotFound("category not found"))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("category", "updated", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "name": req.Name})
}

// Delete removes a category. Its items render as uncategorized.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")
	ok, err := h.categoryStore.Delete(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if !ok {
		writeError(w, h.logger, apperr.NotFound("category not found"))
		return
	}

	h.hub.Broadcast(userID, ws.NewMessage("category", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
