package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/export"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
)

type ExportHandler struct {
	actionStore *store.ActionStore
	actions     *ActionRecorder
	logger      *slog.Logger
}

func NewExportHandler(as *store.ActionStore, actions *ActionRecorder, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{actionStore: as, actions: actions, logger: logger}
}

// Actions downloads the user's action log as CSV with the user id
// pseudonymised.
func (h *ExportHandler) Actions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, rows, err := export.Render(ctx, h.actionStore, auth.UserID(ctx))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.actions.Record(ctx, model.Action{
		ActionType: model.ActionExportCSV,
		Metadata:   metadata(map[string]int{"rows": rows}),
	})

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
