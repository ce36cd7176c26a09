package handler

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/metrics"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
)

// ActionRecorder appends to the action log. Failures are logged and never
// fail the mutation that triggered them.
type ActionRecorder struct {
	actions *store.ActionStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewActionRecorder(as *store.ActionStore, m *metrics.Metrics, logger *slog.Logger) *ActionRecorder {
	return &ActionRecorder{actions: as, metrics: m, logger: logger}
}

// Record stamps a with the caller's user and session and stores it.
func (rec *ActionRecorder) Record(ctx context.Context, a model.Action) {
	ac, _ := auth.FromContext(ctx)
	a.UserID = ac.UserID
	a.SessionID = ac.SessionID

	if _, err := rec.actions.Log(ctx, a); err != nil {
		rec.logger.Warn("log action", "action_type", a.ActionType, "error", err)
		return
	}
	rec.metrics.ActionLogged(string(a.ActionType))
}

func metadata(v any) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

type bulkMetadata struct {
	ItemCount int      `json:"item_count"`
	ItemIDs   []string `json:"item_ids"`
}

func str(s string) *string {
	return &s
}
