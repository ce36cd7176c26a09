package shopping

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dukerupert/nomadcloset/internal/model"
)

// Toggle sets the taken flag of one shopping item. Prev is the flag the item
// had before, which is what Inverse restores.
type Toggle struct {
	ItemID string `json:"id"`
	Taken  bool   `json:"taken"`
	Prev   bool   `json:"prev"`
}

// NewToggle sets item's taken flag, remembering its current one.
func NewToggle(item model.ShoppingItem, taken bool) Toggle {
	return Toggle{ItemID: item.ID, Taken: taken, Prev: item.IsTaken}
}

// Inverse is the toggle that undoes t.
func (t Toggle) Inverse() Toggle {
	return Toggle{ItemID: t.ItemID, Taken: t.Prev, Prev: t.Taken}
}

// Apply returns a copy of items with t applied and reports whether the item
// was found.
func Apply(items []model.ShoppingItem, t Toggle) ([]model.ShoppingItem, bool) {
	out := slices.Clone(items)
	for i := range out {
		if out[i].ID == t.ItemID {
			out[i].IsTaken = t.Taken
			return out, true
		}
	}
	return out, false
}

// TakenWriter persists the taken flag.
type TakenWriter interface {
	SetTaken(ctx context.Context, userID, itemID string, taken bool) error
}

// FailureFunc receives the undo for a toggle whose write failed.
type FailureFunc func(userID string, undo Toggle, err error)

// Toggler performs taken writes without making the caller wait. It is the one
// write path whose result is observed only to compensate on failure.
type Toggler struct {
	writer    TakenWriter
	onFailure FailureFunc
	timeout   time.Duration
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func NewToggler(writer TakenWriter, timeout time.Duration, logger *slog.Logger, onFailure FailureFunc) *Toggler {
	if onFailure == nil {
		onFailure = func(string, Toggle, error) {}
	}
	return &Toggler{
		writer:    writer,
		onFailure: onFailure,
		timeout:   timeout,
		logger:    logger.With("component", "toggler"),
	}
}

// Submit starts the write and returns immediately. ctx supplies values only;
// its cancellation does not stop the write.
func (t *Toggler) Submit(ctx context.Context, userID string, cmd Toggle) {
	ctx = context.WithoutCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		if err := t.writer.SetTaken(ctx, userID, cmd.ItemID, cmd.Taken); err != nil {
			t.logger.Warn("taken write failed, reverting", "item_id", cmd.ItemID, "taken", cmd.Taken, "error", err)
			t.onFailure(userID, cmd.Inverse(), err)
		}
	}()
}

// Wait blocks until in-flight writes finish or ctx is done.
func (t *Toggler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
