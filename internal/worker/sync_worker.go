// Package worker replicates roster entries from SQLite to the spreadsheet
// backend. Messages arrive over AMQP; a periodic scan picks up anything a
// lost message left behind.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"billsplit/internal/amqp"
	"billsplit/internal/roster"
	"billsplit/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheet     roster.NameWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheet roster.NameWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PersonSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	person, err := w.storage.GetPerson(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get person from storage: %w", err)
	}

	if person.SyncStatus == storage.SyncDone {
		slog.DebugContext(ctx, "Person already synced, skipping", "id", person.ID)
		return nil
	}

	return w.syncPerson(ctx, person)
}

// ProcessPending replicates entries whose sync message was lost or whose
// previous attempt failed. Safe to call repeatedly.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending sync people: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending roster syncs", "count", len(pending))

	var failed int
	for i := range pending {
		if err := w.syncPerson(ctx, &pending[i]); err != nil {
			slog.ErrorContext(ctx, "Pending sync failed", "id", pending[i].ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pending syncs failed", failed, len(pending))
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker start.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	for {
		pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
		if err != nil {
			return fmt.Errorf("startup sync check: %w", err)
		}
		if len(pending) == 0 {
			return nil
		}
		if err := w.ProcessPending(ctx); err != nil {
			return err
		}
	}
}

func (w *SyncWorker) syncPerson(ctx context.Context, person *storage.Person) error {
	if _, err := w.sheet.Add(ctx, person.Name); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, person.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", person.ID, "error", markErr)
		}
		return fmt.Errorf("append person to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, person.ID); err != nil {
		return fmt.Errorf("mark person synced: %w", err)
	}

	slog.InfoContext(ctx, "Person replicated to sheet", "id", person.ID, "name", person.Name)
	return nil
}
