package worker

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"billsplit/internal/amqp"
	"billsplit/internal/storage"
)

type fakeSheet struct {
	names []string
	fail  bool
}

func (f *fakeSheet) Add(_ context.Context, name string) (string, error) {
	if f.fail {
		return "", errors.New("sheet unavailable")
	}
	f.names = append(f.names, name)
	return "row:" + strconv.Itoa(len(f.names)), nil
}

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHandleSyncMessage(t *testing.T) {
	repo := newTestRepo(t)
	sheet := &fakeSheet{}
	w := NewSyncWorker(repo, sheet, 10)
	ctx := context.Background()

	ref, err := repo.AddPerson(ctx, "Alice")
	if err != nil {
		t.Fatalf("AddPerson: %v", err)
	}
	id, _ := strconv.ParseInt(ref, 10, 64)

	if err := w.HandleSyncMessage(ctx, amqp.NewPersonSyncMessage(id)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if len(sheet.names) != 1 || sheet.names[0] != "Alice" {
		t.Fatalf("sheet = %v, want [Alice]", sheet.names)
	}

	// Redelivery of the same message must not append twice
	if err := w.HandleSyncMessage(ctx, amqp.NewPersonSyncMessage(id)); err != nil {
		t.Fatalf("HandleSyncMessage redelivery: %v", err)
	}
	if len(sheet.names) != 1 {
		t.Fatalf("sheet = %v, redelivery must be a no-op", sheet.names)
	}
}

func TestProcessPending(t *testing.T) {
	repo := newTestRepo(t)
	sheet := &fakeSheet{}
	w := NewSyncWorker(repo, sheet, 2)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := repo.AddPerson(ctx, name); err != nil {
			t.Fatalf("AddPerson(%s): %v", name, err)
		}
	}

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if len(sheet.names) != 3 {
		t.Fatalf("sheet = %v, want all three entries", sheet.names)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending entries, got %+v", pending)
	}
}

func TestSyncFailureMarksError(t *testing.T) {
	repo := newTestRepo(t)
	sheet := &fakeSheet{fail: true}
	w := NewSyncWorker(repo, sheet, 10)
	ctx := context.Background()

	ref, err := repo.AddPerson(ctx, "Alice")
	if err != nil {
		t.Fatalf("AddPerson: %v", err)
	}
	id, _ := strconv.ParseInt(ref, 10, 64)

	if err := w.ProcessPending(ctx); err == nil {
		t.Fatal("expected error when sheet append fails")
	}

	p, err := repo.GetPerson(ctx, id)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if p.SyncStatus != storage.SyncError {
		t.Fatalf("sync status = %s, want %s", p.SyncStatus, storage.SyncError)
	}
}
