package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// Sync statuses for roster entries replicated to the spreadsheet backend.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// Person is a roster entry as stored in SQLite.
type Person struct {
	ID         int64
	Name       string
	SyncStatus string
	CreatedAt  time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Names implements roster.NameReader. Rows come back in insertion order,
// which is the order the picker shows them in.
func (r *SQLiteRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM people ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return names, nil
}

// AddPerson inserts a roster entry in pending sync state and returns its row
// reference.
func (r *SQLiteRepository) AddPerson(ctx context.Context, name string) (string, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO people (name, sync_status) VALUES (?, ?)`, name, SyncPending)
	if err != nil {
		return "", fmt.Errorf("insert person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("person insert id: %w", err)
	}

	slog.InfoContext(ctx, "Person saved to SQLite", "id", id, "name", name)
	return strconv.FormatInt(id, 10), nil
}

// GetPerson retrieves a single roster entry by ID.
func (r *SQLiteRepository) GetPerson(ctx context.Context, id int64) (*Person, error) {
	var p Person
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, sync_status, created_at FROM people WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.SyncStatus, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get person by id: %w", err)
	}
	return &p, nil
}

// GetPendingSync returns roster entries not yet replicated to the sheet.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, sync_status, created_at FROM people
		 WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.SyncStatus, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending people: %w", err)
	}
	return people, nil
}

// MarkSynced marks a roster entry as successfully replicated.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncDone); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Person marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a roster entry as having failed replication.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Person marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE people SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update sync status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sync status rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person %d not found", id)
	}
	return nil
}
