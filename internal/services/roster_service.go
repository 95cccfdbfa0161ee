package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"billsplit/internal/amqp"
	"billsplit/internal/core"
	"billsplit/internal/storage"
)

// RosterService orchestrates roster writes across SQLite and AMQP: a new
// person is stored locally first, then a sync message is published for the
// worker to replicate the entry to the spreadsheet backend.
type RosterService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewRosterService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *RosterService {
	return &RosterService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Names implements roster.NameReader.
func (s *RosterService) Names(ctx context.Context) ([]string, error) {
	return s.storage.Names(ctx)
}

// Add implements roster.NameWriter. The SQLite write is authoritative; a
// failed publish only delays replication until the worker's periodic scan.
func (s *RosterService) Add(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return "", err
	}

	ref, err := s.storage.AddPerson(ctx, name)
	if err != nil {
		return "", fmt.Errorf("save person: %w", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse person ID", "ref", ref, "error", err)
		return ref, nil // SQLite save succeeded, return anyway
	}

	if err := s.publishSyncMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
		// Don't fail the request - the person is saved locally
	}

	return ref, nil
}

func (s *RosterService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishPersonSync(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *RosterService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close roster service: %v", errs)
	}

	return nil
}
