package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/repository/sqlc"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ChangeLogRepository stores the audit trail of operator edits
type ChangeLogRepository interface {
	Add(ctx context.Context, entry entity.ChangeLogEntry) (*entity.ChangeLogEntry, error)
	List(ctx context.Context, agentID string, limit int) ([]*entity.ChangeLogEntry, error)
}

var _ ChangeLogRepository = &ChangeLogPostgres{}

type ChangeLogPostgres struct {
	queries *sqlc.Queries
}

func NewChangeLogPostgres(db sqlc.DBTX) *ChangeLogPostgres {
	return &ChangeLogPostgres{
		queries: sqlc.New(db),
	}
}

func (r *ChangeLogPostgres) Add(ctx context.Context, entry entity.ChangeLogEntry) (*entity.ChangeLogEntry, error) {
	var details []byte
	if len(entry.Details) > 0 {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return nil, fmt.Errorf("marshal change details: %w", err)
		}
	}

	result, err := r.queries.CreateChangeLogEntry(ctx, sqlc.CreateChangeLogEntryParams{
		ID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
		AgentID:    entry.AgentID,
		ActorEmail: entry.ActorEmail,
		Action:     string(entry.Action),
		Details:    details,
	})
	if err != nil {
		return nil, fmt.Errorf("create change log entry: %w: %w", entity.ErrStorage, err)
	}

	return toEntityChangeLogEntry(&result), nil
}

// List returns the newest entries first.
func (r *ChangeLogPostgres) List(ctx context.Context, agentID string, limit int) ([]*entity.ChangeLogEntry, error) {
	results, err := r.queries.ListChangeLogEntries(ctx, sqlc.ListChangeLogEntriesParams{
		AgentID: agentID,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list change log entries: %w: %w", entity.ErrStorage, err)
	}

	entries := make([]*entity.ChangeLogEntry, 0, len(results))
	for _, result := range results {
		entries = append(entries, toEntityChangeLogEntry(&result))
	}

	return entries, nil
}
