package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/repository/sqlc"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// AgentSettingsRepository defines the interface for agent settings persistence
type AgentSettingsRepository interface {
	Get(ctx context.Context, agentID string) (*entity.AgentSettings, error)
	Upsert(ctx context.Context, settings entity.AgentSettings) (*entity.AgentSettings, error)
}

var _ AgentSettingsRepository = &AgentSettingsPostgres{}

// AgentSettingsPostgres implements AgentSettingsRepository using PostgreSQL with sqlc
type AgentSettingsPostgres struct {
	queries *sqlc.Queries
}

func NewAgentSettingsPostgres(db sqlc.DBTX) *AgentSettingsPostgres {
	return &AgentSettingsPostgres{
		queries: sqlc.New(db),
	}
}

// Get returns nil, nil when no settings row exists for agentID.
func (r *AgentSettingsPostgres) Get(ctx context.Context, agentID string) (*entity.AgentSettings, error) {
	result, err := r.queries.GetAgentSettings(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent settings: %w: %w", entity.ErrStorage, err)
	}

	return toEntityAgentSettings(&result), nil
}

// Upsert inserts the row or overwrites the stored one for the same agent.
// Nil and empty values are stored as NULL.
func (r *AgentSettingsPostgres) Upsert(ctx context.Context, settings entity.AgentSettings) (*entity.AgentSettings, error) {
	id := uuid.New()
	if settings.ID != "" {
		parsed, err := uuid.Parse(settings.ID)
		if err != nil {
			return nil, fmt.Errorf("parse settings ID: %w", err)
		}
		id = parsed
	}

	result, err := r.queries.UpsertAgentSettings(ctx, sqlc.UpsertAgentSettingsParams{
		ID:           pgtype.UUID{Bytes: id, Valid: true},
		AgentID:      settings.AgentID,
		FirstMessage: toText(settings.FirstMessage),
		SystemPrompt: toText(settings.SystemPrompt),
		WebsiteUrl:   toText(settings.WebsiteURL),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert agent settings: %w: %w", entity.ErrStorage, err)
	}

	return toEntityAgentSettings(&result), nil
}
