package repository

import (
	"encoding/json"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/repository/sqlc"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func toEntityAgentSettings(dbSettings *sqlc.AgentSetting) *entity.AgentSettings {
	settingsUUID := uuid.UUID(dbSettings.ID.Bytes)

	return &entity.AgentSettings{
		ID:           settingsUUID.String(),
		AgentID:      dbSettings.AgentID,
		FirstMessage: fromText(dbSettings.FirstMessage),
		SystemPrompt: fromText(dbSettings.SystemPrompt),
		WebsiteURL:   fromText(dbSettings.WebsiteUrl),
		CreatedAt:    dbSettings.CreatedAt.Time,
		UpdatedAt:    dbSettings.UpdatedAt.Time,
	}
}

func toEntityChangeLogEntry(dbEntry *sqlc.AgentChangeLog) *entity.ChangeLogEntry {
	entryUUID := uuid.UUID(dbEntry.ID.Bytes)

	entry := &entity.ChangeLogEntry{
		ID:         entryUUID.String(),
		AgentID:    dbEntry.AgentID,
		ActorEmail: dbEntry.ActorEmail,
		Action:     entity.ChangeAction(dbEntry.Action),
		CreatedAt:  dbEntry.CreatedAt.Time,
	}

	if len(dbEntry.Details) > 0 {
		// Unreadable details are dropped rather than failing the listing.
		_ = json.Unmarshal(dbEntry.Details, &entry.Details)
	}

	return entry
}

func toText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func fromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
