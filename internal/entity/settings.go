package entity

import "time"

// AgentSettings is the locally stored copy of an agent's editable settings.
type AgentSettings struct {
	ID           string    `json:"id"`
	AgentID      string    `json:"agent_id"`
	FirstMessage *string   `json:"first_message"`
	SystemPrompt *string   `json:"system_prompt"`
	WebsiteURL   *string   `json:"website_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChangeAction names an operator edit recorded in the change log.
type ChangeAction string

const (
	ChangeSettingsUpdated  ChangeAction = "settings_updated"
	ChangeKnowledgeAdded   ChangeAction = "knowledge_added"
	ChangeKnowledgeRemoved ChangeAction = "knowledge_removed"
)

type ChangeLogEntry struct {
	ID         string         `json:"id"`
	AgentID    string         `json:"agent_id"`
	ActorEmail string         `json:"actor_email"`
	Action     ChangeAction   `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
