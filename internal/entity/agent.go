package entity

// Agent is a conversational agent as listed by the vendor.
type Agent struct {
	AgentID          string `json:"agent_id"`
	Name             string `json:"name"`
	CreatedAtUnixSec int64  `json:"created_at_unix_secs,omitempty"`
}

// AgentDetail is the subset of the vendor agent document the dashboard edits.
type AgentDetail struct {
	AgentID            string             `json:"agent_id"`
	Name               string             `json:"name"`
	ConversationConfig ConversationConfig `json:"conversation_config"`
}

type ConversationConfig struct {
	Agent AgentConfig `json:"agent"`
}

type AgentConfig struct {
	FirstMessage string       `json:"first_message"`
	Language     string       `json:"language,omitempty"`
	Prompt       PromptConfig `json:"prompt"`
}

type PromptConfig struct {
	Prompt        string                 `json:"prompt"`
	LLM           string                 `json:"llm,omitempty"`
	KnowledgeBase []KnowledgeBaseLocator `json:"knowledge_base"`
}

// AgentPatch is a partial agent update. Nil fields are left untouched by the vendor.
type AgentPatch struct {
	FirstMessage  *string
	Prompt        *string
	KnowledgeBase []KnowledgeBaseLocator
	// SetKnowledgeBase distinguishes "replace with empty list" from "leave alone".
	SetKnowledgeBase bool
}

func (p AgentPatch) IsEmpty() bool {
	return p.FirstMessage == nil && p.Prompt == nil && !p.SetKnowledgeBase
}

type ListAgentsResponse struct {
	Agents []*Agent `json:"agents"`
}
