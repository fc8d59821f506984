package entity

import "encoding/json"

// ConversationSummary is one row of the vendor conversation listing.
type ConversationSummary struct {
	AgentID          string `json:"agent_id"`
	AgentName        string `json:"agent_name"`
	ConversationID   string `json:"conversation_id"`
	StartTimeUnixSec int64  `json:"start_time_unix_secs"`
	CallDurationSecs int    `json:"call_duration_secs"`
	MessageCount     int    `json:"message_count"`
	Status           string `json:"status"`
	CallSuccessful   string `json:"call_successful"`
}

type ConversationPage struct {
	Conversations []*ConversationSummary `json:"conversations"`
	NextCursor    string                 `json:"next_cursor"`
	HasMore       bool                   `json:"has_more"`
}

type ConversationQuery struct {
	Cursor   string
	PageSize int
	AgentID  string
}

type TranscriptMessage struct {
	Role                    string          `json:"role"`
	Message                 string          `json:"message"`
	TimeInCallSecs          int             `json:"time_in_call_secs"`
	ToolCalls               json.RawMessage `json:"tool_calls,omitempty"`
	ToolResults             json.RawMessage `json:"tool_results,omitempty"`
	Feedback                json.RawMessage `json:"feedback,omitempty"`
	ConversationTurnMetrics json.RawMessage `json:"conversation_turn_metrics,omitempty"`
}

type ConversationFeedback struct {
	OverallScore *float64 `json:"overall_score"`
	Likes        int      `json:"likes"`
	Dislikes     int      `json:"dislikes"`
}

type ConversationMetadata struct {
	StartTimeUnixSec int64                `json:"start_time_unix_secs"`
	CallDurationSecs int                  `json:"call_duration_secs"`
	Cost             float64              `json:"cost"`
	Feedback         ConversationFeedback `json:"feedback"`
}

type ConversationAnalysis struct {
	CallSuccessful    string `json:"call_successful"`
	TranscriptSummary string `json:"transcript_summary"`
}

type ConversationInitiation struct {
	ConversationConfigOverride struct {
		Agent *struct {
			Name string `json:"name"`
		} `json:"agent"`
	} `json:"conversation_config_override"`
}

// Conversation is the full vendor conversation document.
type Conversation struct {
	AgentID        string                  `json:"agent_id"`
	ConversationID string                  `json:"conversation_id"`
	Status         string                  `json:"status"`
	Transcript     []TranscriptMessage     `json:"transcript"`
	Metadata       ConversationMetadata    `json:"metadata"`
	Analysis       ConversationAnalysis    `json:"analysis"`
	Initiation     *ConversationInitiation `json:"conversation_initiation_client_data,omitempty"`
}

// OverrideAgentName returns the agent name set at conversation start, if any.
func (c *Conversation) OverrideAgentName() string {
	if c.Initiation == nil || c.Initiation.ConversationConfigOverride.Agent == nil {
		return ""
	}
	return c.Initiation.ConversationConfigOverride.Agent.Name
}

// ConversationAudio is the recorded call audio.
type ConversationAudio struct {
	Content     []byte
	ContentType string
}
