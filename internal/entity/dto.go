package entity

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ListConversationsRequest struct {
	Cursor    string
	PageSize  int
	AgentID   string
	AgentName string
}

// Normalize clamps the page size into [1, maxPageSize].
func (r *ListConversationsRequest) Normalize(defaultPageSize, maxPageSize int) {
	if r.PageSize <= 0 {
		r.PageSize = defaultPageSize
	}

	r.PageSize = min(r.PageSize, maxPageSize)
}

// ConversationListItem is a conversation summary shaped for the dashboard table.
type ConversationListItem struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Agent    string `json:"agent"`
	AgentID  string `json:"agent_id,omitempty"`
	Messages int    `json:"messages"`
	Duration string `json:"duration"`
	Status   string `json:"status"`
	Success  string `json:"success"`
}

type ListConversationsResponse struct {
	Conversations []*ConversationListItem `json:"conversations"`
	NextCursor    string                  `json:"next_cursor,omitempty"`
	HasMore       bool                    `json:"has_more"`
}

// ConversationDetail is the vendor conversation with a resolved agent display name.
type ConversationDetail struct {
	*Conversation
	Agent string `json:"agent"`
}

type AnalyticsDay struct {
	Date               string  `json:"date"`
	Conversations      int     `json:"conversations"`
	Successful         int     `json:"successful"`
	Failed             int     `json:"failed"`
	AvgDurationSeconds float64 `json:"avg_duration_secs"`
}

type AnalyticsResponse struct {
	Days               int             `json:"days"`
	TotalConversations int             `json:"total_conversations"`
	SuccessRate        float64         `json:"success_rate"`
	AvgDurationSeconds float64         `json:"avg_duration_secs"`
	Series             []*AnalyticsDay `json:"series"`
	// Truncated is set when the scan stopped at the page limit before reaching the cutoff.
	Truncated bool `json:"truncated"`
}

// AgentSettingsView merges vendor configuration with the stored settings row.
type AgentSettingsView struct {
	AgentID      string `json:"agent_id"`
	AgentName    string `json:"agent_name"`
	FirstMessage string `json:"first_message"`
	SystemPrompt string `json:"system_prompt"`
	WebsiteURL   string `json:"website_url"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// UpdateAgentSettingsRequest carries optional edits; nil means "leave unchanged".
type UpdateAgentSettingsRequest struct {
	FirstMessage *string `json:"first_message"`
	SystemPrompt *string `json:"system_prompt"`
	WebsiteURL   *string `json:"website_url"`
}

type ListChangesResponse struct {
	Changes []*ChangeLogEntry `json:"changes"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
