package conversation

import (
	"fmt"
	"time"

	"github.com/futig/convai-admin/internal/entity"
)

const (
	unknownDate      = "Unknown date"
	defaultAgentName = "AI Agent"
	zeroDuration     = "0:00"
	unknownStatus    = "Unknown"
	unknownOutcome   = "unknown"

	callSuccessful = "success"
	callFailed     = "failure"

	dateLayout = "2006-01-02"
)

// formatDuration renders seconds as m:ss.
func formatDuration(secs int) string {
	if secs <= 0 {
		return zeroDuration
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func formatStartTime(unixSecs int64) string {
	if unixSecs <= 0 {
		return unknownDate
	}
	return time.Unix(unixSecs, 0).UTC().Format(time.RFC3339)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func toListItem(s *entity.ConversationSummary) *entity.ConversationListItem {
	return &entity.ConversationListItem{
		ID:       s.ConversationID,
		Date:     formatStartTime(s.StartTimeUnixSec),
		Agent:    orDefault(s.AgentName, defaultAgentName),
		AgentID:  s.AgentID,
		Messages: max(s.MessageCount, 0),
		Duration: formatDuration(s.CallDurationSecs),
		Status:   orDefault(s.Status, unknownStatus),
		Success:  orDefault(s.CallSuccessful, unknownOutcome),
	}
}

// speakerLabel maps vendor transcript roles to the labels operators see.
func speakerLabel(role string) string {
	if role == "agent" {
		return "AI"
	}
	return "User"
}
