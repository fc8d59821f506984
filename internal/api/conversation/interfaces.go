package conversation

import (
	"context"

	"github.com/futig/convai-admin/internal/entity"
)

type ConversationUsecase interface {
	ListConversations(ctx context.Context, req entity.ListConversationsRequest) (*entity.ListConversationsResponse, error)
	GetConversation(ctx context.Context, conversationID string) (*entity.ConversationDetail, error)
	GetConversationAudio(ctx context.Context, conversationID string) (*entity.ConversationAudio, error)
	ExportTranscript(ctx context.Context, conversationID string, format entity.ResultFormat) (*entity.ExportedFile, error)
	GetAnalytics(ctx context.Context, days int) (*entity.AnalyticsResponse, error)
}
