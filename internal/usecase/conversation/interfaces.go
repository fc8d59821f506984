package conversation

import (
	"context"

	"github.com/futig/convai-admin/internal/entity"
)

type ConvAIConnector interface {
	ListConversations(ctx context.Context, q entity.ConversationQuery) (*entity.ConversationPage, error)
	GetConversation(ctx context.Context, conversationID string) (*entity.Conversation, error)
	GetConversationAudio(ctx context.Context, conversationID string) (*entity.ConversationAudio, error)
}

// AgentLister resolves agent display names. The agent use case serves it from its cache.
type AgentLister interface {
	ListAgents(ctx context.Context) ([]*entity.Agent, error)
}
