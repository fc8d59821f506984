package agent

import (
	"context"

	"github.com/futig/convai-admin/internal/entity"
)

type ConvAIConnector interface {
	ListAgents(ctx context.Context) ([]*entity.Agent, error)
	GetAgent(ctx context.Context, agentID string) (*entity.AgentDetail, error)
	UpdateAgent(ctx context.Context, agentID string, patch entity.AgentPatch) (*entity.AgentDetail, error)

	CreateKnowledgeBaseURL(ctx context.Context, docURL, name string) (*entity.KnowledgeBaseDocument, error)
	CreateKnowledgeBaseText(ctx context.Context, text, name string) (*entity.KnowledgeBaseDocument, error)
	CreateKnowledgeBaseFile(ctx context.Context, filename string, content []byte, name string) (*entity.KnowledgeBaseDocument, error)
	GetKnowledgeBaseDocument(ctx context.Context, documentID string) (*entity.KnowledgeBaseDocument, error)
	DeleteKnowledgeBaseDocument(ctx context.Context, documentID string) error
}

type Notifier interface {
	Notify(ctx context.Context, text string)
}
