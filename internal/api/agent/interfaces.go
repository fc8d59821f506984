package agent

import (
	"context"

	"github.com/futig/convai-admin/internal/entity"
)

type AgentUsecase interface {
	ListAgents(ctx context.Context) ([]*entity.Agent, error)
	GetAgentSettings(ctx context.Context, agentID string) (*entity.AgentSettingsView, error)
	UpdateAgentSettings(
		ctx context.Context,
		agentID string,
		actor *entity.User,
		req entity.UpdateAgentSettingsRequest,
	) (*entity.AgentSettingsView, error)
	ListKnowledgeBase(ctx context.Context, agentID string) (*entity.ListKnowledgeItemsResponse, error)
	AddKnowledgeBaseItem(
		ctx context.Context,
		agentID string,
		actor *entity.User,
		req *entity.AddKnowledgeItemRequest,
	) (*entity.KnowledgeItem, error)
	DeleteKnowledgeBaseItem(ctx context.Context, agentID string, actor *entity.User, itemID string) error
	ListChangeLog(ctx context.Context, agentID string, limit int) ([]*entity.ChangeLogEntry, error)
}
