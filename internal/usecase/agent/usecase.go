package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/validator"
	"github.com/futig/convai-admin/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	// DefaultAgentAlias is replaced with the configured default agent ID.
	DefaultAgentAlias = "default"

	agentsCacheKey      = "agents"
	defaultChangesLimit = 50
	maxChangesLimit     = 200
)

// AgentUsecase implements agent configuration and knowledge-base management
type AgentUsecase struct {
	connector      ConvAIConnector
	settingsRepo   repository.AgentSettingsRepository
	changeLogRepo  repository.ChangeLogRepository
	notifier       Notifier
	validator      *validator.Validator
	agents         *cache.Cache
	defaultAgentID string
	logger         *zap.Logger
}

func NewUsecase(
	connector ConvAIConnector,
	settingsRepo repository.AgentSettingsRepository,
	changeLogRepo repository.ChangeLogRepository,
	notifier Notifier,
	validator *validator.Validator,
	cacheCfg config.CacheConfig,
	defaultAgentID string,
	logger *zap.Logger,
) *AgentUsecase {
	return &AgentUsecase{
		connector:      connector,
		settingsRepo:   settingsRepo,
		changeLogRepo:  changeLogRepo,
		notifier:       notifier,
		validator:      validator,
		agents:         cache.New(cacheCfg.AgentsTTL, cacheCfg.CleanupEvery),
		defaultAgentID: defaultAgentID,
		logger:         logger,
	}
}

// ResolveAgentID maps the "default" alias to the configured agent.
func (uc *AgentUsecase) ResolveAgentID(agentID string) (string, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == DefaultAgentAlias {
		agentID = uc.defaultAgentID
	}
	if agentID == "" {
		return "", fmt.Errorf("%w: agent id", entity.ErrMissingField)
	}
	return agentID, nil
}

// ListAgents returns the vendor agent list, cached for the configured TTL.
func (uc *AgentUsecase) ListAgents(ctx context.Context) ([]*entity.Agent, error) {
	if cached, ok := uc.agents.Get(agentsCacheKey); ok {
		return cached.([]*entity.Agent), nil
	}

	agents, err := uc.connector.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	if agents == nil {
		agents = []*entity.Agent{}
	}

	uc.agents.SetDefault(agentsCacheKey, agents)
	return agents, nil
}

func (uc *AgentUsecase) ListAgentNames(ctx context.Context) ([]string, error) {
	agents, err := uc.ListAgents(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(agents))
	for _, a := range agents {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names, nil
}

// GetAgentSettings merges the vendor configuration with the stored settings row.
// Vendor values win for the first message and prompt when set.
func (uc *AgentUsecase) GetAgentSettings(ctx context.Context, agentID string) (*entity.AgentSettingsView, error) {
	agentID, err := uc.ResolveAgentID(agentID)
	if err != nil {
		return nil, err
	}

	agent, err := uc.connector.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	stored, err := uc.settingsRepo.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}

	return mergeSettings(agent, stored), nil
}

// UpdateAgentSettings attaches a changed website URL to the knowledge base, pushes first
// message and prompt edits to the vendor, and stores the row.
func (uc *AgentUsecase) UpdateAgentSettings(
	ctx context.Context,
	agentID string,
	actor *entity.User,
	req entity.UpdateAgentSettingsRequest,
) (*entity.AgentSettingsView, error) {
	agentID, err := uc.ResolveAgentID(agentID)
	if err != nil {
		return nil, err
	}

	if err := uc.validator.ValidateUpdateSettings(&req); err != nil {
		return nil, err
	}

	stored, err := uc.settingsRepo.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}

	websiteURL := ""
	if req.WebsiteURL != nil {
		websiteURL = strings.TrimSpace(*req.WebsiteURL)
		req.WebsiteURL = &websiteURL
	}

	// The attach runs first so a failure leaves the vendor agent untouched.
	if websiteURL != "" && websiteChanged(stored, websiteURL) {
		_, err := uc.attachDocument(ctx, agentID, actor, &entity.AddKnowledgeItemRequest{
			Type: entity.KnowledgeItemURL,
			URL:  websiteURL,
		})
		if err != nil && !isAlreadyAttached(err) {
			return nil, fmt.Errorf("add website to knowledge base: %w", err)
		}
	}

	patch := entity.AgentPatch{FirstMessage: req.FirstMessage, Prompt: req.SystemPrompt}
	var agent *entity.AgentDetail
	if !patch.IsEmpty() {
		agent, err = uc.connector.UpdateAgent(ctx, agentID, patch)
		if err != nil {
			return nil, err
		}
		ctxzap.Info(ctx, "agent configuration updated", zap.String("agent_id", agentID))
	}

	saved, err := uc.settingsRepo.Upsert(ctx, applySettings(agentID, stored, req))
	if err != nil {
		return nil, err
	}

	if agent == nil {
		agent, err = uc.connector.GetAgent(ctx, agentID)
		if err != nil {
			return nil, err
		}
	}

	uc.record(ctx, agentID, actor, entity.ChangeSettingsUpdated, map[string]any{
		"first_message": req.FirstMessage != nil,
		"system_prompt": req.SystemPrompt != nil,
		"website_url":   websiteURL,
	})

	return mergeSettings(agent, saved), nil
}

// ListChangeLog returns the newest edits first.
func (uc *AgentUsecase) ListChangeLog(ctx context.Context, agentID string, limit int) ([]*entity.ChangeLogEntry, error) {
	agentID, err := uc.ResolveAgentID(agentID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultChangesLimit
	}
	limit = min(limit, maxChangesLimit)

	return uc.changeLogRepo.List(ctx, agentID, limit)
}

// record writes the audit entry and notifies operators. Neither may fail the edit
// that already reached the vendor.
func (uc *AgentUsecase) record(
	ctx context.Context,
	agentID string,
	actor *entity.User,
	action entity.ChangeAction,
	details map[string]any,
) {
	actorEmail := "unknown"
	if actor != nil && actor.Email != "" {
		actorEmail = actor.Email
	}

	entry := entity.ChangeLogEntry{
		AgentID:    agentID,
		ActorEmail: actorEmail,
		Action:     action,
		Details:    details,
	}
	if _, err := uc.changeLogRepo.Add(ctx, entry); err != nil {
		ctxzap.Error(ctx, "failed to record agent change",
			zap.Error(err),
			zap.String("action", string(action)),
		)
	}

	uc.notifier.Notify(ctx, describeChange(agentID, actorEmail, action, details))
}

func describeChange(agentID, actorEmail string, action entity.ChangeAction, details map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s changed agent %s: ", actorEmail, agentID)

	switch action {
	case entity.ChangeSettingsUpdated:
		b.WriteString("settings updated")
	case entity.ChangeKnowledgeAdded:
		fmt.Fprintf(&b, "knowledge base item %q added", details["name"])
	case entity.ChangeKnowledgeRemoved:
		fmt.Fprintf(&b, "knowledge base item %q removed", details["name"])
	default:
		b.WriteString(string(action))
	}

	return b.String()
}

func mergeSettings(agent *entity.AgentDetail, stored *entity.AgentSettings) *entity.AgentSettingsView {
	view := &entity.AgentSettingsView{
		AgentID:      agent.AgentID,
		AgentName:    agent.Name,
		FirstMessage: agent.ConversationConfig.Agent.FirstMessage,
		SystemPrompt: agent.ConversationConfig.Agent.Prompt.Prompt,
	}

	if stored == nil {
		return view
	}

	if view.AgentID == "" {
		view.AgentID = stored.AgentID
	}
	if view.FirstMessage == "" && stored.FirstMessage != nil {
		view.FirstMessage = *stored.FirstMessage
	}
	if view.SystemPrompt == "" && stored.SystemPrompt != nil {
		view.SystemPrompt = *stored.SystemPrompt
	}
	if stored.WebsiteURL != nil {
		view.WebsiteURL = *stored.WebsiteURL
	}
	if !stored.UpdatedAt.IsZero() {
		view.UpdatedAt = stored.UpdatedAt.UTC().Format(time.RFC3339)
	}

	return view
}

// applySettings overlays the provided fields of req on the stored row.
func applySettings(agentID string, stored *entity.AgentSettings, req entity.UpdateAgentSettingsRequest) entity.AgentSettings {
	row := entity.AgentSettings{AgentID: agentID}
	if stored != nil {
		row = *stored
	}

	if req.FirstMessage != nil {
		row.FirstMessage = req.FirstMessage
	}
	if req.SystemPrompt != nil {
		row.SystemPrompt = req.SystemPrompt
	}
	if req.WebsiteURL != nil {
		row.WebsiteURL = req.WebsiteURL
	}

	return row
}

func websiteChanged(stored *entity.AgentSettings, websiteURL string) bool {
	return stored == nil || stored.WebsiteURL == nil || *stored.WebsiteURL != websiteURL
}
