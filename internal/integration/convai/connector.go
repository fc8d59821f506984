package convai

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/integration/common"
	"github.com/futig/convai-admin/internal/pkg/retry"
	pkghttp "github.com/futig/convai-admin/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	apiKeyHeader = "xi-api-key"

	conversationsEndpoint = "/v1/convai/conversations"
	agentsEndpoint        = "/v1/convai/agents"
	knowledgeBaseEndpoint = "/v1/convai/knowledge-base"
)

// Connector talks to the conversational-AI platform's /v1/convai API.
type Connector struct {
	config    config.ConvAIConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ConvAIConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewVendorConnector("convai", cfg.HTTPClientConfig, common.VendorAuth{Header: apiKeyHeader, Value: cfg.APIKey}, logger),
		config:    cfg,
		logger:    logger,
	}
}

// ListConversations returns one page of conversations, newest first.
// GET /v1/convai/conversations?cursor=&page_size=&agent_id=
func (c *Connector) ListConversations(ctx context.Context, q entity.ConversationQuery) (*entity.ConversationPage, error) {
	query := url.Values{
		"cursor":   {q.Cursor},
		"agent_id": {q.AgentID},
	}
	if q.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(q.PageSize))
	}

	ctxzap.Debug(ctx, "listing conversations",
		zap.String("cursor", q.Cursor),
		zap.Int("page_size", q.PageSize),
	)

	var page entity.ConversationPage
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, conversationsEndpoint, nil, &page, pkghttp.WithQuery(query))
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	if page.Conversations == nil {
		page.Conversations = []*entity.ConversationSummary{}
	}

	return &page, nil
}

// GetConversation returns the full conversation with transcript and analysis.
func (c *Connector) GetConversation(ctx context.Context, conversationID string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, conversationsEndpoint+"/"+url.PathEscape(conversationID), nil, &conv)
	})
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", mapNotFound(err, entity.ErrConversationNotFound))
	}

	return &conv, nil
}

// GetConversationAudio downloads the recorded call audio.
func (c *Connector) GetConversationAudio(ctx context.Context, conversationID string) (*entity.ConversationAudio, error) {
	endpoint := conversationsEndpoint + "/" + url.PathEscape(conversationID) + "/audio"

	var raw *pkghttp.RawResponse
	err := c.withRetry(ctx, func() error {
		var err error
		raw, err = c.connector.DoRawRequest(ctx, http.MethodGet, endpoint)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get conversation audio: %w", mapNotFound(err, entity.ErrAudioNotFound))
	}

	ctxzap.Debug(ctx, "conversation audio downloaded", zap.Int("size", len(raw.Body)))

	contentType := raw.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	return &entity.ConversationAudio{Content: raw.Body, ContentType: contentType}, nil
}

// ListAgents returns every agent in the workspace.
func (c *Connector) ListAgents(ctx context.Context) ([]*entity.Agent, error) {
	var resp entity.ListAgentsResponse
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, agentsEndpoint, nil, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	ctxzap.Debug(ctx, "agents listed", zap.Int("count", len(resp.Agents)))
	return resp.Agents, nil
}

func (c *Connector) GetAgent(ctx context.Context, agentID string) (*entity.AgentDetail, error) {
	var agent entity.AgentDetail
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, agentsEndpoint+"/"+url.PathEscape(agentID), nil, &agent)
	})
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", mapNotFound(err, entity.ErrAgentNotFound))
	}

	return &agent, nil
}

// UpdateAgent sends only the fields set in patch.
// PATCH /v1/convai/agents/{agent_id}
func (c *Connector) UpdateAgent(ctx context.Context, agentID string, patch entity.AgentPatch) (*entity.AgentDetail, error) {
	body := buildAgentPatchBody(patch)

	ctxzap.Info(ctx, "patching agent configuration",
		zap.String("agent_id", agentID),
		zap.Bool("first_message", patch.FirstMessage != nil),
		zap.Bool("prompt", patch.Prompt != nil),
		zap.Bool("knowledge_base", patch.SetKnowledgeBase),
	)

	var agent entity.AgentDetail
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodPatch, agentsEndpoint+"/"+url.PathEscape(agentID), body, &agent)
	})
	if err != nil {
		return nil, fmt.Errorf("update agent: %w", mapNotFound(err, entity.ErrAgentNotFound))
	}

	return &agent, nil
}

func buildAgentPatchBody(patch entity.AgentPatch) map[string]any {
	prompt := map[string]any{}
	if patch.Prompt != nil {
		prompt["prompt"] = *patch.Prompt
	}
	if patch.SetKnowledgeBase {
		kb := patch.KnowledgeBase
		if kb == nil {
			kb = []entity.KnowledgeBaseLocator{}
		}
		prompt["knowledge_base"] = kb
	}

	agent := map[string]any{}
	if patch.FirstMessage != nil {
		agent["first_message"] = *patch.FirstMessage
	}
	if len(prompt) > 0 {
		agent["prompt"] = prompt
	}

	return map[string]any{
		"conversation_config": map[string]any{
			"agent": agent,
		},
	}
}

type createDocumentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Document creation is not retried: the vendor would store a duplicate.

// CreateKnowledgeBaseURL asks the vendor to scrape url into a new document.
func (c *Connector) CreateKnowledgeBaseURL(ctx context.Context, docURL, name string) (*entity.KnowledgeBaseDocument, error) {
	req := map[string]string{"url": docURL}
	if name != "" {
		req["name"] = name
	}

	var resp createDocumentResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, knowledgeBaseEndpoint+"/url", req, &resp); err != nil {
		return nil, fmt.Errorf("create url document: %w", err)
	}

	ctxzap.Info(ctx, "knowledge base url document created", zap.String("document_id", resp.ID))
	return &entity.KnowledgeBaseDocument{ID: resp.ID, Name: resp.Name, Type: entity.KnowledgeItemURL, URL: docURL}, nil
}

func (c *Connector) CreateKnowledgeBaseText(ctx context.Context, text, name string) (*entity.KnowledgeBaseDocument, error) {
	req := map[string]string{"text": text}
	if name != "" {
		req["name"] = name
	}

	var resp createDocumentResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, knowledgeBaseEndpoint+"/text", req, &resp); err != nil {
		return nil, fmt.Errorf("create text document: %w", err)
	}

	ctxzap.Info(ctx, "knowledge base text document created", zap.String("document_id", resp.ID))
	return &entity.KnowledgeBaseDocument{ID: resp.ID, Name: resp.Name, Type: entity.KnowledgeItemText}, nil
}

// CreateKnowledgeBaseFile uploads a document as multipart/form-data.
func (c *Connector) CreateKnowledgeBaseFile(ctx context.Context, filename string, content []byte, name string) (*entity.KnowledgeBaseDocument, error) {
	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		if name != "" {
			return writer.WriteField("name", name)
		}
		return nil
	}

	var resp createDocumentResponse
	if err := c.connector.DoMultipartRequest(ctx, http.MethodPost, knowledgeBaseEndpoint+"/file", prepareBody, &resp); err != nil {
		return nil, fmt.Errorf("create file document: %w", err)
	}

	ctxzap.Info(ctx, "knowledge base file document created",
		zap.String("document_id", resp.ID),
		zap.String("filename", filename),
		zap.Int("size", len(content)),
	)
	return &entity.KnowledgeBaseDocument{ID: resp.ID, Name: resp.Name, Type: entity.KnowledgeItemFile}, nil
}

func (c *Connector) GetKnowledgeBaseDocument(ctx context.Context, documentID string) (*entity.KnowledgeBaseDocument, error) {
	var doc entity.KnowledgeBaseDocument
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, knowledgeBaseEndpoint+"/"+url.PathEscape(documentID), nil, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("get knowledge base document: %w", mapNotFound(err, entity.ErrKnowledgeItemNotFound))
	}

	return &doc, nil
}

func (c *Connector) DeleteKnowledgeBaseDocument(ctx context.Context, documentID string) error {
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodDelete, knowledgeBaseEndpoint+"/"+url.PathEscape(documentID), nil, nil)
	})
	if err != nil {
		return fmt.Errorf("delete knowledge base document: %w", mapNotFound(err, entity.ErrKnowledgeItemNotFound))
	}

	ctxzap.Info(ctx, "knowledge base document deleted", zap.String("document_id", documentID))
	return nil
}

func (c *Connector) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, c.config.Retry, pkghttp.IsTransient, fn)
}

func mapNotFound(err error, notFound error) error {
	if pkghttp.StatusCode(err) == http.StatusNotFound {
		return errors.Join(notFound, err)
	}
	return err
}
