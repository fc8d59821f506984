package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/logger"
	"github.com/futig/convai-admin/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	textNameLength       = 50
	documentFetchWorkers = 4
)

var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9]*(\s[^>]*)?/?>`)

// ListKnowledgeBase returns the documents the agent's prompt references. The vendor
// reports text documents as files, so non-URL items are classified by their content.
func (uc *AgentUsecase) ListKnowledgeBase(ctx context.Context, agentID string) (*entity.ListKnowledgeItemsResponse, error) {
	agentID, err := uc.ResolveAgentID(agentID)
	if err != nil {
		return nil, err
	}

	agent, err := uc.connector.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	locators := agent.ConversationConfig.Agent.Prompt.KnowledgeBase
	items := make([]*entity.KnowledgeItem, len(locators))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(documentFetchWorkers)

	for i, loc := range locators {
		items[i] = &entity.KnowledgeItem{ID: loc.ID, Name: loc.Name, Type: loc.Type}
		if loc.Type == entity.KnowledgeItemURL {
			continue
		}

		item := items[i]
		g.Go(func() error {
			doc, err := uc.connector.GetKnowledgeBaseDocument(gctx, item.ID)
			if err != nil {
				ctxzap.Warn(ctx, "failed to fetch knowledge base document, keeping vendor type",
					zap.String("document_id", item.ID),
					zap.Error(err),
				)
				return nil
			}
			item.Type = classifyDocument(doc)
			item.URL = doc.URL
			return nil
		})
	}

	// Workers only log failures.
	_ = g.Wait()

	return &entity.ListKnowledgeItemsResponse{Items: items}, nil
}

// classifyDocument tells text snippets from uploaded files by looking for HTML markup in
// the extracted content.
func classifyDocument(doc *entity.KnowledgeBaseDocument) entity.KnowledgeItemType {
	if doc.Type == entity.KnowledgeItemURL {
		return entity.KnowledgeItemURL
	}
	if htmlTagPattern.MatchString(doc.ExtractedInnerHTML) {
		return entity.KnowledgeItemFile
	}
	return entity.KnowledgeItemText
}

// AddKnowledgeBaseItem creates the document and attaches it to the agent.
func (uc *AgentUsecase) AddKnowledgeBaseItem(
	ctx context.Context,
	agentID string,
	actor *entity.User,
	req *entity.AddKnowledgeItemRequest,
) (*entity.KnowledgeItem, error) {
	agentID, err := uc.ResolveAgentID(agentID)
	if err != nil {
		return nil, err
	}

	return uc.attachDocument(ctx, agentID, actor, req)
}

// attachDocument validates req, creates the vendor document and patches the agent to
// reference it. The document is deleted again when the patch fails.
func (uc *AgentUsecase) attachDocument(
	ctx context.Context,
	agentID string,
	actor *entity.User,
	req *entity.AddKnowledgeItemRequest,
) (*entity.KnowledgeItem, error) {
	ctx = logger.AddFields(ctx, zap.String("agent_id", agentID), zap.String("item_type", string(req.Type)))

	req.Name = strings.TrimSpace(req.Name)
	if err := uc.validator.ValidateAddKnowledgeItem(req); err != nil {
		return nil, err
	}

	doc, err := uc.createDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	agent, err := uc.connector.GetAgent(ctx, agentID)
	if err != nil {
		uc.discardDocument(ctx, doc.ID)
		return nil, err
	}

	current := agent.ConversationConfig.Agent.Prompt.KnowledgeBase
	for _, loc := range current {
		if loc.ID == doc.ID {
			return nil, fmt.Errorf("%w: %s", entity.ErrKnowledgeItemExists, doc.ID)
		}
	}

	locator := entity.KnowledgeBaseLocator{Type: documentLocatorType(req.Type), Name: doc.Name, ID: doc.ID}
	kb := make([]entity.KnowledgeBaseLocator, 0, len(current)+1)
	kb = append(kb, current...)
	kb = append(kb, locator)

	if _, err := uc.connector.UpdateAgent(ctx, agentID, entity.AgentPatch{KnowledgeBase: kb, SetKnowledgeBase: true}); err != nil {
		uc.discardDocument(ctx, doc.ID)
		return nil, fmt.Errorf("attach document to agent: %w", err)
	}

	ctxzap.Info(ctx, "knowledge base item added", zap.String("document_id", doc.ID))

	item := &entity.KnowledgeItem{ID: doc.ID, Name: doc.Name, Type: req.Type, URL: req.URL}
	uc.record(ctx, agentID, actor, entity.ChangeKnowledgeAdded, map[string]any{
		"document_id": doc.ID,
		"name":        doc.Name,
		"type":        string(req.Type),
	})

	return item, nil
}

func (uc *AgentUsecase) createDocument(ctx context.Context, req *entity.AddKnowledgeItemRequest) (*entity.KnowledgeBaseDocument, error) {
	var (
		doc *entity.KnowledgeBaseDocument
		err error
	)

	switch req.Type {
	case entity.KnowledgeItemURL:
		doc, err = uc.connector.CreateKnowledgeBaseURL(ctx, strings.TrimSpace(req.URL), req.Name)
	case entity.KnowledgeItemText:
		name := req.Name
		if name == "" {
			name = defaultTextName(req.Text)
		}
		doc, err = uc.connector.CreateKnowledgeBaseText(ctx, req.Text, name)
	case entity.KnowledgeItemFile:
		filename := validator.SanitizeFilename(req.Filename)
		doc, err = uc.connector.CreateKnowledgeBaseFile(ctx, filename, req.Content, req.Name)
	default:
		return nil, fmt.Errorf("%w: type", entity.ErrInvalidParameter)
	}
	if err != nil {
		return nil, fmt.Errorf("create knowledge base document: %w", err)
	}

	if doc.Name == "" {
		doc.Name = req.Name
	}
	return doc, nil
}

// discardDocument removes a document that could not be attached.
func (uc *AgentUsecase) discardDocument(ctx context.Context, documentID string) {
	if err := uc.connector.DeleteKnowledgeBaseDocument(logger.Detach(ctx), documentID); err != nil {
		ctxzap.Error(ctx, "failed to delete orphaned knowledge base document",
			zap.String("document_id", documentID),
			zap.Error(err),
		)
	}
}

// DeleteKnowledgeBaseItem detaches the document from the agent and then deletes it.
func (uc *AgentUsecase) DeleteKnowledgeBaseItem(ctx context.Context, agentID string, actor *entity.User, itemID string) error {
	agentID, err := uc.ResolveAgentID(agentID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: item id", entity.ErrMissingField)
	}

	agent, err := uc.connector.GetAgent(ctx, agentID)
	if err != nil {
		return err
	}

	current := agent.ConversationConfig.Agent.Prompt.KnowledgeBase
	kb := make([]entity.KnowledgeBaseLocator, 0, len(current))
	var removed *entity.KnowledgeBaseLocator
	for _, loc := range current {
		if loc.ID == itemID {
			removed = &loc
			continue
		}
		kb = append(kb, loc)
	}

	if removed == nil {
		return entity.ErrKnowledgeItemNotFound
	}

	if _, err := uc.connector.UpdateAgent(ctx, agentID, entity.AgentPatch{KnowledgeBase: kb, SetKnowledgeBase: true}); err != nil {
		return fmt.Errorf("detach document from agent: %w", err)
	}

	if err := uc.connector.DeleteKnowledgeBaseDocument(ctx, itemID); err != nil && !errors.Is(err, entity.ErrKnowledgeItemNotFound) {
		ctxzap.Warn(ctx, "document detached but not deleted",
			zap.String("document_id", itemID),
			zap.Error(err),
		)
	}

	ctxzap.Info(ctx, "knowledge base item removed", zap.String("document_id", itemID))

	uc.record(ctx, agentID, actor, entity.ChangeKnowledgeRemoved, map[string]any{
		"document_id": itemID,
		"name":        removed.Name,
	})

	return nil
}

// documentLocatorType is the type the vendor expects in the agent's knowledge_base list.
// Text documents are stored as files there.
func documentLocatorType(t entity.KnowledgeItemType) entity.KnowledgeItemType {
	if t == entity.KnowledgeItemURL {
		return entity.KnowledgeItemURL
	}
	return entity.KnowledgeItemFile
}

func defaultTextName(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= textNameLength {
		return text
	}
	return string([]rune(text)[:textNameLength])
}

func isAlreadyAttached(err error) bool {
	return errors.Is(err, entity.ErrKnowledgeItemExists)
}
