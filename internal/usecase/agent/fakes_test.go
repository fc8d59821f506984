package agent

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/futig/convai-admin/internal/entity"
)

type fakeConvAI struct {
	mu         sync.Mutex
	agents     map[string]*entity.AgentDetail
	documents  map[string]*entity.KnowledgeBaseDocument
	patches    []entity.AgentPatch
	deleted    []string
	listCalls  int
	nextID     int
	patchErr   error
	createErr  error
	getDocErrs map[string]error
}

func newFakeConvAI() *fakeConvAI {
	return &fakeConvAI{
		agents: map[string]*entity.AgentDetail{
			"agent_1": {
				AgentID: "agent_1",
				Name:    "Front Desk",
				ConversationConfig: entity.ConversationConfig{Agent: entity.AgentConfig{
					FirstMessage: "Hello!",
					Prompt:       entity.PromptConfig{Prompt: "Be helpful."},
				}},
			},
		},
		documents:  map[string]*entity.KnowledgeBaseDocument{},
		getDocErrs: map[string]error{},
	}
}

func (f *fakeConvAI) ListAgents(ctx context.Context) ([]*entity.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []*entity.Agent
	for _, a := range f.agents {
		out = append(out, &entity.Agent{AgentID: a.AgentID, Name: a.Name})
	}
	return out, nil
}

func (f *fakeConvAI) GetAgent(ctx context.Context, agentID string) (*entity.AgentDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.agents[agentID]
	if !ok {
		return nil, entity.ErrAgentNotFound
	}
	cp := *a
	cp.ConversationConfig.Agent.Prompt.KnowledgeBase = slices.Clone(a.ConversationConfig.Agent.Prompt.KnowledgeBase)
	return &cp, nil
}

func (f *fakeConvAI) UpdateAgent(ctx context.Context, agentID string, patch entity.AgentPatch) (*entity.AgentDetail, error) {
	f.mu.Lock()
	f.patches = append(f.patches, patch)
	if f.patchErr != nil {
		f.mu.Unlock()
		return nil, f.patchErr
	}
	a, ok := f.agents[agentID]
	if !ok {
		f.mu.Unlock()
		return nil, entity.ErrAgentNotFound
	}
	if patch.FirstMessage != nil {
		a.ConversationConfig.Agent.FirstMessage = *patch.FirstMessage
	}
	if patch.Prompt != nil {
		a.ConversationConfig.Agent.Prompt.Prompt = *patch.Prompt
	}
	if patch.SetKnowledgeBase {
		a.ConversationConfig.Agent.Prompt.KnowledgeBase = slices.Clone(patch.KnowledgeBase)
	}
	f.mu.Unlock()
	return f.GetAgent(ctx, agentID)
}

func (f *fakeConvAI) create(doc *entity.KnowledgeBaseDocument) (*entity.KnowledgeBaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	doc.ID = "doc_" + strconv.Itoa(f.nextID)
	f.documents[doc.ID] = doc
	cp := *doc
	return &cp, nil
}

func (f *fakeConvAI) CreateKnowledgeBaseURL(ctx context.Context, docURL, name string) (*entity.KnowledgeBaseDocument, error) {
	if name == "" {
		name = docURL
	}
	return f.create(&entity.KnowledgeBaseDocument{Name: name, Type: entity.KnowledgeItemURL, URL: docURL})
}

func (f *fakeConvAI) CreateKnowledgeBaseText(ctx context.Context, text, name string) (*entity.KnowledgeBaseDocument, error) {
	return f.create(&entity.KnowledgeBaseDocument{Name: name, Type: entity.KnowledgeItemFile, ExtractedInnerHTML: text})
}

func (f *fakeConvAI) CreateKnowledgeBaseFile(ctx context.Context, filename string, content []byte, name string) (*entity.KnowledgeBaseDocument, error) {
	if name == "" {
		name = filename
	}
	return f.create(&entity.KnowledgeBaseDocument{Name: name, Type: entity.KnowledgeItemFile, ExtractedInnerHTML: "<p>" + string(content) + "</p>"})
}

func (f *fakeConvAI) GetKnowledgeBaseDocument(ctx context.Context, documentID string) (*entity.KnowledgeBaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getDocErrs[documentID]; err != nil {
		return nil, err
	}
	doc, ok := f.documents[documentID]
	if !ok {
		return nil, entity.ErrKnowledgeItemNotFound
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeConvAI) DeleteKnowledgeBaseDocument(ctx context.Context, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, documentID)
	if _, ok := f.documents[documentID]; !ok {
		return entity.ErrKnowledgeItemNotFound
	}
	delete(f.documents, documentID)
	return nil
}

type fakeSettingsRepo struct {
	rows    map[string]*entity.AgentSettings
	upserts int
	getErr  error
}

func (r *fakeSettingsRepo) Get(ctx context.Context, agentID string) (*entity.AgentSettings, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	row, ok := r.rows[agentID]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings entity.AgentSettings) (*entity.AgentSettings, error) {
	r.upserts++
	norm := func(s *string) *string {
		if s == nil || *s == "" {
			return nil
		}
		return s
	}
	settings.FirstMessage = norm(settings.FirstMessage)
	settings.SystemPrompt = norm(settings.SystemPrompt)
	settings.WebsiteURL = norm(settings.WebsiteURL)
	if settings.ID == "" {
		settings.ID = "row_" + settings.AgentID
		settings.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	settings.UpdatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	r.rows[settings.AgentID] = &settings
	cp := settings
	return &cp, nil
}

type fakeChangeLog struct {
	entries []entity.ChangeLogEntry
	addErr  error
}

func (r *fakeChangeLog) Add(ctx context.Context, entry entity.ChangeLogEntry) (*entity.ChangeLogEntry, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *fakeChangeLog) List(ctx context.Context, agentID string, limit int) ([]*entity.ChangeLogEntry, error) {
	var out []*entity.ChangeLogEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].AgentID == agentID {
			e := r.entries[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(ctx context.Context, text string) {
	n.messages = append(n.messages, text)
}

var errVendorDown = errors.New("vendor unavailable")
