package convai

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const MockAgentID = "agent_mock"

// MockConnector keeps agents, conversations and documents in memory for ENABLE_MOCKS runs.
type MockConnector struct {
	mu            sync.Mutex
	agents        map[string]*entity.AgentDetail
	conversations []*entity.Conversation
	documents     map[string]*entity.KnowledgeBaseDocument
	logger        *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	m := &MockConnector{
		agents:    map[string]*entity.AgentDetail{},
		documents: map[string]*entity.KnowledgeBaseDocument{},
		logger:    logger,
	}
	m.seed(time.Now())
	return m
}

func (m *MockConnector) seed(now time.Time) {
	m.agents[MockAgentID] = &entity.AgentDetail{
		AgentID: MockAgentID,
		Name:    "Front Desk",
		ConversationConfig: entity.ConversationConfig{
			Agent: entity.AgentConfig{
				FirstMessage: "Hello! How can I assist you today?",
				Prompt:       entity.PromptConfig{Prompt: "You are a helpful front desk assistant."},
			},
		},
	}

	outcomes := []string{"success", "success", "failure"}
	for i := 0; i < 30; i++ {
		start := now.Add(-time.Duration(i) * 7 * time.Hour)
		m.conversations = append(m.conversations, &entity.Conversation{
			AgentID:        MockAgentID,
			ConversationID: fmt.Sprintf("conv_mock_%02d", i),
			Status:         "done",
			Transcript: []entity.TranscriptMessage{
				{Role: "agent", Message: "Hello! How can I assist you today?", TimeInCallSecs: 0},
				{Role: "user", Message: "What are your opening hours?", TimeInCallSecs: 4},
				{Role: "agent", Message: "We are open 9am to 5pm, Monday to Friday.", TimeInCallSecs: 9},
			},
			Metadata: entity.ConversationMetadata{
				StartTimeUnixSec: start.Unix(),
				CallDurationSecs: 30 + i*7,
				Cost:             float64(100 + i),
			},
			Analysis: entity.ConversationAnalysis{
				CallSuccessful:    outcomes[i%len(outcomes)],
				TranscriptSummary: "The caller asked about opening hours.",
			},
		})
	}
}

func (m *MockConnector) ListConversations(ctx context.Context, q entity.ConversationQuery) (*entity.ConversationPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] listing conversations", zap.String("cursor", q.Cursor), zap.Int("page_size", q.PageSize))

	offset := 0
	if q.Cursor != "" {
		n, err := strconv.Atoi(q.Cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: cursor", entity.ErrInvalidParameter)
		}
		offset = n
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 30
	}

	var filtered []*entity.Conversation
	for _, c := range m.conversations {
		if q.AgentID == "" || c.AgentID == q.AgentID {
			filtered = append(filtered, c)
		}
	}

	page := &entity.ConversationPage{Conversations: []*entity.ConversationSummary{}}
	for i := offset; i < len(filtered) && i < offset+pageSize; i++ {
		page.Conversations = append(page.Conversations, m.summarize(filtered[i]))
	}
	if offset+pageSize < len(filtered) {
		page.NextCursor = strconv.Itoa(offset + pageSize)
		page.HasMore = true
	}

	return page, nil
}

func (m *MockConnector) summarize(c *entity.Conversation) *entity.ConversationSummary {
	name := ""
	if a, ok := m.agents[c.AgentID]; ok {
		name = a.Name
	}
	return &entity.ConversationSummary{
		AgentID:          c.AgentID,
		AgentName:        name,
		ConversationID:   c.ConversationID,
		StartTimeUnixSec: c.Metadata.StartTimeUnixSec,
		CallDurationSecs: c.Metadata.CallDurationSecs,
		MessageCount:     len(c.Transcript),
		Status:           c.Status,
		CallSuccessful:   c.Analysis.CallSuccessful,
	}
}

func (m *MockConnector) GetConversation(ctx context.Context, conversationID string) (*entity.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.conversations {
		if c.ConversationID == conversationID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, entity.ErrConversationNotFound
}

func (m *MockConnector) GetConversationAudio(ctx context.Context, conversationID string) (*entity.ConversationAudio, error) {
	if _, err := m.GetConversation(ctx, conversationID); err != nil {
		return nil, entity.ErrAudioNotFound
	}
	// An empty ID3 header is enough for players to accept the stream.
	return &entity.ConversationAudio{
		Content:     []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		ContentType: "audio/mpeg",
	}, nil
}

func (m *MockConnector) ListAgents(ctx context.Context) ([]*entity.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	agents := make([]*entity.Agent, 0, len(m.agents))
	for _, a := range m.agents {
		agents = append(agents, &entity.Agent{AgentID: a.AgentID, Name: a.Name})
	}
	slices.SortFunc(agents, func(a, b *entity.Agent) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return agents, nil
}

func (m *MockConnector) GetAgent(ctx context.Context, agentID string) (*entity.AgentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.agents[agentID]
	if !ok {
		return nil, entity.ErrAgentNotFound
	}
	return cloneAgent(a), nil
}

func (m *MockConnector) UpdateAgent(ctx context.Context, agentID string, patch entity.AgentPatch) (*entity.AgentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.agents[agentID]
	if !ok {
		return nil, entity.ErrAgentNotFound
	}

	ctxzap.Info(ctx, "[MOCK] patching agent", zap.String("agent_id", agentID))

	if patch.FirstMessage != nil {
		a.ConversationConfig.Agent.FirstMessage = *patch.FirstMessage
	}
	if patch.Prompt != nil {
		a.ConversationConfig.Agent.Prompt.Prompt = *patch.Prompt
	}
	if patch.SetKnowledgeBase {
		a.ConversationConfig.Agent.Prompt.KnowledgeBase = slices.Clone(patch.KnowledgeBase)
	}
	return cloneAgent(a), nil
}

func cloneAgent(a *entity.AgentDetail) *entity.AgentDetail {
	cp := *a
	cp.ConversationConfig.Agent.Prompt.KnowledgeBase = slices.Clone(a.ConversationConfig.Agent.Prompt.KnowledgeBase)
	return &cp
}

func (m *MockConnector) CreateKnowledgeBaseURL(ctx context.Context, docURL, name string) (*entity.KnowledgeBaseDocument, error) {
	if name == "" {
		name = docURL
	}
	return m.store(&entity.KnowledgeBaseDocument{
		Name:               name,
		Type:               entity.KnowledgeItemURL,
		URL:                docURL,
		ExtractedInnerHTML: "<html><body><p>Scraped " + docURL + "</p></body></html>",
	}), nil
}

func (m *MockConnector) CreateKnowledgeBaseText(ctx context.Context, text, name string) (*entity.KnowledgeBaseDocument, error) {
	// The vendor reports text documents as files.
	return m.store(&entity.KnowledgeBaseDocument{Name: name, Type: entity.KnowledgeItemFile, ExtractedInnerHTML: text}), nil
}

func (m *MockConnector) CreateKnowledgeBaseFile(ctx context.Context, filename string, content []byte, name string) (*entity.KnowledgeBaseDocument, error) {
	if name == "" {
		name = filename
	}
	return m.store(&entity.KnowledgeBaseDocument{
		Name:               name,
		Type:               entity.KnowledgeItemFile,
		ExtractedInnerHTML: "<html><body><pre>" + strconv.Itoa(len(content)) + " bytes</pre></body></html>",
	}), nil
}

func (m *MockConnector) store(doc *entity.KnowledgeBaseDocument) *entity.KnowledgeBaseDocument {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc.ID = uuid.NewString()
	m.documents[doc.ID] = doc
	cp := *doc
	return &cp
}

func (m *MockConnector) GetKnowledgeBaseDocument(ctx context.Context, documentID string) (*entity.KnowledgeBaseDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[documentID]
	if !ok {
		return nil, entity.ErrKnowledgeItemNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *MockConnector) DeleteKnowledgeBaseDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[documentID]; !ok {
		return entity.ErrKnowledgeItemNotFound
	}
	delete(m.documents, documentID)
	return nil
}
