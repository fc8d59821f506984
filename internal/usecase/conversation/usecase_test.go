package conversation

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/formatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type fakeConnector struct {
	pages         map[string]*entity.ConversationPage
	queries       []entity.ConversationQuery
	conversations map[string]*entity.Conversation
	listErr       error
}

func (f *fakeConnector) ListConversations(ctx context.Context, q entity.ConversationQuery) (*entity.ConversationPage, error) {
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	page, ok := f.pages[q.Cursor]
	if !ok {
		return &entity.ConversationPage{Conversations: []*entity.ConversationSummary{}}, nil
	}
	return page, nil
}

func (f *fakeConnector) GetConversation(ctx context.Context, id string) (*entity.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, entity.ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeConnector) GetConversationAudio(ctx context.Context, id string) (*entity.ConversationAudio, error) {
	if _, ok := f.conversations[id]; !ok {
		return nil, entity.ErrAudioNotFound
	}
	return &entity.ConversationAudio{Content: []byte("ID3"), ContentType: "audio/mpeg"}, nil
}

type fakeAgents struct {
	agents []*entity.Agent
	err    error
	calls  int
}

func (f *fakeAgents) ListAgents(ctx context.Context) ([]*entity.Agent, error) {
	f.calls++
	return f.agents, f.err
}

type ConversationUsecaseSuite struct {
	suite.Suite
	conn   *fakeConnector
	agents *fakeAgents
	uc     *ConversationUsecase
	now    time.Time
}

func (s *ConversationUsecaseSuite) SetupTest() {
	s.now = time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	s.conn = &fakeConnector{
		pages:         map[string]*entity.ConversationPage{},
		conversations: map[string]*entity.Conversation{},
	}
	s.agents = &fakeAgents{agents: []*entity.Agent{{AgentID: "agent_1", Name: "Front Desk"}}}
	s.uc = NewUsecase(
		s.conn,
		s.agents,
		formatter.NewFactory(),
		config.PaginationConfig{DefaultPageSize: 15, MaxPageSize: 100, AnalyticsMaxPages: 3, AnalyticsMaxDays: 90},
		config.CacheConfig{AgentsTTL: time.Minute, AnalyticsTTL: time.Minute, CleanupEvery: time.Minute},
		zap.NewNop(),
	)
	s.uc.now = func() time.Time { return s.now }
}

func TestConversationUsecaseSuite(t *testing.T) {
	suite.Run(t, new(ConversationUsecaseSuite))
}

func summaries(n int, start time.Time) []*entity.ConversationSummary {
	out := make([]*entity.ConversationSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &entity.ConversationSummary{
			ConversationID:   "c" + strconv.Itoa(i),
			AgentID:          "agent_1",
			AgentName:        "Front Desk",
			StartTimeUnixSec: start.Add(-time.Duration(i) * time.Minute).Unix(),
			CallDurationSecs: 60,
			MessageCount:     4,
			Status:           "done",
			CallSuccessful:   "success",
		})
	}
	return out
}

func (s *ConversationUsecaseSuite) TestListConversations_DefaultsAndFallbacks() {
	s.conn.pages[""] = &entity.ConversationPage{
		Conversations: []*entity.ConversationSummary{
			{ConversationID: "c1", StartTimeUnixSec: 1700000000, CallDurationSecs: 65, MessageCount: 3, Status: "done", CallSuccessful: "success", AgentName: "Support"},
			{ConversationID: "c2"},
		},
		NextCursor: "next",
	}

	resp, err := s.uc.ListConversations(context.Background(), entity.ListConversationsRequest{})
	s.Require().NoError(err)
	s.Equal(15, s.conn.queries[0].PageSize)

	s.Require().Len(resp.Conversations, 2)
	first := resp.Conversations[0]
	s.Equal("c1", first.ID)
	s.Equal("2023-11-14T22:13:20Z", first.Date)
	s.Equal("Support", first.Agent)
	s.Equal("1:05", first.Duration)
	s.Equal(3, first.Messages)

	second := resp.Conversations[1]
	s.Equal("Unknown date", second.Date)
	s.Equal("AI Agent", second.Agent)
	s.Equal(0, second.Messages)
	s.Equal("0:00", second.Duration)
	s.Equal("Unknown", second.Status)
	s.Equal("unknown", second.Success)

	// Short page: no more results even with a cursor.
	s.False(resp.HasMore)
	s.Equal("next", resp.NextCursor)
}

func (s *ConversationUsecaseSuite) TestListConversations_FullPageHasMore() {
	s.conn.pages[""] = &entity.ConversationPage{Conversations: summaries(15, s.now), NextCursor: "next", HasMore: true}

	resp, err := s.uc.ListConversations(context.Background(), entity.ListConversationsRequest{})
	s.Require().NoError(err)
	s.True(resp.HasMore)

	s.conn.pages[""] = &entity.ConversationPage{Conversations: summaries(15, s.now)}
	resp, err = s.uc.ListConversations(context.Background(), entity.ListConversationsRequest{})
	s.Require().NoError(err)
	s.False(resp.HasMore)
}

func (s *ConversationUsecaseSuite) TestListConversations_ClampsPageSizeAndFiltersByName() {
	page := summaries(3, s.now)
	page[1].AgentName = "Night Shift"
	s.conn.pages["cur"] = &entity.ConversationPage{Conversations: page}

	resp, err := s.uc.ListConversations(context.Background(), entity.ListConversationsRequest{
		Cursor:    "cur",
		PageSize:  500,
		AgentName: "Night Shift",
	})
	s.Require().NoError(err)
	s.Equal(100, s.conn.queries[0].PageSize)
	s.Require().Len(resp.Conversations, 1)
	s.Equal("c1", resp.Conversations[0].ID)
}

func (s *ConversationUsecaseSuite) TestListConversations_VendorError() {
	s.conn.listErr = errors.New("boom")

	_, err := s.uc.ListConversations(context.Background(), entity.ListConversationsRequest{})
	s.ErrorContains(err, "list conversations")
}

func (s *ConversationUsecaseSuite) TestGetConversation_AgentNameResolution() {
	override := &entity.Conversation{ConversationID: "c1", AgentID: "agent_1"}
	override.Initiation = &entity.ConversationInitiation{}
	override.Initiation.ConversationConfigOverride.Agent = &struct {
		Name string `json:"name"`
	}{Name: "Weekend Desk"}
	s.conn.conversations["c1"] = override
	s.conn.conversations["c2"] = &entity.Conversation{ConversationID: "c2", AgentID: "agent_1"}
	s.conn.conversations["c3"] = &entity.Conversation{ConversationID: "c3", AgentID: "agent_gone"}

	detail, err := s.uc.GetConversation(context.Background(), "c1")
	s.Require().NoError(err)
	s.Equal("Weekend Desk", detail.Agent)

	detail, err = s.uc.GetConversation(context.Background(), "c2")
	s.Require().NoError(err)
	s.Equal("Front Desk", detail.Agent)

	detail, err = s.uc.GetConversation(context.Background(), "c3")
	s.Require().NoError(err)
	s.Equal("AI Agent", detail.Agent)

	s.agents.err = errors.New("vendor down")
	detail, err = s.uc.GetConversation(context.Background(), "c2")
	s.Require().NoError(err)
	s.Equal("AI Agent", detail.Agent)
}

func (s *ConversationUsecaseSuite) TestGetConversation_Errors() {
	_, err := s.uc.GetConversation(context.Background(), " ")
	s.ErrorIs(err, entity.ErrMissingField)

	_, err = s.uc.GetConversation(context.Background(), "missing")
	s.ErrorIs(err, entity.ErrConversationNotFound)

	_, err = s.uc.GetConversationAudio(context.Background(), "missing")
	s.ErrorIs(err, entity.ErrAudioNotFound)
}

func (s *ConversationUsecaseSuite) TestExportTranscript_Markdown() {
	s.conn.conversations["c1"] = &entity.Conversation{
		ConversationID: "c1",
		AgentID:        "agent_1",
		Status:         "done",
		Transcript: []entity.TranscriptMessage{
			{Role: "agent", Message: "Hello!", TimeInCallSecs: 0},
			{Role: "user", Message: "", TimeInCallSecs: 2},
			{Role: "user", Message: "Are you open?", TimeInCallSecs: 65},
		},
		Metadata: entity.ConversationMetadata{CallDurationSecs: 90},
		Analysis: entity.ConversationAnalysis{CallSuccessful: "success", TranscriptSummary: "Opening hours."},
	}

	file, err := s.uc.ExportTranscript(context.Background(), "c1", "")
	s.Require().NoError(err)
	s.Equal("conversation-c1.md", file.Filename)
	s.Contains(file.ContentType, "text/markdown")

	text := string(file.Content)
	s.Contains(text, "- Agent: Front Desk")
	s.Contains(text, "**AI** _(0:00)_: Hello!")
	s.Contains(text, "**User** _(1:05)_: Are you open?")
	s.NotContains(text, "_(0:02)_")
}

func (s *ConversationUsecaseSuite) TestExportTranscript_UnknownFormat() {
	_, err := s.uc.ExportTranscript(context.Background(), "c1", "html")
	s.ErrorIs(err, entity.ErrInvalidParameter)
}

func (s *ConversationUsecaseSuite) TestGetAnalytics_BucketsAndCaches() {
	day := func(d int, hour int) int64 {
		return time.Date(2024, 6, d, hour, 0, 0, 0, time.UTC).Unix()
	}
	s.conn.pages[""] = &entity.ConversationPage{
		Conversations: []*entity.ConversationSummary{
			{StartTimeUnixSec: day(10, 12), CallDurationSecs: 60, CallSuccessful: "success"},
			{StartTimeUnixSec: day(10, 9), CallDurationSecs: 120, CallSuccessful: "failure"},
		},
		NextCursor: "p2",
		HasMore:    true,
	}
	s.conn.pages["p2"] = &entity.ConversationPage{
		Conversations: []*entity.ConversationSummary{
			{StartTimeUnixSec: day(8, 10), CallDurationSecs: 30, CallSuccessful: "success"},
			{StartTimeUnixSec: day(1, 10), CallDurationSecs: 30, CallSuccessful: "success"},
		},
		NextCursor: "p3",
		HasMore:    true,
	}

	resp, err := s.uc.GetAnalytics(context.Background(), 3)
	s.Require().NoError(err)
	s.Equal(3, resp.Days)
	s.Equal(3, resp.TotalConversations)
	s.False(resp.Truncated)
	s.InDelta(2.0/3.0, resp.SuccessRate, 0.0001)
	s.InDelta(70.0, resp.AvgDurationSeconds, 0.0001)

	s.Require().Len(resp.Series, 3)
	s.Equal("2024-06-08", resp.Series[0].Date)
	s.Equal(1, resp.Series[0].Conversations)
	s.Equal(0, resp.Series[1].Conversations)
	s.Equal("2024-06-10", resp.Series[2].Date)
	s.Equal(2, resp.Series[2].Conversations)
	s.Equal(1, resp.Series[2].Failed)
	s.InDelta(90.0, resp.Series[2].AvgDurationSeconds, 0.0001)

	// The walk stops at the cutoff and never asks for p3.
	s.Len(s.conn.queries, 2)
	s.Equal(100, s.conn.queries[0].PageSize)

	_, err = s.uc.GetAnalytics(context.Background(), 3)
	s.Require().NoError(err)
	s.Len(s.conn.queries, 2)
}

func (s *ConversationUsecaseSuite) TestGetAnalytics_TruncatedAtPageLimit() {
	for i, cursor := range []string{"", "p1", "p2"} {
		s.conn.pages[cursor] = &entity.ConversationPage{
			Conversations: summaries(2, s.now),
			NextCursor:    "p" + strconv.Itoa(i+1),
			HasMore:       true,
		}
	}

	resp, err := s.uc.GetAnalytics(context.Background(), 7)
	s.Require().NoError(err)
	s.True(resp.Truncated)
	s.Len(s.conn.queries, 3)
}

func (s *ConversationUsecaseSuite) TestGetAnalytics_RejectsLongRange() {
	_, err := s.uc.GetAnalytics(context.Background(), 365)
	s.ErrorIs(err, entity.ErrInvalidParameter)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "0:09", formatDuration(9))
	assert.Equal(t, "1:05", formatDuration(65))
	assert.Equal(t, "61:01", formatDuration(3661))
}

func TestSpeakerLabel(t *testing.T) {
	require.Equal(t, "AI", speakerLabel("agent"))
	require.Equal(t, "User", speakerLabel("user"))
}
