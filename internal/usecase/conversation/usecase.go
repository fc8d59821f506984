package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/formatter"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultAnalyticsDays = 7

// ConversationUsecase implements conversation review for the dashboard
type ConversationUsecase struct {
	connector  ConvAIConnector
	agents     AgentLister
	formatters *formatter.Factory
	pagination config.PaginationConfig
	analytics  *cache.Cache
	now        func() time.Time
	logger     *zap.Logger
}

func NewUsecase(
	connector ConvAIConnector,
	agents AgentLister,
	formatters *formatter.Factory,
	pagination config.PaginationConfig,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) *ConversationUsecase {
	return &ConversationUsecase{
		connector:  connector,
		agents:     agents,
		formatters: formatters,
		pagination: pagination,
		analytics:  cache.New(cacheCfg.AnalyticsTTL, cacheCfg.CleanupEvery),
		now:        time.Now,
		logger:     logger,
	}
}

// ListConversations returns one page of conversations shaped for the dashboard table.
func (uc *ConversationUsecase) ListConversations(
	ctx context.Context,
	req entity.ListConversationsRequest,
) (*entity.ListConversationsResponse, error) {
	req.Normalize(uc.pagination.DefaultPageSize, uc.pagination.MaxPageSize)

	page, err := uc.connector.ListConversations(ctx, entity.ConversationQuery{
		Cursor:   req.Cursor,
		PageSize: req.PageSize,
		AgentID:  req.AgentID,
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	items := make([]*entity.ConversationListItem, 0, len(page.Conversations))
	for _, s := range page.Conversations {
		item := toListItem(s)
		if req.AgentName != "" && item.Agent != req.AgentName {
			continue
		}
		items = append(items, item)
	}

	// A short page means the vendor has nothing more, whatever the cursor says.
	hasMore := len(page.Conversations) == req.PageSize && page.NextCursor != ""

	ctxzap.Debug(ctx, "conversations listed",
		zap.Int("count", len(items)),
		zap.Bool("has_more", hasMore),
	)

	return &entity.ListConversationsResponse{
		Conversations: items,
		NextCursor:    page.NextCursor,
		HasMore:       hasMore,
	}, nil
}

// GetConversation returns the full conversation with a resolved agent display name.
func (uc *ConversationUsecase) GetConversation(ctx context.Context, conversationID string) (*entity.ConversationDetail, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id", entity.ErrMissingField)
	}

	conv, err := uc.connector.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	return &entity.ConversationDetail{
		Conversation: conv,
		Agent:        uc.agentName(ctx, conv),
	}, nil
}

// agentName prefers the name set when the conversation started, then the agent's
// current name, then a generic label.
func (uc *ConversationUsecase) agentName(ctx context.Context, conv *entity.Conversation) string {
	if name := conv.OverrideAgentName(); name != "" {
		return name
	}

	if uc.agents != nil && conv.AgentID != "" {
		agents, err := uc.agents.ListAgents(ctx)
		if err != nil {
			ctxzap.Warn(ctx, "failed to resolve agent name", zap.Error(err))
			return defaultAgentName
		}
		for _, a := range agents {
			if a.AgentID == conv.AgentID && a.Name != "" {
				return a.Name
			}
		}
	}

	return defaultAgentName
}

func (uc *ConversationUsecase) GetConversationAudio(ctx context.Context, conversationID string) (*entity.ConversationAudio, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id", entity.ErrMissingField)
	}
	return uc.connector.GetConversationAudio(ctx, conversationID)
}

// ExportTranscript renders the conversation transcript as a downloadable document.
func (uc *ConversationUsecase) ExportTranscript(
	ctx context.Context,
	conversationID string,
	format entity.ResultFormat,
) (*entity.ExportedFile, error) {
	if format == "" {
		format = entity.FormatMarkdown
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	detail, err := uc.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	content, err := f.Format(buildTranscriptDocument(detail))
	if err != nil {
		return nil, fmt.Errorf("format transcript: %w", err)
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("conversation_id", conversationID),
		zap.String("format", string(format)),
		zap.Int("size", len(content)),
	)

	return &entity.ExportedFile{
		Filename:    "conversation-" + conversationID + f.FileExtension(),
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}

func buildTranscriptDocument(detail *entity.ConversationDetail) *formatter.Document {
	conv := detail.Conversation

	doc := &formatter.Document{
		Title: "Conversation " + conv.ConversationID,
		Meta: []string{
			"Agent: " + detail.Agent,
			"Date: " + formatStartTime(conv.Metadata.StartTimeUnixSec),
			"Duration: " + formatDuration(conv.Metadata.CallDurationSecs),
			"Status: " + orDefault(conv.Status, unknownStatus),
			"Outcome: " + orDefault(conv.Analysis.CallSuccessful, unknownOutcome),
		},
		Summary: conv.Analysis.TranscriptSummary,
		Lines:   make([]formatter.Line, 0, len(conv.Transcript)),
	}

	for _, m := range conv.Transcript {
		if strings.TrimSpace(m.Message) == "" {
			continue
		}
		doc.Lines = append(doc.Lines, formatter.Line{
			Speaker: speakerLabel(m.Role),
			Text:    m.Message,
			At:      formatDuration(m.TimeInCallSecs),
		})
	}

	return doc
}

// GetAnalytics aggregates the last days of conversations into daily buckets.
// The scan is bounded by the configured page limit; Truncated reports when it stopped early.
func (uc *ConversationUsecase) GetAnalytics(ctx context.Context, days int) (*entity.AnalyticsResponse, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > uc.pagination.AnalyticsMaxDays {
		return nil, fmt.Errorf("%w: days must be at most %d", entity.ErrInvalidParameter, uc.pagination.AnalyticsMaxDays)
	}

	key := fmt.Sprintf("analytics:%d", days)
	if cached, ok := uc.analytics.Get(key); ok {
		return cached.(*entity.AnalyticsResponse), nil
	}

	today := uc.now().UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, -(days - 1))

	summaries, truncated, err := uc.scanSince(ctx, cutoff.Unix())
	if err != nil {
		return nil, err
	}

	resp := aggregate(summaries, cutoff, days)
	resp.Truncated = truncated

	uc.analytics.SetDefault(key, resp)

	ctxzap.Info(ctx, "analytics computed",
		zap.Int("days", days),
		zap.Int("conversations", resp.TotalConversations),
		zap.Bool("truncated", truncated),
	)

	return resp, nil
}

// scanSince walks conversation pages, newest first, until it passes cutoff.
func (uc *ConversationUsecase) scanSince(ctx context.Context, cutoff int64) ([]*entity.ConversationSummary, bool, error) {
	var (
		collected []*entity.ConversationSummary
		cursor    string
	)

	for pageNum := 0; pageNum < uc.pagination.AnalyticsMaxPages; pageNum++ {
		page, err := uc.connector.ListConversations(ctx, entity.ConversationQuery{
			Cursor:   cursor,
			PageSize: uc.pagination.MaxPageSize,
		})
		if err != nil {
			return nil, false, fmt.Errorf("scan conversations: %w", err)
		}

		for _, s := range page.Conversations {
			if s.StartTimeUnixSec < cutoff {
				return collected, false, nil
			}
			collected = append(collected, s)
		}

		if !page.HasMore || page.NextCursor == "" {
			return collected, false, nil
		}
		cursor = page.NextCursor
	}

	return collected, true, nil
}

func aggregate(summaries []*entity.ConversationSummary, cutoff time.Time, days int) *entity.AnalyticsResponse {
	series := make([]*entity.AnalyticsDay, days)
	index := make(map[string]*entity.AnalyticsDay, days)
	durations := make(map[string]int, days)

	for i := range series {
		date := cutoff.AddDate(0, 0, i).Format(dateLayout)
		series[i] = &entity.AnalyticsDay{Date: date}
		index[date] = series[i]
	}

	resp := &entity.AnalyticsResponse{Days: days, Series: series}
	var successful, totalDuration int

	for _, s := range summaries {
		day, ok := index[time.Unix(s.StartTimeUnixSec, 0).UTC().Format(dateLayout)]
		if !ok {
			continue
		}

		day.Conversations++
		durations[day.Date] += s.CallDurationSecs
		totalDuration += s.CallDurationSecs
		resp.TotalConversations++

		switch s.CallSuccessful {
		case callSuccessful:
			day.Successful++
			successful++
		case callFailed:
			day.Failed++
		}
	}

	for _, day := range series {
		if day.Conversations > 0 {
			day.AvgDurationSeconds = float64(durations[day.Date]) / float64(day.Conversations)
		}
	}

	if resp.TotalConversations > 0 {
		resp.SuccessRate = float64(successful) / float64(resp.TotalConversations)
		resp.AvgDurationSeconds = float64(totalDuration) / float64(resp.TotalConversations)
	}

	return resp
}
