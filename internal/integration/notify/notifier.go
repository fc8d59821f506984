package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultSendTimeout = 10 * time.Second

// Notifier delivers change alerts off the request path.
type Notifier interface {
	Notify(ctx context.Context, text string)
	// Wait blocks until every pending delivery has finished.
	Wait()
}

// TelegramNotifier posts operator change alerts to a Telegram chat.
type TelegramNotifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	logger  *zap.Logger
	pending sync.WaitGroup
}

// NewTelegramNotifier authorizes the bot against the default Bot API endpoint.
// Every Bot API call is bounded by cfg.SendTimeout.
func NewTelegramNotifier(cfg config.TelegramConfig, log *zap.Logger) (*TelegramNotifier, error) {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return newTelegramNotifier(cfg, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout}, log)
}

func newTelegramNotifier(cfg config.TelegramConfig, endpoint string, client tgbotapi.HTTPClient, log *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	log.Info("telegram notifier authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("chat_id", cfg.ChatID),
	)

	return &TelegramNotifier{
		api:    api,
		chatID: cfg.ChatID,
		logger: log,
	}, nil
}

// Notify queues text for the configured chat and returns immediately.
// Delivery failures are only logged.
func (n *TelegramNotifier) Notify(ctx context.Context, text string) {
	sendCtx := logger.Detach(ctx)

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		n.send(sendCtx, text)
	}()
}

// Wait blocks until in-flight deliveries finish or time out.
func (n *TelegramNotifier) Wait() {
	n.pending.Wait()
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		ctxzap.Warn(ctx, "failed to send change notification",
			zap.Error(err),
			zap.Int64("chat_id", n.chatID),
		)
		return
	}

	ctxzap.Debug(ctx, "change notification sent", zap.Int64("chat_id", n.chatID))
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) {}

func (NopNotifier) Wait() {}
