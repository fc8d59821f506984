package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/convai-admin/internal/api"
	agentapi "github.com/futig/convai-admin/internal/api/agent"
	authapi "github.com/futig/convai-admin/internal/api/auth"
	conversationapi "github.com/futig/convai-admin/internal/api/conversation"
	"github.com/futig/convai-admin/internal/api/middleware"
	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/integration/authprovider"
	"github.com/futig/convai-admin/internal/integration/convai"
	"github.com/futig/convai-admin/internal/integration/notify"
	"github.com/futig/convai-admin/internal/pkg/formatter"
	"github.com/futig/convai-admin/internal/pkg/logger"
	"github.com/futig/convai-admin/internal/pkg/validator"
	"github.com/futig/convai-admin/internal/repository"
	"github.com/futig/convai-admin/internal/usecase/agent"
	"github.com/futig/convai-admin/internal/usecase/auth"
	"github.com/futig/convai-admin/internal/usecase/conversation"
	"go.uber.org/zap"
)

// convaiConnector is everything the use cases need from the conversational-agent platform.
type convaiConnector interface {
	agent.ConvAIConnector
	conversation.ConvAIConnector
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	log.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	settingsRepo := repository.NewAgentSettingsPostgres(db)
	changeLogRepo := repository.NewChangeLogPostgres(db)
	log.Info("Repositories initialized")

	var convaiConn convaiConnector
	var authConn auth.AuthConnector

	if cfg.EnableMocks {
		log.Info("Using mock connectors for external services")
		convaiConn = convai.NewMockConnector(log)
		authConn = authprovider.NewMockConnector(log)
	} else {
		log.Info("Using real connectors for external services")
		convaiConn = convai.NewConnector(cfg.ConvAICfg, log)
		authConn = authprovider.NewConnector(cfg.AuthCfg, log)
	}

	notifier := setupNotifier(cfg.Telegram, log)

	v := validator.NewValidator(cfg.FileUpload)
	log.Info("Validators initialized")

	agentUC := agent.NewUsecase(
		convaiConn,
		settingsRepo,
		changeLogRepo,
		notifier,
		v,
		cfg.CacheCfg,
		cfg.ConvAICfg.DefaultAgentID,
		log,
	)

	conversationUC := conversation.NewUsecase(
		convaiConn,
		agentUC,
		formatter.NewFactory(),
		cfg.Pagination,
		cfg.CacheCfg,
		log,
	)

	authUC := auth.NewUsecase(
		authConn,
		v,
		cfg.SessionCfg,
		cfg.CacheCfg,
		cfg.AuthCfg.SignUpRedirectURL,
		log,
	)
	log.Info("Use cases initialized")

	cookies := middleware.NewSessionCookies(cfg.SessionCfg)
	session := middleware.NewSession(authUC, cookies)

	handlers := api.Handlers{
		Auth:         authapi.NewHandler(authUC, cookies),
		Conversation: conversationapi.NewHandler(conversationUC),
		Agent:        agentapi.NewHandler(agentUC, cfg.FileUpload.MaxUploadSize),
	}
	log.Info("API handlers initialized")

	router := api.SetupRouter(api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		FrontendDir:    cfg.FrontendDir,
	}, handlers, session, log)
	log.Info("HTTP router configured")

	// Uploads and transcript exports can be slow, so the write timeout follows the router timeout.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	return &App{
		server:   server,
		db:       db,
		notifier: notifier,
		logger:   log,
	}, nil
}

// setupNotifier falls back to a no-op notifier so a broken bot token never blocks startup.
func setupNotifier(cfg config.TelegramConfig, log *zap.Logger) notify.Notifier {
	if !cfg.Enabled() {
		log.Info("Telegram notifications disabled")
		return notify.NopNotifier{}
	}

	notifier, err := notify.NewTelegramNotifier(cfg, log)
	if err != nil {
		log.Warn("Telegram notifier unavailable, notifications disabled", zap.Error(err))
		return notify.NopNotifier{}
	}

	log.Info("Telegram notifications enabled", zap.Int64("chat_id", cfg.ChatID))
	return notifier
}
