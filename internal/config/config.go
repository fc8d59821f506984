package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/convai-admin/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr     string   `env:"SERVER_ADDR,notEmpty"`
	FrontendDir    string   `env:"FRONTEND_DIR"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	ConvAICfg ConvAIConnectorConfig `envPrefix:"CONVAI_"`
	AuthCfg   AuthConnectorConfig   `envPrefix:"AUTH_"`

	SessionCfg SessionConfig    `envPrefix:"SESSION_"`
	CacheCfg   CacheConfig      `envPrefix:"CACHE_"`
	Pagination PaginationConfig `envPrefix:"PAGINATION_"`
	FileUpload FileUploadConfig `envPrefix:"FILE_UPLOAD_"`
	Telegram   TelegramConfig   `envPrefix:"TELEGRAM_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ConvAIConnectorConfig configures the conversational-agent platform client.
type ConvAIConnectorConfig struct {
	HTTPClientConfig
	APIKey         string               `env:"API_KEY"`
	DefaultAgentID string               `env:"DEFAULT_AGENT_ID"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// AuthConnectorConfig configures the Supabase GoTrue client.
type AuthConnectorConfig struct {
	HTTPClientConfig
	AnonKey           string               `env:"ANON_KEY"`
	SignUpRedirectURL string               `env:"SIGNUP_REDIRECT_URL"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"20s"`
	Url                   string        `env:"SERVICE_URL"`
}

// SessionConfig holds the operator session cookie settings
type SessionConfig struct {
	AccessCookie  string        `env:"ACCESS_COOKIE" envDefault:"sb-access-token"`
	RefreshCookie string        `env:"REFRESH_COOKIE" envDefault:"sb-refresh-token"`
	CookieDomain  string        `env:"COOKIE_DOMAIN"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"true"`
	CookieMaxAge  time.Duration `env:"COOKIE_MAX_AGE" envDefault:"168h"`
	UserCacheTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"1m"`
}

// CacheConfig holds TTLs of the in-memory caches
type CacheConfig struct {
	AgentsTTL    time.Duration `env:"AGENTS_TTL" envDefault:"5m"`
	AnalyticsTTL time.Duration `env:"ANALYTICS_TTL" envDefault:"10m"`
	CleanupEvery time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// PaginationConfig bounds conversation listing and analytics scans
type PaginationConfig struct {
	DefaultPageSize   int `env:"DEFAULT_PAGE_SIZE" envDefault:"15"`
	MaxPageSize       int `env:"MAX_PAGE_SIZE" envDefault:"100"`
	AnalyticsMaxPages int `env:"ANALYTICS_MAX_PAGES" envDefault:"20"`
	AnalyticsMaxDays  int `env:"ANALYTICS_MAX_DAYS" envDefault:"90"`
}

// FileUploadConfig holds knowledge-base file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"20971520"`   // 20 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"22020096"` // 21 MiB
}

// TelegramConfig configures optional change notifications. Empty token disables them.
type TelegramConfig struct {
	BotToken    string        `env:"BOT_TOKEN"`
	ChatID      int64         `env:"CHAT_ID"`
	SendTimeout time.Duration `env:"SEND_TIMEOUT" envDefault:"10s"`
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if !cfg.EnableMocks {
		if cfg.ConvAICfg.Url == "" {
			errors = append(errors, "CONVAI_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
		if cfg.ConvAICfg.APIKey == "" {
			errors = append(errors, "CONVAI_API_KEY is required unless ENABLE_MOCKS is set")
		}
		if cfg.AuthCfg.Url == "" {
			errors = append(errors, "AUTH_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
		if cfg.AuthCfg.AnonKey == "" {
			errors = append(errors, "AUTH_ANON_KEY is required unless ENABLE_MOCKS is set")
		}
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	// Vendor caps page_size at 100
	if cfg.Pagination.MaxPageSize < 1 || cfg.Pagination.MaxPageSize > 100 {
		errors = append(errors, fmt.Sprintf("PAGINATION_MAX_PAGE_SIZE must be between 1 and 100, got %d", cfg.Pagination.MaxPageSize))
	}

	if cfg.Pagination.DefaultPageSize < 1 || cfg.Pagination.DefaultPageSize > cfg.Pagination.MaxPageSize {
		errors = append(errors, fmt.Sprintf("PAGINATION_DEFAULT_PAGE_SIZE must be between 1 and PAGINATION_MAX_PAGE_SIZE(%d), got %d", cfg.Pagination.MaxPageSize, cfg.Pagination.DefaultPageSize))
	}

	if cfg.Pagination.AnalyticsMaxPages < 1 {
		errors = append(errors, fmt.Sprintf("PAGINATION_ANALYTICS_MAX_PAGES must be positive, got %d", cfg.Pagination.AnalyticsMaxPages))
	}

	if cfg.Pagination.AnalyticsMaxDays < 1 {
		errors = append(errors, fmt.Sprintf("PAGINATION_ANALYTICS_MAX_DAYS must be positive, got %d", cfg.Pagination.AnalyticsMaxDays))
	}

	if cfg.CacheCfg.AgentsTTL <= 0 || cfg.CacheCfg.AnalyticsTTL <= 0 {
		errors = append(errors, "CACHE_AGENTS_TTL and CACHE_ANALYTICS_TTL must be positive")
	}

	if cfg.Telegram.Enabled() && cfg.Telegram.SendTimeout <= 0 {
		errors = append(errors, "TELEGRAM_SEND_TIMEOUT must be positive")
	}

	if cfg.SessionCfg.UserCacheTTL < 0 {
		errors = append(errors, "SESSION_USER_CACHE_TTL must not be negative")
	}

	if cfg.FileUpload.MaxFileSize <= 0 || cfg.FileUpload.MaxUploadSize < cfg.FileUpload.MaxFileSize {
		errors = append(errors, "FILE_UPLOAD_MAX_UPLOAD_SIZE must be at least FILE_UPLOAD_MAX_FILE_SIZE and both positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
