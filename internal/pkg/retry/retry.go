package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
	defaultMaxDelay = 2 * time.Second
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Do runs fn until it succeeds, the context ends, or retryable reports false for its error.
func Do(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func() error) error {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}

	opts := append(cfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(retryable),
	)

	return retry.Do(fn, opts...)
}

// DoWithData is Do for calls that return a value.
func DoWithData[T any](ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func() (T, error)) (T, error) {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}

	opts := append(cfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(retryable),
	)

	return retry.DoWithData(fn, opts...)
}
