package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     5 * time.Second,
		Factor:       2,
	}
}

// Do invokes op, retrying on failure with exponential backoff until the
// retry budget is spent. The delay before retry n (0-based) is
// min(InitialDelay * Factor^n, MaxDelay). No jitter. Safe for concurrent
// independent invocations; all state lives on the stack.
func Do(ctx context.Context, logger *zap.Logger, name string, cfg Config, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}

		if attempt >= cfg.MaxRetries {
			logger.Error("operation failed after retries",
				zap.String("operation", name),
				zap.Int("retries", attempt),
				zap.Error(err),
			)
			return fmt.Errorf("%s failed after %d retries: %w", name, attempt, err)
		}

		delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.Factor, float64(attempt)))
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}

		logger.Warn("operation failed, retrying",
			zap.String("operation", name),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
