package helpers

import (
	"context"
	"fmt"
	"time"

	"sjsage522/deliveryscraper/logger"
	"sjsage522/deliveryscraper/pkg/errors"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *logger.Logger
}

// Do executes fn with exponential back-off. Only errors classified as
// retryable are attempted again; anything else is returned immediately.
func (r RetryConfig) Do(ctx context.Context, operation string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !errors.IsRetryable(lastErr) || attempt == attempts {
			break
		}

		if r.Logger != nil {
			r.Logger.Warn().
				Err(lastErr).
				Str("operation", operation).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Dur("delay", delay).
				Msg("Retrying after failure")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	if attempts == 1 || !errors.IsRetryable(lastErr) {
		return lastErr
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, lastErr)
}
