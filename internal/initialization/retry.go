package initialization

import (
	"context"
	"fmt"
	"time"

	"github.com/motionlab/MotionLab/api/internal/logging"
)

// RetryConfig defines retry behavior for startup operations
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns the standard startup retry policy: three
// attempts with exponential backoff starting at 1s, capped at 10s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryableFunc is a function that can be retried
type RetryableFunc func(ctx context.Context) error

// Retry executes fn up to config.MaxAttempts times, backing off between
// attempts. Context cancellation stops the loop immediately.
func Retry(ctx context.Context, logger *logging.Logger, config RetryConfig, operation string, fn RetryableFunc) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.Info("Operation succeeded after retries", map[string]interface{}{
					"operation": operation,
					"attempts":  attempt,
				})
			}
			return nil
		}

		if attempt == config.MaxAttempts {
			break
		}

		logger.Warn("Operation failed, retrying", map[string]interface{}{
			"operation": operation,
			"attempt":   attempt,
			"of":        config.MaxAttempts,
			"delay":     delay.String(),
			"error":     lastErr.Error(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, config.MaxAttempts, lastErr)
}

// RetryWithBackoff executes a function with the default startup policy
func RetryWithBackoff(ctx context.Context, logger *logging.Logger, operation string, fn RetryableFunc) error {
	return Retry(ctx, logger, DefaultRetryConfig(), operation, fn)
}
