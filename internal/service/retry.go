package service

import (
	"context"
	"errors"
	"time"

	"famcoach/internal/middleware"
	"famcoach/internal/model"
)

// Retry policy for transient persistence failures: up to 3 attempts
// with a linearly growing pause. Structural errors (validation,
// constraint, not-found, quota) are surfaced immediately.
const (
	maxAttempts = 3
	backoffStep = 200 * time.Millisecond
)

func retryable(err error) bool {
	switch {
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrUnauthorized),
		errors.Is(err, model.ErrForbidden),
		errors.Is(err, model.ErrQuotaExceeded):
		return false
	}
	return true
}

// withRetry runs fn up to maxAttempts times, pausing attempt*backoffStep
// between tries. It gives up early on structural errors and on context
// cancellation.
func withRetry(ctx context.Context, op string, fn func() error) error {
	logger := middleware.GetLogger(ctx)
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		logger.Warn("Transient failure, retrying", "op", op, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * backoffStep):
		}
	}
	logger.Error("Operation failed after retries", "op", op, "attempts", maxAttempts, "error", err)
	return err
}
