package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/replyscore/internal/logging"
	"github.com/ppiankov/replyscore/internal/model"
)

// maxEmbedAttempts is one call plus one retry
const maxEmbedAttempts = 2

// Retrying retries a failed call to the wrapped embedder once
type Retrying struct {
	inner  Embedder
	delay  time.Duration
	logger logging.Logger
}

// NewRetrying wraps inner; delay separates the two attempts
func NewRetrying(inner Embedder, delay time.Duration, logger logging.Logger) Embedder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Retrying{inner: inner, delay: delay, logger: logger}
}

// Name returns the wrapped model name
func (r *Retrying) Name() string {
	return r.inner.Name()
}

// Embed stops retrying as soon as ctx is done
func (r *Retrying) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxEmbedAttempts; attempt++ {
		if attempt > 1 {
			if err := wait(ctx, r.delay); err != nil {
				lastErr = errors.Join(lastErr, err)
				break
			}
		}

		vecs, err := r.inner.Embed(ctx, texts)
		if err == nil {
			return vecs, nil
		}

		lastErr = err
		r.logger.Warn("embedding attempt failed", "model", r.inner.Name(), "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			break
		}
	}

	if errors.Is(lastErr, model.ErrScoringUnavailable) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %s: %w", model.ErrScoringUnavailable, r.inner.Name(), lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
