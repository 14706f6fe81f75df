package embed

import (
	"context"
	"fmt"

	"github.com/ppiankov/replyscore/internal/limit"
	"github.com/ppiankov/replyscore/internal/model"
)

// Limited waits on a rate limiter before each call to the wrapped embedder
type Limited struct {
	inner   Embedder
	limiter *limit.Limiter
	key     string
}

// NewLimited wraps inner; calls are keyed by key (typically the provider name)
func NewLimited(inner Embedder, limiter *limit.Limiter, key string) Embedder {
	if limiter == nil {
		return inner
	}
	return &Limited{inner: inner, limiter: limiter, key: key}
}

// Name returns the wrapped model name
func (l *Limited) Name() string {
	return l.inner.Name()
}

// Embed blocks until the limiter admits the call
func (l *Limited) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if err := l.limiter.Wait(ctx, l.key); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", model.ErrScoringUnavailable, err)
	}
	return l.inner.Embed(ctx, texts)
}
