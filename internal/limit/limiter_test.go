package limit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortCtx gives Wait only a few milliseconds to be admitted
func shortCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	assert.Equal(t, 5, limiter.defaultBurst)

	l2 := NewLimiter(10, -1)
	assert.Equal(t, 1, l2.defaultBurst)
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "openai"))
	require.NoError(t, limiter.Wait(ctx, "ollama"))
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	require.NoError(t, limiter.Wait(context.Background(), "openai"))

	// Burst 1: the token is consumed and the next one is 100s away
	assert.Error(t, limiter.Wait(shortCtx(t), "openai"))

	// Other service has its own bucket
	assert.NoError(t, limiter.Wait(shortCtx(t), "anthropic"))
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx := shortCtx(t)
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Wait(ctx, "openai"))
	}
}

func TestLimiter_Nil(t *testing.T) {
	var limiter *Limiter
	assert.NoError(t, limiter.Wait(context.Background(), "openai"))
}
