package score

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/replyscore/internal/limit"
	"github.com/ppiankov/replyscore/internal/llm"
	"github.com/ppiankov/replyscore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider returns one scripted outcome per call
type scriptedProvider struct {
	errs  []error
	calls int
	delay time.Duration
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) IsAvailable(context.Context) bool { return true }

func (p *scriptedProvider) Judge(ctx context.Context, req llm.JudgeRequest) (*llm.JudgeResponse, error) {
	p.calls++
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if i := p.calls - 1; i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}

	flags := make([]model.FactFlag, len(req.Facts))
	for i, f := range req.Facts {
		flags[i] = model.FactFlag{Name: f.Name, Present: true}
	}
	return &llm.JudgeResponse{
		Verdict: model.FactVerdict{Strategy: p.Name(), Flags: flags, AllPresent: true, Confidence: 0.9},
		Model:   "scripted-1",
	}, nil
}

func TestRemoteJudge_Success(t *testing.T) {
	p := &scriptedProvider{}
	j, err := NewRemoteJudge(p, model.DefaultFacts(), JudgeOptions{})
	require.NoError(t, err)

	v, err := j.Score(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, v.AllPresent)
	assert.Equal(t, 0.9, v.Confidence)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "scripted", j.Name())
}

func TestRemoteJudge_RetriesOnce(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("503")}}
	j, err := NewRemoteJudge(p, model.DefaultFacts(), JudgeOptions{})
	require.NoError(t, err)

	v, err := j.Score(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, v.AllPresent)
	assert.Equal(t, 2, p.calls)
}

func TestRemoteJudge_Unavailable(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("503"), errors.New("invalid verdict")}}
	j, err := NewRemoteJudge(p, model.DefaultFacts(), JudgeOptions{})
	require.NoError(t, err)

	v, err := j.Score(context.Background(), "anything")
	require.ErrorIs(t, err, model.ErrScoringUnavailable)
	assert.Contains(t, err.Error(), "invalid verdict")
	assert.Empty(t, v.Flags)
	assert.Equal(t, maxJudgeAttempts, p.calls)
}

func TestRemoteJudge_PerAttemptTimeout(t *testing.T) {
	p := &scriptedProvider{delay: time.Second}
	j, err := NewRemoteJudge(p, model.DefaultFacts(), JudgeOptions{Timeout: 10 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = j.Score(context.Background(), "anything")
	require.ErrorIs(t, err, model.ErrScoringUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 2, p.calls)
}

func TestRemoteJudge_CancelledContextStopsRetry(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("503")}}
	j, err := NewRemoteJudge(p, model.DefaultFacts(), JudgeOptions{RetryDelay: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = j.Score(ctx, "anything")
	require.ErrorIs(t, err, model.ErrScoringUnavailable)
	assert.Equal(t, 1, p.calls)
}

func TestRemoteJudge_RateLimited(t *testing.T) {
	p := &scriptedProvider{}
	limiter := limit.NewLimiter(0.01, 1)
	j, err := NewRemoteJudge(p, model.DefaultFacts(), JudgeOptions{Limiter: limiter})
	require.NoError(t, err)

	_, err = j.Score(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = j.Score(ctx, "second")
	assert.ErrorIs(t, err, model.ErrScoringUnavailable)
	assert.Equal(t, 1, p.calls)
}

// shortProvider drops the last flag of every verdict
type shortProvider struct{ scriptedProvider }

func (p *shortProvider) Judge(ctx context.Context, req llm.JudgeRequest) (*llm.JudgeResponse, error) {
	resp, err := p.scriptedProvider.Judge(ctx, req)
	if err != nil {
		return nil, err
	}
	resp.Verdict.Flags = resp.Verdict.Flags[:len(resp.Verdict.Flags)-1]
	return resp, nil
}

func TestRemoteJudge_FlagCountMismatch(t *testing.T) {
	p := &shortProvider{}
	j, err := NewRemoteJudge(p, model.DefaultFacts(), JudgeOptions{})
	require.NoError(t, err)

	_, err = j.Score(context.Background(), "anything")
	assert.ErrorIs(t, err, model.ErrScoringUnavailable)
	assert.Equal(t, 2, p.calls)
}

func TestNewRemoteJudge_InvalidConfiguration(t *testing.T) {
	_, err := NewRemoteJudge(nil, model.DefaultFacts(), JudgeOptions{})
	assert.ErrorIs(t, err, model.ErrConfiguration)

	_, err = NewRemoteJudge(&scriptedProvider{}, nil, JudgeOptions{})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
