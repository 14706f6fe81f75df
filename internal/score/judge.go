package score

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/replyscore/internal/limit"
	"github.com/ppiankov/replyscore/internal/llm"
	"github.com/ppiankov/replyscore/internal/logging"
	"github.com/ppiankov/replyscore/internal/model"
)

const maxJudgeAttempts = 2 // One call plus one retry

// JudgeOptions configures a RemoteJudge
type JudgeOptions struct {
	Timeout    time.Duration // Per attempt; 0 uses 30s
	RetryDelay time.Duration // Pause before the retry
	Model      string
	MaxTokens  int
	Limiter    *limit.Limiter // Optional
	Logger     logging.Logger // Optional
}

// RemoteJudge delegates fact detection to an LLM provider
type RemoteJudge struct {
	provider llm.Provider
	facts    model.FactSet
	opts     JudgeOptions
	logger   logging.Logger
}

// NewRemoteJudge creates a judge strategy backed by provider
func NewRemoteJudge(provider llm.Provider, facts model.FactSet, opts JudgeOptions) (*RemoteJudge, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: remote judge requires an LLM provider", model.ErrConfiguration)
	}
	if err := facts.Validate(); err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &RemoteJudge{
		provider: provider,
		facts:    append(model.FactSet(nil), facts...),
		opts:     opts,
		logger:   logger,
	}, nil
}

// Name returns the provider name
func (j *RemoteJudge) Name() string {
	return j.provider.Name()
}

// Score asks the provider for a verdict, retrying once. Every failure,
// including a malformed judge response, is wrapped in ErrScoringUnavailable.
func (j *RemoteJudge) Score(ctx context.Context, candidate string) (model.FactVerdict, error) {
	req := llm.JudgeRequest{
		Candidate: candidate,
		Facts:     j.facts,
		Model:     j.opts.Model,
		MaxTokens: j.opts.MaxTokens,
	}

	var lastErr error
	for attempt := 1; attempt <= maxJudgeAttempts; attempt++ {
		if attempt > 1 {
			if err := wait(ctx, j.opts.RetryDelay); err != nil {
				lastErr = errors.Join(lastErr, err)
				break
			}
		}

		resp, err := j.attempt(ctx, req)
		if err == nil {
			j.logger.Debug("judge verdict", "provider", j.Name(), "model", resp.Model, "tokens", resp.TokensUsed, "attempt", attempt)
			return resp.Verdict, nil
		}

		lastErr = err
		j.logger.Warn("judge attempt failed", "provider", j.Name(), "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			break
		}
	}

	return model.FactVerdict{}, fmt.Errorf("%w: %s judge: %w", model.ErrScoringUnavailable, j.Name(), lastErr)
}

func (j *RemoteJudge) attempt(ctx context.Context, req llm.JudgeRequest) (*llm.JudgeResponse, error) {
	if err := j.opts.Limiter.Wait(ctx, j.Name()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, j.opts.Timeout)
	defer cancel()

	resp, err := j.provider.Judge(attemptCtx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("judge returned no response")
	}
	if len(resp.Verdict.Flags) != len(j.facts) {
		return nil, fmt.Errorf("judge returned %d flags for %d facts", len(resp.Verdict.Flags), len(j.facts))
	}

	return resp, nil
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
