// Package validate decides whether chatbot replies state the expected facts.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/replyscore/internal/logging"
	"github.com/ppiankov/replyscore/internal/model"
	"github.com/ppiankov/replyscore/internal/score"
)

// NotRelevantNote is recorded for replies skipped by the relevance gate
const NotRelevantNote = "reply does not mention any relevance keyword"

// Options configures a Validator
type Options struct {
	// Policy decides acceptance of a verdict
	Policy score.ConfidencePolicy

	// RelevanceKeywords gate scoring: a reply mentioning none of them
	// (case-insensitive) is not scored. Empty disables the gate.
	RelevanceKeywords []string

	// Fallback is used when the primary strategy is unavailable. Nil means
	// the error is returned instead.
	Fallback score.FactStrategy

	// Logger is optional
	Logger logging.Logger
}

// Validator validates replies with a primary fact strategy
type Validator struct {
	primary  score.FactStrategy
	fallback score.FactStrategy
	policy   score.ConfidencePolicy
	keywords []string
	logger   logging.Logger
}

// NewValidator creates a new validator
func NewValidator(primary score.FactStrategy, opts Options) (*Validator, error) {
	if primary == nil {
		return nil, fmt.Errorf("%w: validator requires a fact strategy", model.ErrConfiguration)
	}

	var keywords []string
	for _, k := range opts.RelevanceKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Validator{
		primary:  primary,
		fallback: opts.Fallback,
		policy:   opts.Policy,
		keywords: keywords,
		logger:   logger,
	}, nil
}

// Strategy returns the primary strategy name
func (v *Validator) Strategy() string {
	return v.primary.Name()
}

// IsRelevant reports whether text passes the relevance gate
func (v *Validator) IsRelevant(text string) bool {
	if len(v.keywords) == 0 {
		return true
	}

	lower := strings.ToLower(text)
	for _, k := range v.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// ValidateReply validates a bare reply text
func (v *Validator) ValidateReply(ctx context.Context, text string) (model.MessageResult, error) {
	return v.ValidateMessage(ctx, model.Message{Text: text})
}

// ValidateMessage scores one message. Irrelevant messages are rejected
// without calling any strategy.
func (v *Validator) ValidateMessage(ctx context.Context, msg model.Message) (model.MessageResult, error) {
	result := model.MessageResult{Message: msg}

	if !v.IsRelevant(msg.Text) {
		result.Notes = NotRelevantNote
		return result, nil
	}
	result.Relevant = true

	verdict, err := v.primary.Score(ctx, msg.Text)
	if err != nil {
		if v.fallback == nil || !errors.Is(err, model.ErrScoringUnavailable) {
			return result, fmt.Errorf("score with %s: %w", v.primary.Name(), err)
		}

		warning := fmt.Sprintf("%s unavailable, scored with %s: %v", v.primary.Name(), v.fallback.Name(), err)
		v.logger.Warn("primary strategy unavailable, using fallback", "primary", v.primary.Name(), "fallback", v.fallback.Name(), "error", err)

		verdict, err = v.fallback.Score(ctx, msg.Text)
		if err != nil {
			return result, fmt.Errorf("score with fallback %s: %w", v.fallback.Name(), err)
		}
		result.Warnings = append(result.Warnings, warning)
	}

	result.Verdict = &verdict
	result.Accepted = v.policy.Accept(verdict)
	result.Notes = verdict.Notes

	return result, nil
}

// ValidateConversation validates the bot's messages in order. It stops at
// the first message that cannot be scored and returns the results so far.
func (v *Validator) ValidateConversation(ctx context.Context, messages []model.Message) ([]model.MessageResult, error) {
	results := make([]model.MessageResult, 0, len(messages))

	for i, msg := range messages {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := v.ValidateMessage(ctx, msg)
		if err != nil {
			return results, fmt.Errorf("message %d: %w", i+1, err)
		}
		results = append(results, result)

		v.logger.Debug("message validated", "index", i+1, "relevant", result.Relevant, "accepted", result.Accepted)
	}

	return results, nil
}
