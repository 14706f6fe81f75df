package validate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ppiankov/replyscore/internal/model"
	"github.com/ppiankov/replyscore/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStrategy always returns err and counts calls
type failingStrategy struct {
	err   error
	calls int
}

func (f *failingStrategy) Name() string { return "failing" }

func (f *failingStrategy) Score(context.Context, string) (model.FactVerdict, error) {
	f.calls++
	return model.FactVerdict{}, f.err
}

// countingStrategy wraps a strategy and counts calls
type countingStrategy struct {
	score.FactStrategy
	calls int
}

func (c *countingStrategy) Score(ctx context.Context, text string) (model.FactVerdict, error) {
	c.calls++
	return c.FactStrategy.Score(ctx, text)
}

func heuristic(t *testing.T) *countingStrategy {
	t.Helper()
	h, err := score.NewHeuristic(model.DefaultFacts(), score.DefaultPolicy())
	require.NoError(t, err)
	return &countingStrategy{FactStrategy: h}
}

const goodReply = "Você tem um exame de ULTRASSONOGRAFIA realizado em 31/01/2025. O laudo está previsto para 03/02/2025."

func TestValidateMessage_Accepted(t *testing.T) {
	v, err := NewValidator(heuristic(t), Options{Policy: score.DefaultPolicy(), RelevanceKeywords: []string{"exame"}})
	require.NoError(t, err)

	res, err := v.ValidateReply(context.Background(), goodReply)
	require.NoError(t, err)
	assert.True(t, res.Relevant)
	assert.True(t, res.Accepted)
	require.NotNil(t, res.Verdict)
	assert.Equal(t, 0.95, res.Verdict.Confidence)
	assert.Empty(t, res.Warnings)
}

func TestValidateMessage_Rejected(t *testing.T) {
	v, err := NewValidator(heuristic(t), Options{Policy: score.DefaultPolicy(), RelevanceKeywords: []string{"exame"}})
	require.NoError(t, err)

	res, err := v.ValidateReply(context.Background(), "Seu exame de ULTRASSONOGRAFIA foi realizado em 31/01/2025.")
	require.NoError(t, err)
	assert.True(t, res.Relevant)
	assert.False(t, res.Accepted)
	assert.Equal(t, 0.7, res.Verdict.Confidence)
	assert.Contains(t, res.Notes, "report_due")
}

func TestValidateMessage_RelevanceGateSkipsScoring(t *testing.T) {
	h := heuristic(t)
	v, err := NewValidator(h, Options{Policy: score.DefaultPolicy(), RelevanceKeywords: []string{" EXAME "}})
	require.NoError(t, err)

	res, err := v.ValidateReply(context.Background(), "Olá! Como posso ajudar?")
	require.NoError(t, err)
	assert.False(t, res.Relevant)
	assert.False(t, res.Accepted)
	assert.Nil(t, res.Verdict)
	assert.Equal(t, NotRelevantNote, res.Notes)
	assert.Zero(t, h.calls)

	assert.True(t, v.IsRelevant("Seu EXAME está pronto"))
}

func TestValidateMessage_NoGate(t *testing.T) {
	h := heuristic(t)
	v, err := NewValidator(h, Options{Policy: score.DefaultPolicy()})
	require.NoError(t, err)

	res, err := v.ValidateReply(context.Background(), "Olá!")
	require.NoError(t, err)
	assert.True(t, res.Relevant)
	assert.Equal(t, 1, h.calls)
}

func TestValidateMessage_Fallback(t *testing.T) {
	primary := &failingStrategy{err: fmt.Errorf("%w: openai judge: 503", model.ErrScoringUnavailable)}
	v, err := NewValidator(primary, Options{Policy: score.DefaultPolicy(), Fallback: heuristic(t)})
	require.NoError(t, err)

	res, err := v.ValidateReply(context.Background(), goodReply)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "heuristic", res.Verdict.Strategy)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "failing unavailable")
}

func TestValidateMessage_UnavailableWithoutFallback(t *testing.T) {
	primary := &failingStrategy{err: fmt.Errorf("%w: judge down", model.ErrScoringUnavailable)}
	v, err := NewValidator(primary, Options{Policy: score.DefaultPolicy()})
	require.NoError(t, err)

	res, err := v.ValidateReply(context.Background(), goodReply)
	require.ErrorIs(t, err, model.ErrScoringUnavailable)
	assert.False(t, res.Accepted)
	assert.Nil(t, res.Verdict)
}

func TestValidateMessage_OtherErrorsBypassFallback(t *testing.T) {
	primary := &failingStrategy{err: errors.New("bug")}
	fallback := heuristic(t)
	v, err := NewValidator(primary, Options{Policy: score.DefaultPolicy(), Fallback: fallback})
	require.NoError(t, err)

	_, err = v.ValidateReply(context.Background(), goodReply)
	require.Error(t, err)
	assert.Zero(t, fallback.calls)
}

func TestValidateConversation(t *testing.T) {
	v, err := NewValidator(heuristic(t), Options{Policy: score.DefaultPolicy(), RelevanceKeywords: []string{"exame"}})
	require.NoError(t, err)

	messages := []model.Message{
		{Sender: "Bot", Text: "Olá! Sou o assistente virtual."},
		{Sender: "Bot", Text: goodReply},
		{Sender: "Bot", Text: "Seu exame está em análise."},
	}

	results, err := v.ValidateConversation(context.Background(), messages)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.False(t, results[0].Relevant)
	assert.True(t, results[1].Accepted)
	assert.True(t, results[2].Relevant)
	assert.False(t, results[2].Accepted)
	assert.Equal(t, messages[1], results[1].Message)
}

func TestValidateConversation_StopsOnError(t *testing.T) {
	primary := &failingStrategy{err: fmt.Errorf("%w: down", model.ErrScoringUnavailable)}
	v, err := NewValidator(primary, Options{Policy: score.DefaultPolicy(), RelevanceKeywords: []string{"exame"}})
	require.NoError(t, err)

	messages := []model.Message{{Text: "bom dia"}, {Text: goodReply}, {Text: goodReply}}
	results, err := v.ValidateConversation(context.Background(), messages)
	require.ErrorIs(t, err, model.ErrScoringUnavailable)
	assert.Contains(t, err.Error(), "message 2")
	assert.Len(t, results, 1)
	assert.Equal(t, 1, primary.calls)
}

func TestNewValidator_RequiresStrategy(t *testing.T) {
	_, err := NewValidator(nil, Options{})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
