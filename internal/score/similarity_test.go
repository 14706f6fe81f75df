package score

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/replyscore/internal/embed"
	"github.com/ppiankov/replyscore/internal/model"
	"github.com/ppiankov/replyscore/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableEmbedder returns fixed vectors keyed by text
type tableEmbedder struct {
	vectors map[string][]float64
	err     error
	seen    []string
}

func (e *tableEmbedder) Name() string { return "table" }

func (e *tableEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.seen = append(e.seen, texts...)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := e.vectors[t]
		if !ok {
			v = []float64{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func TestSimilarity_IdenticalCandidate(t *testing.T) {
	refs := model.DefaultReferences()
	s, err := NewSimilarity(context.Background(), embed.NewHashingEmbedder(256), refs, SimilarityOptions{})
	require.NoError(t, err)

	for i, ref := range refs {
		res, err := s.Score(context.Background(), ref)
		require.NoError(t, err)
		assert.Len(t, res.Scores, len(refs))
		assert.InDelta(t, 1.0, res.Scores[i], 1e-9)
		assert.InDelta(t, 1.0, res.BestScore, 1e-9)
		assert.Equal(t, ref, res.BestReference)
		assert.InDelta(t, 5.0, res.Grade, 1e-9)
	}
}

func TestSimilarity_TieGoesToLowestIndex(t *testing.T) {
	e := &tableEmbedder{vectors: map[string][]float64{
		"a":         {1, 0, 0},
		"b":         {1, 0, 0},
		"c":         {0, 1, 0},
		"candidate": {1, 0, 0},
	}}
	s, err := NewSimilarity(context.Background(), e, []string{"c", "a", "b"}, SimilarityOptions{})
	require.NoError(t, err)

	res, err := s.Score(context.Background(), "candidate")
	require.NoError(t, err)
	assert.Equal(t, 1, res.BestIndex)
	assert.Equal(t, "a", res.BestReference)
	assert.Equal(t, []float64{0, 1, 1}, res.Scores)
}

func TestSimilarity_GradeRounding(t *testing.T) {
	e := &tableEmbedder{vectors: map[string][]float64{
		"ref":       {1, 0},
		"candidate": {3, 4},
	}}
	s, err := NewSimilarity(context.Background(), e, []string{"ref"}, SimilarityOptions{GradeScale: 10})
	require.NoError(t, err)

	res, err := s.Score(context.Background(), "candidate")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, res.BestScore, 1e-9)
	assert.Equal(t, 6.0, res.Grade)
}

func TestSimilarity_PrepareAppliesToBothSides(t *testing.T) {
	e := &tableEmbedder{}
	s, err := NewSimilarity(context.Background(), e, []string{"Olá Mundo"}, SimilarityOptions{Prepare: strings.ToUpper})
	require.NoError(t, err)

	_, err = s.Score(context.Background(), "exame pronto")
	require.NoError(t, err)
	assert.Equal(t, []string{"OLÁ MUNDO", "EXAME PRONTO"}, e.seen)
	assert.Equal(t, []string{"Olá Mundo"}, s.References())
}

func TestSimilarity_WithNormalizer(t *testing.T) {
	n := normalize.NewPortuguese()
	refs := model.DefaultReferences()
	s, err := NewSimilarity(context.Background(), embed.NewHashingEmbedder(512), refs, SimilarityOptions{Prepare: n.Normalize})
	require.NoError(t, err)

	// Differs from reference 0 only by punctuation and case
	res, err := s.Score(context.Background(), strings.ToLower(strings.ReplaceAll(refs[0], ".", "!")))
	require.NoError(t, err)
	assert.Equal(t, 0, res.BestIndex)
	assert.InDelta(t, 1.0, res.BestScore, 1e-9)
}

func TestSimilarity_Errors(t *testing.T) {
	_, err := NewSimilarity(context.Background(), embed.NewHashingEmbedder(8), nil, SimilarityOptions{})
	assert.ErrorIs(t, err, model.ErrConfiguration)

	_, err = NewSimilarity(context.Background(), nil, []string{"a"}, SimilarityOptions{})
	assert.ErrorIs(t, err, model.ErrConfiguration)

	down := &tableEmbedder{err: errors.New("connection refused")}
	_, err = NewSimilarity(context.Background(), down, []string{"a"}, SimilarityOptions{})
	assert.ErrorIs(t, err, model.ErrScoringUnavailable)

	e := &tableEmbedder{}
	s, err := NewSimilarity(context.Background(), e, []string{"a"}, SimilarityOptions{})
	require.NoError(t, err)
	e.err = errors.New("timeout")
	_, err = s.Score(context.Background(), "b")
	assert.ErrorIs(t, err, model.ErrScoringUnavailable)
}

func TestCosine(t *testing.T) {
	v, err := Cosine([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	v, err = Cosine([]float64{1, 0}, []float64{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, v, 1e-12)

	v, err = Cosine([]float64{0, 0}, []float64{1, 0})
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = Cosine([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
}

func TestLexical(t *testing.T) {
	refs := model.DefaultReferences()
	l, err := NewLexical(refs, SimilarityOptions{})
	require.NoError(t, err)

	res, err := l.Score(context.Background(), refs[2])
	require.NoError(t, err)
	assert.Len(t, res.Scores, 3)
	assert.Equal(t, 2, res.BestIndex)
	assert.Equal(t, 1.0, res.BestScore)
	assert.Equal(t, 5.0, res.Grade)
	assert.Equal(t, "lexical", res.Strategy)

	_, err = NewLexical(nil, SimilarityOptions{})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestLexicalSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, LexicalSimilarity("", ""))
	assert.Equal(t, 0.0, LexicalSimilarity("abc", ""))
	assert.Equal(t, 0.5, LexicalSimilarity("abcd", "abxy"))
	assert.InDelta(t, 0.8, LexicalSimilarity("laudo", "lauda"), 1e-12)
	assert.Equal(t, 1.0, LexicalSimilarity("ação", "ação"))
}
