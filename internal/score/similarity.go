package score

import (
	"context"
	"fmt"
	"math"

	"github.com/ppiankov/replyscore/internal/embed"
	"github.com/ppiankov/replyscore/internal/model"
)

// DefaultGradeScale maps a [0,1] similarity onto a 0..5 display grade
const DefaultGradeScale = 5.0

// SimilarityOptions configures similarity scorers
type SimilarityOptions struct {
	// Prepare is applied to references and candidate alike (e.g.,
	// Normalizer.Normalize). Nil leaves texts unchanged.
	Prepare func(string) string

	// GradeScale multiplies the best score into the display grade
	GradeScale float64
}

func (o SimilarityOptions) prepare(text string) string {
	if o.Prepare == nil {
		return text
	}
	return o.Prepare(text)
}

func (o SimilarityOptions) scale() float64 {
	if o.GradeScale <= 0 {
		return DefaultGradeScale
	}
	return o.GradeScale
}

// Similarity scores a reply by cosine similarity of sentence embeddings.
// The reference corpus is embedded once at construction.
type Similarity struct {
	embedder   embed.Embedder
	references []string
	vectors    [][]float64
	opts       SimilarityOptions
}

// NewSimilarity embeds references with embedder and returns a scorer
func NewSimilarity(ctx context.Context, embedder embed.Embedder, references []string, opts SimilarityOptions) (*Similarity, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: similarity requires an embedding model", model.ErrConfiguration)
	}
	if len(references) == 0 {
		return nil, fmt.Errorf("%w: reference corpus is empty", model.ErrConfiguration)
	}

	prepared := make([]string, len(references))
	for i, ref := range references {
		prepared[i] = opts.prepare(ref)
	}

	vectors, err := embedder.Embed(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("%w: embed reference corpus: %w", model.ErrScoringUnavailable, err)
	}
	if len(vectors) != len(references) {
		return nil, fmt.Errorf("%w: %s returned %d vectors for %d references", model.ErrScoringUnavailable, embedder.Name(), len(vectors), len(references))
	}

	return &Similarity{
		embedder:   embedder,
		references: append([]string(nil), references...),
		vectors:    vectors,
		opts:       opts,
	}, nil
}

// Name returns the strategy name
func (s *Similarity) Name() string {
	return "embedding:" + s.embedder.Name()
}

// References returns the corpus in original (unprepared) form
func (s *Similarity) References() []string {
	return append([]string(nil), s.references...)
}

// Score embeds the prepared candidate and compares it with every reference
func (s *Similarity) Score(ctx context.Context, candidate string) (model.SimilarityResult, error) {
	vectors, err := s.embedder.Embed(ctx, []string{s.opts.prepare(candidate)})
	if err != nil {
		return model.SimilarityResult{}, fmt.Errorf("%w: embed candidate: %w", model.ErrScoringUnavailable, err)
	}
	if len(vectors) != 1 {
		return model.SimilarityResult{}, fmt.Errorf("%w: %s returned %d vectors for 1 text", model.ErrScoringUnavailable, s.embedder.Name(), len(vectors))
	}

	scores := make([]float64, len(s.vectors))
	for i, ref := range s.vectors {
		score, err := Cosine(vectors[0], ref)
		if err != nil {
			return model.SimilarityResult{}, fmt.Errorf("%w: %w", model.ErrScoringUnavailable, err)
		}
		scores[i] = score
	}

	return buildResult(s.Name(), scores, s.references, s.opts.scale()), nil
}

// Cosine returns the cosine similarity of a and b; a zero vector scores 0
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// buildResult picks the argmax (lowest index on ties) and computes the grade
func buildResult(strategy string, scores []float64, references []string, scale float64) model.SimilarityResult {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}

	return model.SimilarityResult{
		Strategy:      strategy,
		Scores:        scores,
		BestIndex:     best,
		BestScore:     scores[best],
		BestReference: references[best],
		Grade:         math.Round(scores[best]*scale*100) / 100,
	}
}
