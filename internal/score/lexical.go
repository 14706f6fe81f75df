package score

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/ppiankov/replyscore/internal/model"
)

// Lexical scores a reply by normalized edit-distance similarity
// (1 - distance/max length) against each prepared reference. It is the
// fallback when no embedding model is configured.
type Lexical struct {
	references []string
	prepared   []string
	opts       SimilarityOptions
}

// NewLexical creates a lexical scorer over references
func NewLexical(references []string, opts SimilarityOptions) (*Lexical, error) {
	if len(references) == 0 {
		return nil, fmt.Errorf("%w: reference corpus is empty", model.ErrConfiguration)
	}

	prepared := make([]string, len(references))
	for i, ref := range references {
		prepared[i] = opts.prepare(ref)
	}

	return &Lexical{
		references: append([]string(nil), references...),
		prepared:   prepared,
		opts:       opts,
	}, nil
}

// Name returns the strategy name
func (l *Lexical) Name() string {
	return "lexical"
}

// Score never fails
func (l *Lexical) Score(_ context.Context, candidate string) (model.SimilarityResult, error) {
	prepared := l.opts.prepare(candidate)

	scores := make([]float64, len(l.prepared))
	for i, ref := range l.prepared {
		scores[i] = LexicalSimilarity(prepared, ref)
	}

	return buildResult(l.Name(), scores, l.references, l.opts.scale()), nil
}

// LexicalSimilarity returns 1 - levenshtein(a, b)/max(len(a), len(b)) over
// runes; two empty strings are identical
func LexicalSimilarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
