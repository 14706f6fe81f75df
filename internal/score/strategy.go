// Package score rates a candidate reply against expected facts or a
// reference corpus.
//
// Scorers never print; callers decide what to do with a result. A failure to
// produce a score is reported as model.ErrScoringUnavailable and is never
// folded into a zero score.
package score

import (
	"context"

	"github.com/ppiankov/replyscore/internal/model"
)

// FactStrategy decides which expected facts a reply contains
type FactStrategy interface {
	// Name identifies the strategy in verdicts and reports
	Name() string

	// Score returns one flag per expected fact, in fact order
	Score(ctx context.Context, candidate string) (model.FactVerdict, error)
}

// SimilarityStrategy compares a reply against a fixed reference corpus
type SimilarityStrategy interface {
	// Name identifies the strategy in results and reports
	Name() string

	// Score returns one score per reference, in corpus order
	Score(ctx context.Context, candidate string) (model.SimilarityResult, error)
}
