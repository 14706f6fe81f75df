package model

import "errors"

var (
	// ErrScoringUnavailable marks a scorer that could not produce a score
	// (model or remote judge unreachable, malformed response). It is never
	// returned for a legitimate zero score.
	ErrScoringUnavailable = errors.New("scoring unavailable")

	// ErrConfiguration marks invalid construction input such as missing
	// expected facts or an empty reference corpus.
	ErrConfiguration = errors.New("configuration error")
)
