package score

import (
	"context"
	"strings"

	"github.com/ppiankov/replyscore/internal/model"
)

// Heuristic checks fact presence with a literal, case-sensitive substring
// test. It needs no network and never fails once constructed.
type Heuristic struct {
	facts  model.FactSet
	policy ConfidencePolicy
}

// NewHeuristic creates a heuristic strategy for the given facts
func NewHeuristic(facts model.FactSet, policy ConfidencePolicy) (*Heuristic, error) {
	if err := facts.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(facts); err != nil {
		return nil, err
	}

	return &Heuristic{
		facts:  append(model.FactSet(nil), facts...),
		policy: policy,
	}, nil
}

// Name returns the strategy name
func (h *Heuristic) Name() string {
	return "heuristic"
}

// Score flags every fact whose value occurs verbatim in candidate
func (h *Heuristic) Score(_ context.Context, candidate string) (model.FactVerdict, error) {
	verdict := model.FactVerdict{
		Strategy: h.Name(),
		Flags:    make([]model.FactFlag, len(h.facts)),
	}

	allPresent := true
	for i, f := range h.facts {
		present := strings.Contains(candidate, f.Value)
		verdict.Flags[i] = model.FactFlag{Name: f.Name, Present: present}
		allPresent = allPresent && present
	}

	verdict.AllPresent = allPresent
	verdict.Confidence = h.policy.Confidence(verdict.Flags)

	if missing := verdict.Missing(); len(missing) > 0 {
		verdict.Notes = "missing: " + strings.Join(missing, ", ")
	}

	return verdict, nil
}
