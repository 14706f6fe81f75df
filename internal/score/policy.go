package score

import (
	"fmt"

	"github.com/ppiankov/replyscore/internal/model"
)

// ConfidencePolicy maps presence flags to a confidence tier and decides
// acceptance. The tier values are ad hoc and carry no statistical meaning.
type ConfidencePolicy struct {
	AllPresent      float64
	Paired          float64
	Any             float64
	None            float64
	Pairings        [][]string
	AcceptThreshold float64
}

// PolicyFromModel converts model.PolicyConfig to a ConfidencePolicy
func PolicyFromModel(cfg model.PolicyConfig) ConfidencePolicy {
	return ConfidencePolicy{
		AllPresent:      cfg.AllPresentConfidence,
		Paired:          cfg.PairedConfidence,
		Any:             cfg.AnyConfidence,
		None:            cfg.NoneConfidence,
		Pairings:        cfg.Pairings,
		AcceptThreshold: cfg.AcceptThreshold,
	}
}

// DefaultPolicy returns the reference tiers: 0.95, 0.7, 0.4, 0.0 and an
// acceptance threshold of 0.8
func DefaultPolicy() ConfidencePolicy {
	return PolicyFromModel(model.DefaultPolicy())
}

// Validate checks tier ranges and that every pairing names known facts
func (p ConfidencePolicy) Validate(facts model.FactSet) error {
	tiers := []struct {
		name  string
		value float64
	}{
		{"all_present", p.AllPresent},
		{"paired", p.Paired},
		{"any", p.Any},
		{"none", p.None},
		{"accept", p.AcceptThreshold},
	}
	for _, tier := range tiers {
		if tier.value < 0 || tier.value > 1 {
			return fmt.Errorf("%w: policy %s value %.2f outside [0,1]", model.ErrConfiguration, tier.name, tier.value)
		}
	}

	for i, pair := range p.Pairings {
		if len(pair) == 0 {
			return fmt.Errorf("%w: pairing %d is empty", model.ErrConfiguration, i)
		}
		for _, name := range pair {
			if _, ok := facts.Lookup(name); !ok {
				return fmt.Errorf("%w: pairing %d references unknown fact %q", model.ErrConfiguration, i, name)
			}
		}
	}

	return nil
}

// Confidence returns the tier for a set of flags
func (p ConfidencePolicy) Confidence(flags []model.FactFlag) float64 {
	present := make(map[string]bool, len(flags))
	count := 0
	for _, f := range flags {
		if f.Present {
			present[f.Name] = true
			count++
		}
	}

	switch {
	case len(flags) > 0 && count == len(flags):
		return p.AllPresent
	case p.pairingHolds(present):
		return p.Paired
	case count > 0:
		return p.Any
	default:
		return p.None
	}
}

func (p ConfidencePolicy) pairingHolds(present map[string]bool) bool {
	for _, pair := range p.Pairings {
		holds := len(pair) > 0
		for _, name := range pair {
			holds = holds && present[name]
		}
		if holds {
			return true
		}
	}
	return false
}

// Accept reports whether a verdict passes: every fact present and confidence
// at or above the threshold
func (p ConfidencePolicy) Accept(v model.FactVerdict) bool {
	return v.AllPresent && v.Confidence >= p.AcceptThreshold
}
