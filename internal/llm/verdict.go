package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/replyscore/internal/model"
)

const (
	keyAllCorrect = "all_correct"
	keyConfidence = "confidence"
	keyNotes      = "notes"
)

// PresenceKey returns the JSON key the judge uses for one fact
func PresenceKey(factName string) string {
	return factName + "_present"
}

// ParseVerdict validates a judge response against the expected facts.
// Every presence key plus all_correct, confidence and notes must be present
// with the right type, and confidence must lie in [0,1].
func ParseVerdict(raw string, facts model.FactSet, strategy string) (model.FactVerdict, error) {
	body := stripCodeFence(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return model.FactVerdict{}, fmt.Errorf("judge response is not a JSON object: %w", err)
	}

	verdict := model.FactVerdict{
		Strategy: strategy,
		Flags:    make([]model.FactFlag, 0, len(facts)),
	}

	for _, f := range facts {
		present, err := boolField(fields, PresenceKey(f.Name))
		if err != nil {
			return model.FactVerdict{}, err
		}
		verdict.Flags = append(verdict.Flags, model.FactFlag{Name: f.Name, Present: present})
	}

	allCorrect, err := boolField(fields, keyAllCorrect)
	if err != nil {
		return model.FactVerdict{}, err
	}

	// AllPresent is derived from the flags; a contradicting all_correct is noted
	allPresent := len(verdict.Flags) > 0
	for _, flag := range verdict.Flags {
		allPresent = allPresent && flag.Present
	}
	verdict.AllPresent = allPresent

	value, ok := fields[keyConfidence]
	if !ok || isNull(value) {
		return model.FactVerdict{}, fmt.Errorf("judge response missing %q", keyConfidence)
	}
	var confidence float64
	if err := json.Unmarshal(value, &confidence); err != nil {
		return model.FactVerdict{}, fmt.Errorf("judge response field %q is not a number", keyConfidence)
	}
	if confidence < 0 || confidence > 1 {
		return model.FactVerdict{}, fmt.Errorf("judge confidence %.3f outside [0,1]", confidence)
	}
	verdict.Confidence = confidence

	value, ok = fields[keyNotes]
	if !ok || isNull(value) {
		return model.FactVerdict{}, fmt.Errorf("judge response missing %q", keyNotes)
	}
	if err := json.Unmarshal(value, &verdict.Notes); err != nil {
		return model.FactVerdict{}, fmt.Errorf("judge response field %q is not a string", keyNotes)
	}

	if allCorrect != allPresent {
		verdict.Notes = strings.TrimSpace(verdict.Notes + " (judge all_correct disagreed with per-fact flags)")
	}

	return verdict, nil
}

func boolField(fields map[string]json.RawMessage, key string) (bool, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return false, fmt.Errorf("judge response missing %q", key)
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("judge response field %q is not a boolean", key)
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// stripCodeFence removes a surrounding ``` or ```json fence
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
