package model

// FactFlag records whether one expected fact was found in a reply
type FactFlag struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// FactVerdict is the result of fact-presence scoring
type FactVerdict struct {
	Strategy   string     `json:"strategy"`        // heuristic, openai, anthropic, ollama
	Flags      []FactFlag `json:"flags"`           // One flag per expected fact, in fact order
	AllPresent bool       `json:"all_present"`     // Logical AND of all flags
	Confidence float64    `json:"confidence"`      // Policy tier (heuristic) or judge-reported value
	Notes      string     `json:"notes,omitempty"` // Free text explanation
}

// Present reports whether the named fact was found
func (v *FactVerdict) Present(name string) bool {
	for _, f := range v.Flags {
		if f.Name == name {
			return f.Present
		}
	}
	return false
}

// PresentCount returns how many facts were found
func (v *FactVerdict) PresentCount() int {
	count := 0
	for _, f := range v.Flags {
		if f.Present {
			count++
		}
	}
	return count
}

// Missing returns the names of facts that were not found
func (v *FactVerdict) Missing() []string {
	var missing []string
	for _, f := range v.Flags {
		if !f.Present {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// SimilarityResult is the result of reference-similarity scoring
type SimilarityResult struct {
	Strategy      string    `json:"strategy"`       // Embedding model or "lexical"
	Scores        []float64 `json:"scores"`         // One score per reference, in corpus order
	BestIndex     int       `json:"best_index"`     // Argmax of Scores, lowest index on ties
	BestScore     float64   `json:"best_score"`     // Scores[BestIndex]
	BestReference string    `json:"best_reference"` // Reference text at BestIndex
	Grade         float64   `json:"grade"`          // Display scale, round(BestScore*scale, 2); not a probability
}
