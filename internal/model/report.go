package model

import "time"

// Message is a single line of a chatbot conversation
type Message struct {
	Time   string `json:"time,omitempty"`   // "15:27" in WhatsApp exports
	Date   string `json:"date,omitempty"`   // "06/02/2025" in WhatsApp exports
	Sender string `json:"sender,omitempty"` // Empty when the source carries no sender (HTML capture)
	Text   string `json:"text"`
}

// MessageResult is the validation outcome for one bot reply
type MessageResult struct {
	Message    Message           `json:"message"`
	Relevant   bool              `json:"relevant"`             // False when the relevance gate skipped scoring
	Verdict    *FactVerdict      `json:"verdict,omitempty"`    // Nil when not relevant
	Similarity *SimilarityResult `json:"similarity,omitempty"` // Nil when no similarity scorer is configured
	Accepted   bool              `json:"accepted"`             // Policy decision
	Notes      string            `json:"notes,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"` // e.g., fallback strategy used
}

// Report is the complete output of validating a conversation
type Report struct {
	RunID       string          `json:"run_id"`
	Source      string          `json:"source"`       // Transcript path or "-"
	GeneratedAt time.Time       `json:"generated_at"` // UTC
	Strategy    string          `json:"strategy"`     // Primary fact strategy
	Similarity  string          `json:"similarity,omitempty"`
	Facts       FactSet         `json:"facts"`
	Results     []MessageResult `json:"results"`
	Totals      Totals          `json:"totals"`
}

// Totals summarizes a report
type Totals struct {
	Messages  int `json:"messages"`
	Relevant  int `json:"relevant"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Fallbacks int `json:"fallbacks"` // Verdicts produced by a strategy other than the primary
	Warnings  int `json:"warnings"`
}

// ComputeTotals recalculates Totals from Results
func (r *Report) ComputeTotals() {
	t := Totals{Messages: len(r.Results)}
	for _, res := range r.Results {
		if !res.Relevant {
			continue
		}
		t.Relevant++
		if res.Accepted {
			t.Accepted++
		} else {
			t.Rejected++
		}
		if res.Verdict != nil && res.Verdict.Strategy != r.Strategy {
			t.Fallbacks++
		}
		t.Warnings += len(res.Warnings)
	}
	r.Totals = t
}
