package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/replyscore/internal/model"
)

// Renderer writes reports as JSON, Markdown and a terminal summary
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer whose summary goes to out (stdout when nil)
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return os.WriteFile(path, []byte(Markdown(report)), 0o644)
}

// Markdown formats a report as a Markdown document
func Markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Reply Validation Report\n\n")
	fmt.Fprintf(&b, "- **Run:** `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- **Source:** %s\n", report.Source)
	fmt.Fprintf(&b, "- **Generated:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Strategy:** %s\n", report.Strategy)
	if report.Similarity != "" {
		fmt.Fprintf(&b, "- **Similarity:** %s\n", report.Similarity)
	}

	b.WriteString("\n## Expected facts\n\n")
	b.WriteString("| Fact | Value |\n|---|---|\n")
	for _, f := range report.Facts {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(f.DisplayName()), escapeCell(f.Value))
	}

	t := report.Totals
	b.WriteString("\n## Totals\n\n")
	b.WriteString("| Messages | Relevant | Accepted | Rejected | Fallbacks |\n|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n", t.Messages, t.Relevant, t.Accepted, t.Rejected, t.Fallbacks)

	b.WriteString("\n## Messages\n")
	for i, res := range report.Results {
		fmt.Fprintf(&b, "\n### %d. %s\n\n", i+1, verdictLabel(res))
		if res.Message.Time != "" || res.Message.Date != "" {
			fmt.Fprintf(&b, "_%s %s_\n\n", res.Message.Date, res.Message.Time)
		}
		for _, line := range strings.Split(res.Message.Text, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		b.WriteString("\n")

		if res.Verdict != nil {
			for _, flag := range res.Verdict.Flags {
				mark := "✗"
				if flag.Present {
					mark = "✓"
				}
				fmt.Fprintf(&b, "- %s %s\n", mark, flag.Name)
			}
			fmt.Fprintf(&b, "- Confidence: %.2f (%s)\n", res.Verdict.Confidence, res.Verdict.Strategy)
		}
		if res.Similarity != nil {
			fmt.Fprintf(&b, "- Similarity: %.3f, grade %.2f (reference %d)\n", res.Similarity.BestScore, res.Similarity.Grade, res.Similarity.BestIndex+1)
		}
		if res.Notes != "" {
			fmt.Fprintf(&b, "- Notes: %s\n", res.Notes)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- ⚠ %s\n", w)
		}
	}

	return b.String()
}

// RenderSummary prints a short summary
func (r *Renderer) RenderSummary(report *model.Report) {
	t := report.Totals

	fmt.Fprintf(r.out, "\nReply validation: %s (%s)\n", report.Source, report.Strategy)
	fmt.Fprintf(r.out, "  Bot messages: %d  relevant: %d  accepted: %d  rejected: %d\n", t.Messages, t.Relevant, t.Accepted, t.Rejected)
	if t.Fallbacks > 0 {
		fmt.Fprintf(r.out, "  Fallback verdicts: %d\n", t.Fallbacks)
	}

	for i, res := range report.Results {
		if !res.Relevant {
			continue
		}
		line := fmt.Sprintf("  %d. %s %s", i+1, verdictLabel(res), truncate(res.Message.Text, 60))
		if res.Similarity != nil {
			line += fmt.Sprintf(" [grade %.2f]", res.Similarity.Grade)
		}
		fmt.Fprintln(r.out, line)
	}
}

func verdictLabel(res model.MessageResult) string {
	switch {
	case !res.Relevant:
		return "SKIPPED"
	case res.Accepted:
		return "VALID"
	default:
		return "INVALID"
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
