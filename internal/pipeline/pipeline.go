// Package pipeline runs transcript extraction, reply validation and
// similarity scoring, and renders the resulting report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/replyscore/internal/extract"
	"github.com/ppiankov/replyscore/internal/logging"
	"github.com/ppiankov/replyscore/internal/model"
	"github.com/ppiankov/replyscore/internal/score"
	"github.com/ppiankov/replyscore/internal/validate"
)

// Transcript formats
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Pipeline orchestrates the complete validation process
type Pipeline struct {
	validator  *validate.Validator
	similarity score.SimilarityStrategy // Optional
	renderer   *Renderer
	config     *model.Config
	logger     logging.Logger
	now        func() time.Time
}

// NewPipeline creates a new pipeline from assembled components
func NewPipeline(cfg *model.Config, components *Components, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Pipeline{
		validator:  components.Validator,
		similarity: components.Similarity,
		renderer:   NewRenderer(os.Stdout),
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// ExtractMessages parses a transcript and returns the bot replies
func (p *Pipeline) ExtractMessages(r io.Reader, format string) ([]model.Message, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		messages, err := extract.ParseTranscript(r)
		if err != nil {
			return nil, fmt.Errorf("parse transcript: %w", err)
		}
		return extract.BotMessages(messages, p.config.Transcript.BotSender), nil

	case FormatHTML:
		messages, err := extract.ParseHTML(r, p.config.Transcript.MessageClass)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		// HTML captures only carry bot bubbles and no sender
		return extract.BotMessages(messages, ""), nil

	default:
		return nil, fmt.Errorf("%w: unknown transcript format: %s (supported: text, html)", model.ErrConfiguration, format)
	}
}

// ValidateFile validates the transcript at path; "-" reads stdin
func (p *Pipeline) ValidateFile(ctx context.Context, path string) (*model.Report, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open transcript: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	return p.ValidateTranscript(ctx, r, path)
}

// ValidateTranscript validates every bot reply of a transcript
func (p *Pipeline) ValidateTranscript(ctx context.Context, r io.Reader, source string) (*model.Report, error) {
	messages, err := p.ExtractMessages(r, p.config.Transcript.Format)
	if err != nil {
		return nil, err
	}

	p.logger.Info("transcript parsed", "source", source, "bot_messages", len(messages))

	return p.ValidateMessages(ctx, messages, source)
}

// ValidateMessages validates already extracted bot replies
func (p *Pipeline) ValidateMessages(ctx context.Context, messages []model.Message, source string) (*model.Report, error) {
	results, err := p.validator.ValidateConversation(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("validate conversation: %w", err)
	}

	if p.similarity != nil {
		for i := range results {
			if !results[i].Relevant {
				continue
			}

			sim, err := p.similarity.Score(ctx, results[i].Message.Text)
			if err != nil {
				// Similarity is informative; an unavailable model does not fail the run
				if !errors.Is(err, model.ErrScoringUnavailable) {
					return nil, fmt.Errorf("similarity: %w", err)
				}
				results[i].Warnings = append(results[i].Warnings, fmt.Sprintf("similarity unavailable: %v", err))
				p.logger.Warn("similarity unavailable", "strategy", p.similarity.Name(), "error", err)
				continue
			}
			results[i].Similarity = &sim
		}
	}

	report := &model.Report{
		RunID:       uuid.NewString(),
		Source:      source,
		GeneratedAt: p.now().UTC(),
		Strategy:    p.validator.Strategy(),
		Facts:       p.config.Facts,
		Results:     results,
	}
	if p.similarity != nil {
		report.Similarity = p.similarity.Name()
	}
	report.ComputeTotals()

	p.logger.Info("validation complete", "run_id", report.RunID, "relevant", report.Totals.Relevant, "accepted", report.Totals.Accepted)

	return report, nil
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}
