package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/replyscore/internal/model"
	"github.com/ppiankov/replyscore/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	validateFormat     string
	validateBot        string
	validateJudge      string
	validateModel      string
	validateFallback   bool
	validatePreflight  bool
	validateSimilarity bool
	validateEmbedder   string
	validateJSON       string
	validateMD         string
	validateTimeout    time.Duration
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <transcript>",
	Short: "Validate the bot replies of a conversation transcript",
	Long: `Validate the bot replies of a conversation transcript.

The transcript is a chat export (text) or a saved chat page (html); "-" reads
stdin. Every bot reply mentioning a relevance keyword is checked for the
configured facts, and optionally compared with the reference replies.

Examples:
  replyscore validate chat.txt --bot "Futurotec Homologação"
  replyscore validate page.html --format html --similarity
  replyscore validate chat.txt --judge openai --fallback --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFormat, "format", "", "transcript format: text or html (default from config)")
	validateCmd.Flags().StringVar(&validateBot, "bot", "", "sender name of the bot in text transcripts")
	validateCmd.Flags().StringVar(&validateJudge, "judge", "", "LLM judge provider: openai, anthropic, ollama (default: local heuristic)")
	validateCmd.Flags().StringVar(&validateModel, "model", "", "LLM judge model")
	validateCmd.Flags().BoolVar(&validateFallback, "fallback", false, "score with the heuristic when the judge is unavailable")
	validateCmd.Flags().BoolVar(&validatePreflight, "preflight", false, "check the judge provider is reachable before scoring")
	validateCmd.Flags().BoolVar(&validateSimilarity, "similarity", false, "compare replies with the reference corpus")
	validateCmd.Flags().StringVar(&validateEmbedder, "embedder", "", "similarity model: hashing, openai, ollama, lexical")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "write JSON report to file")
	validateCmd.Flags().StringVar(&validateMD, "md", "", "write Markdown report to file")
	validateCmd.Flags().DurationVar(&validateTimeout, "timeout", 5*time.Minute, "overall timeout")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyValidateFlags(cfg)

	logger := newLogger(cfg)
	defer func() { _ = logger.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, validateTimeout)
	defer cancelTimeout()

	components, err := pipeline.Build(ctx, cfg, pipeline.BuildOptions{
		Fallback:   validateFallback,
		Similarity: validateSimilarity,
		Preflight:  validatePreflight,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	p := pipeline.NewPipeline(cfg, components, logger)

	if verbose {
		fmt.Fprintf(os.Stderr, "Validating %s with %s\n", args[0], components.Validator.Strategy())
	}

	report, err := p.ValidateFile(ctx, args[0])
	if err != nil {
		if errors.Is(err, model.ErrScoringUnavailable) && !validateFallback {
			fmt.Fprintf(os.Stderr, "Hint: rerun with --fallback to score with the local heuristic\n")
		}
		return fmt.Errorf("validate: %w", err)
	}

	if err := p.RenderReport(report, validateJSON, validateMD, verbose); err != nil {
		return err
	}

	if verbose && components.Cache != nil {
		stats := components.Cache.Stats()
		fmt.Fprintf(os.Stderr, "Embedding cache: %d entries, %d hits, %d misses\n", stats.Entries, stats.Hits, stats.Misses)
	}

	return nil
}

// applyValidateFlags lets command flags override the loaded config
func applyValidateFlags(cfg *model.Config) {
	if validateFormat != "" {
		cfg.Transcript.Format = validateFormat
	}
	if validateBot != "" {
		cfg.Transcript.BotSender = validateBot
	}
	if validateJudge != "" {
		cfg.Judge.Provider = validateJudge
		applyProviderEnv(&cfg.Judge.APIKey, &cfg.Judge.BaseURL, cfg.Judge.Provider)
	}
	if validateModel != "" {
		cfg.Judge.Model = validateModel
	}
	if validateEmbedder != "" {
		cfg.Embedding.Provider = validateEmbedder
		applyProviderEnv(&cfg.Embedding.APIKey, &cfg.Embedding.BaseURL, cfg.Embedding.Provider)
	}
}
