package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/replyscore/internal/pipeline"
	"github.com/ppiankov/replyscore/internal/score"
	"github.com/spf13/cobra"
)

var (
	similarityEmbedder  string
	similarityNormalize bool
	similarityRaw       bool
	similarityJSON      bool
	similarityRefs      []string
	similarityTimeout   time.Duration
)

// similarityCmd represents the similarity command
var similarityCmd = &cobra.Command{
	Use:   "similarity <candidate>",
	Short: "Score a reply against the reference corpus",
	Long: `Score a candidate reply against the reference replies.

Every reference gets a cosine similarity (or a normalized edit similarity for
the lexical model). The best match and its display grade are reported; the
grade is a rescaled score, not a probability.

Examples:
  replyscore similarity "Seu exame de ultrassonografia foi feito hoje"
  replyscore similarity --embedder lexical --ref "Olá" --ref "Bom dia" "Oi"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimilarity,
}

func init() {
	rootCmd.AddCommand(similarityCmd)

	similarityCmd.Flags().StringVar(&similarityEmbedder, "embedder", "", "similarity model: hashing, openai, ollama, lexical")
	similarityCmd.Flags().BoolVar(&similarityNormalize, "normalize", false, "normalize candidate and references before scoring")
	similarityCmd.Flags().BoolVar(&similarityRaw, "raw", false, "score the raw text even when config enables normalization")
	similarityCmd.Flags().BoolVar(&similarityJSON, "json", false, "print the result as JSON")
	similarityCmd.Flags().StringArrayVar(&similarityRefs, "ref", nil, "reference reply (repeatable, replaces the configured corpus)")
	similarityCmd.Flags().DurationVar(&similarityTimeout, "timeout", time.Minute, "overall timeout")
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if similarityEmbedder != "" {
		cfg.Embedding.Provider = similarityEmbedder
		applyProviderEnv(&cfg.Embedding.APIKey, &cfg.Embedding.BaseURL, cfg.Embedding.Provider)
	}
	if similarityNormalize {
		cfg.Embedding.Normalize = true
	}
	if similarityRaw {
		cfg.Embedding.Normalize = false
	}
	if len(similarityRefs) > 0 {
		cfg.References = similarityRefs
	}

	// Fact scoring is not used here; skip judge construction
	cfg.Judge.Provider = ""

	logger := newLogger(cfg)
	defer func() { _ = logger.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), similarityTimeout)
	defer cancel()

	components, err := pipeline.Build(ctx, cfg, pipeline.BuildOptions{Similarity: true, Logger: logger})
	if err != nil {
		return fmt.Errorf("build similarity: %w", err)
	}

	candidate := strings.Join(args, " ")
	result, err := components.Similarity.Score(ctx, candidate)
	if err != nil {
		return fmt.Errorf("similarity: %w", err)
	}

	out := cmd.OutOrStdout()
	if similarityJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "Model: %s\n\n", result.Strategy)
	for i, s := range result.Scores {
		marker := " "
		if i == result.BestIndex {
			marker = "*"
		}
		fmt.Fprintf(out, "%s [%d] %.4f  %s\n", marker, i, s, cfg.References[i])
	}
	fmt.Fprintf(out, "\nBest: %d (%.4f)\n", result.BestIndex, result.BestScore)
	fmt.Fprintf(out, "Grade: %.2f / %.0f\n", result.Grade, gradeScale(cfg.Policy.GradeScale))

	return nil
}

func gradeScale(scale float64) float64 {
	if scale <= 0 {
		return score.DefaultGradeScale
	}
	return scale
}
