package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/replyscore/internal/cache"
	"github.com/ppiankov/replyscore/internal/embed"
	"github.com/ppiankov/replyscore/internal/limit"
	"github.com/ppiankov/replyscore/internal/llm"
	"github.com/ppiankov/replyscore/internal/logging"
	"github.com/ppiankov/replyscore/internal/model"
	"github.com/ppiankov/replyscore/internal/normalize"
	"github.com/ppiankov/replyscore/internal/score"
	"github.com/ppiankov/replyscore/internal/validate"
)

// LexicalProvider selects score.Lexical instead of an embedding model
const LexicalProvider = "lexical"

// remoteRetryDelay separates the two attempts of a remote judge or embedding call
const remoteRetryDelay = 500 * time.Millisecond

// BuildOptions selects optional components
type BuildOptions struct {
	// Fallback scores with the heuristic when the remote judge is unavailable
	Fallback bool

	// Similarity builds a similarity scorer over cfg.References
	Similarity bool

	// Preflight checks the judge provider is reachable before any reply is scored
	Preflight bool

	Logger logging.Logger
}

// Components are the collaborators assembled from configuration
type Components struct {
	Normalizer *normalize.Normalizer
	Validator  *validate.Validator
	Similarity score.SimilarityStrategy // Nil unless requested
	Limiter    *limit.Limiter
	Cache      *cache.MemoryCache // Nil when caching is disabled
}

// Build assembles normalizer, validator and (optionally) similarity scorer
func Build(ctx context.Context, cfg *model.Config, opts BuildOptions) (*Components, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	normalizer, err := normalize.New(cfg.Normalizer)
	if err != nil {
		return nil, err
	}

	c := &Components{
		Normalizer: normalizer,
		Limiter:    limit.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
	}
	if cfg.Cache.Enabled {
		c.Cache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	policy := score.PolicyFromModel(cfg.Policy)

	heuristic, err := score.NewHeuristic(cfg.Facts, policy)
	if err != nil {
		return nil, err
	}

	var primary score.FactStrategy = heuristic
	var fallback score.FactStrategy

	if cfg.Judge.Provider != "" {
		llmConfig := llm.ConfigFromModel(cfg.Judge)
		llmConfig.Logger = logger

		// Fallback covers runtime unavailability only; a judge that cannot be
		// constructed fails the build
		provider, err := llm.NewProvider(llmConfig)
		if err != nil {
			return nil, fmt.Errorf("judge provider: %w", err)
		}

		if opts.Preflight && !provider.IsAvailable(ctx) {
			if !opts.Fallback {
				return nil, fmt.Errorf("%w: judge provider %s failed its availability check", model.ErrScoringUnavailable, provider.Name())
			}
			logger.Warn("judge provider failed its availability check, replies will fall back to heuristic", "provider", provider.Name())
		}

		judge, err := score.NewRemoteJudge(provider, cfg.Facts, score.JudgeOptions{
			Timeout:    time.Duration(cfg.Judge.Timeout) * time.Second,
			RetryDelay: remoteRetryDelay,
			Model:      cfg.Judge.Model,
			MaxTokens:  cfg.Judge.MaxTokens,
			Limiter:    c.Limiter,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		primary = judge
		if opts.Fallback {
			fallback = heuristic
		}
	}

	c.Validator, err = validate.NewValidator(primary, validate.Options{
		Policy:            policy,
		RelevanceKeywords: cfg.Transcript.RelevanceKeywords,
		Fallback:          fallback,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}

	if opts.Similarity {
		c.Similarity, err = BuildSimilarity(ctx, cfg, c, logger)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// BuildSimilarity creates the similarity scorer selected by cfg.Embedding
func BuildSimilarity(ctx context.Context, cfg *model.Config, c *Components, logger logging.Logger) (score.SimilarityStrategy, error) {
	opts := score.SimilarityOptions{GradeScale: cfg.Policy.GradeScale}
	if cfg.Embedding.Normalize && c.Normalizer != nil {
		opts.Prepare = c.Normalizer.Normalize
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Embedding.Provider))
	if provider == LexicalProvider {
		lexical, err := score.NewLexical(cfg.References, opts)
		if err != nil {
			return nil, err
		}
		return lexical, nil
	}

	embedder, err := embed.New(embed.ConfigFromModel(cfg.Embedding, cfg.Judge))
	if err != nil {
		return nil, err
	}

	if provider == "openai" || provider == "ollama" {
		embedder = embed.NewRetrying(embed.NewLimited(embedder, c.Limiter, provider), remoteRetryDelay, logger)
	}
	if c.Cache != nil {
		embedder = embed.NewCached(embedder, c.Cache)
	}

	logger.Debug("embedding reference corpus", "model", embedder.Name(), "references", len(cfg.References))

	similarity, err := score.NewSimilarity(ctx, embedder, cfg.References, opts)
	if err != nil {
		return nil, err
	}
	return similarity, nil
}
