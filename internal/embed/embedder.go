// Package embed provides sentence-embedding models used by similarity scoring.
package embed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/replyscore/internal/model"
)

// Embedder maps texts to dense vectors. Implementations must return exactly
// one vector per input text, in input order.
type Embedder interface {
	// Name identifies the model; it namespaces cache entries
	Name() string

	// Embed returns one vector per text
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Config holds embedder configuration
type Config struct {
	Provider  string // hashing, openai, ollama
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	Dimension int // hashing only

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel converts model.EmbeddingConfig to embed.Config. Proxy
// settings are shared with the judge configuration.
func ConfigFromModel(cfg model.EmbeddingConfig, proxy model.LLMConfig) Config {
	return Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		Dimension:  cfg.Dimension,
		HTTPProxy:  proxy.HTTPProxy,
		HTTPSProxy: proxy.HTTPSProxy,
		NoProxy:    proxy.NoProxy,
	}
}

// New creates an embedder based on configuration
func New(config Config) (Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "", "hashing":
		return NewHashingEmbedder(config.Dimension), nil

	case "openai":
		return NewOpenAIEmbedder(config)

	case "ollama":
		return NewOllamaEmbedder(config)

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider: %s (supported: hashing, openai, ollama)", model.ErrConfiguration, config.Provider)
	}
}

func timeoutOf(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func checkCount(name string, want, got int) error {
	if want != got {
		return fmt.Errorf("%w: %s returned %d vectors for %d texts", model.ErrScoringUnavailable, name, got, want)
	}
	return nil
}
