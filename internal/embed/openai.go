package embed

import (
	"context"
	"fmt"

	"github.com/ppiankov/replyscore/internal/model"
	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no embedding model is configured
const DefaultOpenAIModel = openai.SmallEmbedding3

// OpenAIEmbedder embeds texts with the OpenAI embeddings endpoint
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	config Config
}

// NewOpenAIEmbedder creates a new OpenAI embedder
func NewOpenAIEmbedder(config Config) (*OpenAIEmbedder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required for embeddings", model.ErrConfiguration)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	embeddingModel := openai.EmbeddingModel(config.Model)
	if embeddingModel == "" {
		embeddingModel = DefaultOpenAIModel
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  embeddingModel,
		config: config,
	}, nil
}

// Name returns the model name
func (e *OpenAIEmbedder) Name() string {
	return "openai:" + string(e.model)
}

// Embed sends all texts in one request
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeoutOf(e.config.Timeout, defaultTimeout))
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: OpenAI embeddings error: %w", model.ErrScoringUnavailable, err)
	}

	if err := checkCount(e.Name(), len(texts), len(resp.Data)); err != nil {
		return nil, err
	}

	vectors := make([][]float64, len(texts))
	for i, item := range resp.Data {
		// Data is documented to be in input order; Index is authoritative
		idx := item.Index
		if idx < 0 || idx >= len(texts) {
			idx = i
		}
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		vectors[idx] = vec
	}

	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("%w: %s returned no vector for text %d", model.ErrScoringUnavailable, e.Name(), i)
		}
	}

	return vectors, nil
}
