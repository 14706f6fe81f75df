package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/ppiankov/replyscore/internal/normalize"
)

// DefaultDimension is the vector size of the hashing model
const DefaultDimension = 512

// HashingEmbedder is an offline feature-hashing model. Tokens and adjacent
// token pairs are hashed into a fixed number of signed buckets and the
// vector is L2-normalized, so identical texts always embed identically.
type HashingEmbedder struct {
	dimension int
}

// NewHashingEmbedder creates a hashing embedder; dimension <= 0 uses DefaultDimension
func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashingEmbedder{dimension: dimension}
}

// Name returns the model name
func (h *HashingEmbedder) Name() string {
	return "hashing"
}

// Dimension returns the vector size
func (h *HashingEmbedder) Dimension() int {
	return h.dimension
}

// Embed never fails; ctx is accepted for interface compatibility
func (h *HashingEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = h.embedOne(text)
	}
	return vectors, nil
}

func (h *HashingEmbedder) embedOne(text string) []float64 {
	vec := make([]float64, h.dimension)

	var words []string
	for _, token := range normalize.Tokenize(strings.ToLower(text)) {
		if isWordToken(token) {
			words = append(words, token)
		}
	}

	for i, word := range words {
		h.add(vec, word, 1.0)
		if i > 0 {
			h.add(vec, words[i-1]+" "+word, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}

	return vec
}

// add hashes a feature into its bucket; the top hash bit picks the sign
func (h *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()

	bucket := int(sum % uint64(h.dimension))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}

func isWordToken(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
