package embed

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/ppiankov/replyscore/internal/cache"
)

// Cached memoizes vectors per text. Only texts missing from the cache are
// forwarded to the wrapped embedder.
type Cached struct {
	inner Embedder
	cache cache.Cache
}

// NewCached wraps inner with a cache; a nil cache returns inner unchanged
func NewCached(inner Embedder, c cache.Cache) Embedder {
	if c == nil {
		return inner
	}
	return &Cached{inner: inner, cache: c}
}

// Name returns the wrapped model name
func (c *Cached) Name() string {
	return c.inner.Name()
}

// Embed serves cached vectors and embeds the rest in one call
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if data, ok := c.cache.Get(cache.Key(c.inner.Name(), text)); ok {
			if vec, ok := decodeVector(data); ok {
				vectors[i] = vec
				continue
			}
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fresh, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if err := checkCount(c.inner.Name(), len(missing), len(fresh)); err != nil {
		return nil, err
	}

	for j, vec := range fresh {
		vectors[missingIdx[j]] = vec
		_ = c.cache.Set(cache.Key(c.inner.Name(), missing[j]), encodeVector(vec), 0)
	}

	return vectors, nil
}

func encodeVector(vec []float64) []byte {
	buf := make([]byte, 8*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float64, bool) {
	if len(data)%8 != 0 {
		return nil, false
	}
	vec := make([]float64, len(data)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return vec, true
}
