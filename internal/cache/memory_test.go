package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set("short", []byte("v"), 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, found := c.Get("short")
	assert.False(t, found)
}

func TestKey(t *testing.T) {
	k1 := Key("hashing", "texto")
	k2 := Key("hashing", "texto")
	k3 := Key("openai", "texto")
	k4 := Key("hashing", "outro")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
	assert.Contains(t, k1, "replyscore:v1:hashing:")
}

func TestMemoryCache_Stats(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), 0))

	c.Get("k")
	c.Get("k")
	c.Get("missing")

	assert.Equal(t, Stats{Entries: 1, Hits: 2, Misses: 1}, c.Stats())
}
