package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/domain"
)

func TestQueryCacheHitAndMiss(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	chunks := []domain.Chunk{{Content: "a", Similarity: 0.9}}

	_, ok := c.Get("q", 5, "")
	assert.False(t, ok)

	c.Put("q", 5, "", chunks)

	got, ok := c.Get("q", 5, "")
	require.True(t, ok)
	assert.Equal(t, chunks, got)

	// Different topK or filter is a different key.
	_, ok = c.Get("q", 3, "")
	assert.False(t, ok)
	_, ok = c.Get("q", 5, "doc.txt")
	assert.False(t, ok)
}

func TestQueryCacheTTLExpiry(t *testing.T) {
	c := NewQueryCache(10, 10*time.Millisecond)
	c.Put("q", 5, "", []domain.Chunk{{Content: "a"}})

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("q", 5, "")
	assert.False(t, ok)
}

func TestQueryCacheEvictsOldest(t *testing.T) {
	c := NewQueryCache(2, time.Minute)

	c.Put("q1", 5, "", []domain.Chunk{{Content: "1"}})
	c.Put("q2", 5, "", []domain.Chunk{{Content: "2"}})
	c.Put("q3", 5, "", []domain.Chunk{{Content: "3"}})

	_, ok := c.Get("q1", 5, "")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("q2", 5, "")
	assert.True(t, ok)
	_, ok = c.Get("q3", 5, "")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestQueryCacheClear(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("q", 5, "", []domain.Chunk{{Content: "a"}})

	c.Clear()

	assert.Zero(t, c.Len())
	_, ok := c.Get("q", 5, "")
	assert.False(t, ok)
}
