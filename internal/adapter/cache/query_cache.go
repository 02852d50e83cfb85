package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"docrag/internal/domain"
)

// QueryCache caches retrieval results per (query, topK, filter) with TTL
// and bounded size (FIFO eviction). Safe for concurrent use.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	chunks    []domain.Chunk
	timestamp time.Time
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, topK int, documentFilter string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", query, topK, documentFilter)))
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(query string, topK int, documentFilter string) ([]domain.Chunk, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(query, topK, documentFilter)]
	if !ok || time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.chunks, true
}

func (c *QueryCache) Put(query string, topK int, documentFilter string, chunks []domain.Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, topK, documentFilter)
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &cacheEntry{chunks: chunks, timestamp: time.Now()}
}

// Clear drops all entries. Called after ingestion so stale results are
// never served against a changed corpus.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
