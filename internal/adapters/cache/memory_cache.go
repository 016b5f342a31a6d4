package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/core"
)

type memoryEntry struct {
	stats     map[string]int
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the ReputationCache
// interface. Entries live only for the process lifetime.
type MemoryCache struct {
	entries     map[string]memoryEntry
	mu          sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	logger      *zap.Logger
	stopCh      chan struct{}
}

// NewMemoryCache creates a new in-memory reputation cache and starts
// its background cleanup task.
func NewMemoryCache(ttl, cleanupFreq time.Duration, logger *zap.Logger) *MemoryCache {
	c := &MemoryCache{
		entries:     make(map[string]memoryEntry),
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}

	go c.startCleanupTask()

	return c
}

// Get retrieves cached verdict counts for a URL.
func (c *MemoryCache) Get(_ context.Context, url string) (map[string]int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, core.ErrCacheMiss
	}
	return entry.stats, nil
}

// Set stores verdict counts for a URL.
func (c *MemoryCache) Set(_ context.Context, url string, stats map[string]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[url] = memoryEntry{
		stats:     stats,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0
	for url, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, url)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired reputation entries", zap.Int("expired_count", expiredCount))
	return nil
}

func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up reputation cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task.
func (c *MemoryCache) Stop() {
	close(c.stopCh)
}
