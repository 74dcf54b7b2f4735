package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pribylovaa/go-featured-image/internal/models"
)

// memoryCache — потокобезопасный кэш в памяти процесса.
// Используется, когда Redis не сконфигурирован, и в тестах.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	// now подменяется в тестах для контроля истечения TTL.
	now func() time.Time
}

type memoryEntry struct {
	url       string
	expiresAt time.Time
}

// NewMemory создаёт пустой in-memory кэш.
func NewMemory() Cache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, photoID string, policy models.SizePolicy) (string, bool, error) {
	k := key("", photoID, policy)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	if !c.now().Before(e.expiresAt) {
		// Ленивое вычищение по чтению.
		c.mu.Lock()
		if cur, ok := c.entries[k]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, k)
		}
		c.mu.Unlock()

		return "", false, nil
	}

	return e.url, true, nil
}

func (c *memoryCache) Set(_ context.Context, photoID string, policy models.SizePolicy, url string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	k := key("", photoID, policy)

	c.mu.Lock()
	c.entries[k] = memoryEntry{url: url, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()

	return nil
}

func (c *memoryCache) Close() error { return nil }
