package notification

import (
	"context"
	"sync"
)

// EmailCache memoizes email lookups by user id. A cache lives for one
// monitoring run; a fresh one is created per run so that a user whose address
// was missing can be reached on the next run.
type EmailCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewEmailCache() *EmailCache {
	return &EmailCache{entries: make(map[string]string)}
}

// Resolve returns the cached address for userID or calls lookup once and
// caches its result. Lookup errors are not cached.
func (c *EmailCache) Resolve(ctx context.Context, userID string, lookup func(context.Context, string) (string, error)) (string, error) {
	c.mu.Lock()
	if email, ok := c.entries[userID]; ok {
		c.mu.Unlock()
		return email, nil
	}
	c.mu.Unlock()

	email, err := lookup(ctx, userID)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.entries[userID] = email
	c.mu.Unlock()
	return email, nil
}

// size reports how many users have been resolved.
func (c *EmailCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
