package conversation

import (
	"context"
	"lifeline/app/config"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/do"
)

const janitorInterval = time.Minute

// ContextCache holds the transient per-sender context with a bounded
// lifetime, so abandoned conversations do not pin memory forever.
type ContextCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]contextEntry
}

type contextEntry struct {
	ctx       Context
	expiresAt time.Time
}

func NewContextCache(di *do.Injector) (*ContextCache, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewContextCacheWithTTL(cfg.Conversation.ContextTTL()), nil
}

func NewContextCacheWithTTL(ttl time.Duration) *ContextCache {
	return &ContextCache{
		ttl:     ttl,
		entries: make(map[string]contextEntry),
	}
}

// Get returns the sender's context, or a zero context if none is
// present or the entry expired.
func (c *ContextCache) Get(sender string) Context {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[sender]
	if !ok || time.Now().After(entry.expiresAt) {
		return Context{}
	}

	return entry.ctx
}

func (c *ContextCache) Put(sender string, ctx Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[sender] = contextEntry{
		ctx:       ctx,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *ContextCache) Delete(sender string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, sender)
}

// RunJanitor sweeps expired entries until ctx is cancelled.
func (c *ContextCache) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *ContextCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0

	for sender, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, sender)
			removed++
		}
	}

	if removed > 0 {
		slog.Debug("Swept expired conversation contexts", "count", removed)
	}
}
