package settings

import (
	"context"
	"io"
	"sync"
)

// Cached serves Load from memory after the first read. Writes go through to
// the wrapped store and invalidate the copy.
type Cached struct {
	store Store

	mu     sync.RWMutex
	loaded bool
	cached Settings
}

var _ Store = (*Cached)(nil)

func NewCached(store Store) *Cached {
	return &Cached{store: store}
}

func (c *Cached) Load(ctx context.Context) (Settings, error) {
	c.mu.RLock()
	if c.loaded {
		s := c.cached
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.cached, nil
	}

	s, err := c.store.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	c.cached = s
	c.loaded = true
	return s, nil
}

func (c *Cached) SetAPIKey(ctx context.Context, key string) error {
	defer c.Invalidate()
	return c.store.SetAPIKey(ctx, key)
}

func (c *Cached) SetModel(ctx context.Context, model string) error {
	defer c.Invalidate()
	return c.store.SetModel(ctx, model)
}

// Invalidate drops the in-memory copy so the next Load reads the store.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.cached = Settings{}
	c.mu.Unlock()
}

// Close closes the wrapped store when it holds resources.
func (c *Cached) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
