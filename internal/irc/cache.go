package irc

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"pkdindustries/gptrelay/internal/relay"
)

const DefaultCacheSize = 1000

// ErrNotCached is returned when a reply references a message the cache no
// longer holds, or never saw.
var ErrNotCached = errors.New("message not in cache")

// MessageCache remembers recent channel messages by msgid so reply chains
// can be walked without server-side history.
type MessageCache struct {
	messages *lru.Cache[string, relay.Message]
}

var _ relay.Resolver = (*MessageCache)(nil)

func NewMessageCache(size int) (*MessageCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	messages, err := lru.New[string, relay.Message](size)
	if err != nil {
		return nil, fmt.Errorf("create message cache: %w", err)
	}
	return &MessageCache{messages: messages}, nil
}

// Add stores m under its id. Messages without an id are ignored.
func (c *MessageCache) Add(m relay.Message) {
	if m.ID == "" {
		return
	}
	c.messages.Add(m.ID, m)
}

func (c *MessageCache) Get(id string) (relay.Message, bool) {
	return c.messages.Get(id)
}

func (c *MessageCache) Len() int {
	return c.messages.Len()
}

func (c *MessageCache) Resolve(_ context.Context, m relay.Message) (*relay.Message, error) {
	parent, ok := c.messages.Get(m.ReplyTo)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCached, m.ReplyTo)
	}
	return &parent, nil
}
