package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"pkdindustries/gptrelay/internal/relay"
)

// messageFetcher is the part of *discordgo.Session the resolver needs.
type messageFetcher interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Resolver resolves reply parents for one request. Referenced messages
// embedded in already seen messages are used before asking the API.
type Resolver struct {
	fetcher messageFetcher
	dir     Directory
	guildID string

	mu   sync.Mutex
	seen map[string]*discordgo.Message
}

var _ relay.Resolver = (*Resolver)(nil)

func NewResolver(fetcher messageFetcher, dir Directory, inbound *discordgo.Message) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		dir:     dir,
		guildID: inbound.GuildID,
		seen:    make(map[string]*discordgo.Message),
	}
	r.remember(inbound)
	return r
}

func (r *Resolver) remember(m *discordgo.Message) {
	if m == nil || m.ReferencedMessage == nil {
		return
	}
	r.mu.Lock()
	r.seen[m.ReferencedMessage.ID] = m.ReferencedMessage
	r.mu.Unlock()
}

func (r *Resolver) Resolve(ctx context.Context, m relay.Message) (*relay.Message, error) {
	if m.ReplyTo == "" {
		return nil, fmt.Errorf("message %s is not a reply", m.ID)
	}

	r.mu.Lock()
	parent, ok := r.seen[m.ReplyTo]
	r.mu.Unlock()

	if !ok {
		fetched, err := r.fetcher.ChannelMessage(m.Channel, m.ReplyTo, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", m.ReplyTo, err)
		}
		parent = fetched
	}
	r.remember(parent)

	// fetched messages may lack the guild id, which name lookups need
	if parent.GuildID == "" {
		cp := *parent
		cp.GuildID = r.guildID
		parent = &cp
	}

	msg := ToRelayMessage(r.dir, parent)
	if msg.Channel == "" {
		msg.Channel = m.Channel
	}
	return &msg, nil
}
