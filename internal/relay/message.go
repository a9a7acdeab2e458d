// Package relay holds the platform-neutral message model, the trigger rules and
// the reply-chain walk that turns a triggering message into a conversation.
package relay

import (
	"context"
	"regexp"
	"slices"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Utterance is one role-tagged unit of a Conversation.
type Utterance struct {
	Role    Role
	Content string
}

// Conversation is ordered oldest first.
type Conversation []Utterance

// Message is an inbound chat message as seen by the relay, independent of the
// platform it came from.
type Message struct {
	ID          string
	Channel     string
	AuthorID    string
	AuthorIsBot bool
	// Content is the raw text, mention tokens included.
	Content string
	// CleanContent is the display text, mentions rendered as @DisplayName.
	CleanContent string
	Mentions     []string
	// ReplyTo is the id of the parent message, empty when not a reply.
	ReplyTo string
}

// IsReply reports whether the message references a parent.
func (m Message) IsReply() bool {
	return m.ReplyTo != ""
}

// MentionsUser reports whether id is among the resolved mentions of m.
func (m Message) MentionsUser(id string) bool {
	return slices.Contains(m.Mentions, id)
}

// Identity is the bot's own identity on a platform.
type Identity struct {
	ID          string
	DisplayName string
	// Mention matches the bot-mention token anchored at a line start.
	Mention *regexp.Regexp
}

// IsMention reports whether content begins with the bot-mention token.
func (i Identity) IsMention(content string) bool {
	if i.Mention == nil {
		return false
	}
	return i.Mention.MatchString(content)
}

// Resolver fetches the parent of a reply. An error means the reference could
// not be resolved (deleted, expired from a cache, no access).
type Resolver interface {
	Resolve(ctx context.Context, m Message) (*Message, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, m Message) (*Message, error)

func (f ResolverFunc) Resolve(ctx context.Context, m Message) (*Message, error) {
	return f(ctx, m)
}
