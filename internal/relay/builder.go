package relay

import (
	"context"
	"log/slog"
	"strings"
)

// DefaultMaxChainDepth bounds the reply-chain walk.
const DefaultMaxChainDepth = 25

// commandAlias is left in the text when a message also reads as a "chat" command.
const commandAlias = "chat "

// Builder walks a reply chain backwards and produces the conversation sent to
// the completion API.
type Builder struct {
	Self     Identity
	Resolver Resolver
	MaxDepth int
	Logger   *slog.Logger
}

func NewBuilder(self Identity, resolver Resolver, maxDepth int, logger *slog.Logger) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		Self:     self,
		Resolver: resolver,
		MaxDepth: maxDepth,
		Logger:   logger,
	}
}

// Build returns the conversation ending at m. override replaces the content of
// m itself when non-empty; parents always use their own text.
func (b *Builder) Build(ctx context.Context, m Message, override string) Conversation {
	reversed := make(Conversation, 0, 4)
	current := &m
	text := override
	maxDepth := b.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}

	for current != nil {
		if len(reversed) == maxDepth {
			b.logger().Debug("reply chain truncated", "depth", maxDepth, "message", current.ID)
			break
		}
		reversed = append(reversed, b.utterance(*current, text))
		text = ""

		if !current.IsReply() || b.Resolver == nil {
			break
		}
		parent, err := b.Resolver.Resolve(ctx, *current)
		if err != nil {
			b.logger().Debug("reply chain stopped", "message", current.ID, "parent", current.ReplyTo, "error", err)
			break
		}
		current = parent
	}

	conv := make(Conversation, len(reversed))
	for i, u := range reversed {
		conv[len(reversed)-1-i] = u
	}
	return conv
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Builder) utterance(m Message, override string) Utterance {
	role := RoleUser
	if m.AuthorID == b.Self.ID {
		role = RoleAssistant
	}

	content := m.CleanContent
	if override != "" {
		content = override
	}

	if b.Self.IsMention(m.Content) {
		content = dropPrefix(content, len(b.Self.DisplayName)+2)
	}
	if role == RoleUser {
		content = strings.TrimPrefix(content, commandAlias)
	}

	return Utterance{Role: role, Content: content}
}

// dropPrefix removes the first n bytes of s, yielding "" when s is shorter.
func dropPrefix(s string, n int) string {
	if n >= len(s) {
		return ""
	}
	return s[n:]
}
