package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/relay"
)

// ChatContext carries the platform-neutral half of ChatContextInterface.
// Platform adapters embed it and add IsAdmin and the Responder methods.
type ChatContext struct {
	context.Context
	Sys     System
	Config  *config.Configuration
	Self    relay.Identity
	Builder *relay.Builder

	message relay.Message
	parent  *relay.Message
	source  string
	command string
	args    []string
	argText string
	logger  *slog.Logger
}

// NewChatContext resolves the parent of msg when it is a reply and parses a
// prefixed command out of the raw content. Only the completion is bounded by
// the configured API timeout, see WithAPITimeout.
func NewChatContext(parentctx context.Context, cfg *config.Configuration, system System, builder *relay.Builder, msg relay.Message, source string) (*ChatContext, context.CancelFunc) {
	basectx, cancel := context.WithCancel(parentctx)

	// Generate a unique request ID for correlation
	requestID := generateRequestID()

	ctx := &ChatContext{
		Context: basectx,
		Sys:     system,
		Config:  cfg,
		Self:    builder.Self,
		Builder: builder,
		message: msg,
		source:  source,
		logger: slog.Default().With(
			"request_id", requestID,
			"channel", msg.Channel,
			"source", source,
		),
	}

	if msg.IsReply() && builder.Resolver != nil {
		parent, err := builder.Resolver.Resolve(basectx, msg)
		if err != nil {
			ctx.logger.Debug("parent not resolved", "parent", msg.ReplyTo, "error", err)
		} else {
			ctx.parent = parent
		}
	}

	if cmd, ok := ParseCommand(cfg.Bot.Prefix, msg.Content); ok {
		ctx.command = cmd.Name
		ctx.args = cmd.Args
		ctx.argText = cmd.Text
	}

	return ctx, cancel
}

// WithAPITimeout bounds ctx by the configured API timeout. Replies must be
// sent on the unbounded parent so a timed out completion is still reported.
func WithAPITimeout(ctx context.Context, cfg *config.Configuration) (context.Context, context.CancelFunc) {
	if cfg == nil || cfg.API == nil || cfg.API.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.API.Timeout)
}

func (c *ChatContext) GetMessage() relay.Message {
	return c.message
}

func (c *ChatContext) GetParent() *relay.Message {
	return c.parent
}

func (c *ChatContext) IsTriggered() bool {
	return relay.ShouldTrigger(c.Self, c.message, c.parent)
}

// GetCommand returns the lower-cased command name, or "" when the message is
// not a prefixed command.
func (c *ChatContext) GetCommand() string {
	return c.command
}

func (c *ChatContext) GetArgs() []string {
	return c.args
}

func (c *ChatContext) GetArgText() string {
	return c.argText
}

func (c *ChatContext) GetSource() string {
	return c.source
}

func (c *ChatContext) GetConfig() *config.Configuration {
	return c.Config
}

func (c *ChatContext) GetSystem() System {
	return c.Sys
}

func (c *ChatContext) GetLogger() *slog.Logger {
	return c.logger
}

func (c *ChatContext) GetIdentity() relay.Identity {
	return c.Self
}

func (c *ChatContext) GetBuilder() *relay.Builder {
	return c.Builder
}

// IsOwner reports whether id is listed in owners. An empty list matches nobody.
func IsOwner(owners []string, id string) bool {
	for _, owner := range owners {
		if owner == id {
			return true
		}
	}
	return false
}

// generateRequestID creates a unique 8-character request ID for correlation
func generateRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
