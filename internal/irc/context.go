package irc

import (
	"context"
	"errors"
	"strings"

	"github.com/lrstanley/girc"

	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/relay"
)

const (
	cmdTagMsg = "TAGMSG"
	cmdRedact = "REDACT"
)

// sender is the part of *girc.Client used to answer messages.
type sender interface {
	Send(event *girc.Event)
}

type IRCContext struct {
	*core.ChatContext
	client   sender
	event    girc.Event
	target   string
	tags     bool
	chunkMax int
	owners   []string
}

var _ core.ChatContextInterface = (*IRCContext)(nil)

// NewIRCContext wraps a PRIVMSG event. tags reports whether the server
// negotiated message-tags; without it replies fall back to "nick: " prefixes.
func NewIRCContext(parentctx context.Context, cfg *config.Configuration, sys core.System, builder *relay.Builder, client sender, e girc.Event, tags bool) (*IRCContext, context.CancelFunc) {
	source := ""
	if e.Source != nil {
		source = e.Source.Name
	}
	msg := ToRelayMessage(e, builder.Self.DisplayName)
	base, cancel := core.NewChatContext(parentctx, cfg, sys, builder, msg, source)

	return &IRCContext{
		ChatContext: base,
		client:      client,
		event:       e,
		target:      msg.Channel,
		tags:        tags,
		chunkMax:    cfg.Server.ChunkMax,
		owners:      cfg.Bot.Owners,
	}, cancel
}

func (c *IRCContext) IsAdmin() bool {
	if c.event.Source == nil {
		return false
	}
	hostmask := c.event.Source.String()
	admin := CheckAdmin(hostmask, c.owners)
	c.GetLogger().Debug("checking hostmask", "hostmask", hostmask, "owner", admin)
	return admin
}

// Reply answers the triggering message line by line, tagged with
// +draft/reply when the server supports it.
func (c *IRCContext) Reply(message string) {
	msgID := c.GetMessage().ID
	for i, line := range core.Split(message, c.chunkMax, true) {
		ev := &girc.Event{Command: girc.PRIVMSG, Params: []string{c.target, line}}
		switch {
		case c.tags && msgID != "":
			ev.Tags = girc.Tags{tagReply: msgID}
		case i == 0 && !CheckPrivate(c.target):
			ev.Params[1] = c.GetSource() + ": " + line
		}
		c.client.Send(ev)
	}
}

func (c *IRCContext) Send(message string) {
	for _, line := range core.Split(message, c.chunkMax, true) {
		c.client.Send(&girc.Event{Command: girc.PRIVMSG, Params: []string{c.target, line}})
	}
}

func (c *IRCContext) Typing() {
	if !c.tags {
		return
	}
	c.client.Send(&girc.Event{
		Command: cmdTagMsg,
		Params:  []string{c.target},
		Tags:    girc.Tags{tagTyping: "active"},
	})
}

// Redact asks the server to remove the triggering message. Needs a msgid
// and a server offering draft/message-redaction.
func (c *IRCContext) Redact() error {
	msgID := c.GetMessage().ID
	if !c.tags || msgID == "" {
		return errors.New("message cannot be redacted: no msgid")
	}
	c.client.Send(&girc.Event{Command: cmdRedact, Params: []string{c.target, msgID}})
	return nil
}

// Text returns the raw line with the addressing nick removed, for logging.
func (c *IRCContext) Text() string {
	text := c.GetMessage().Content
	if CheckAddressed(text, c.Self.DisplayName) {
		text = strings.TrimSpace(text[len(c.Self.DisplayName)+1:])
	}
	return text
}
