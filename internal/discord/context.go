package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/relay"
)

// messenger is the part of *discordgo.Session used to answer messages.
type messenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

type DiscordContext struct {
	*core.ChatContext
	discord messenger
	msg     *discordgo.Message
	owners  []string
}

var _ core.ChatContextInterface = (*DiscordContext)(nil)

func NewDiscordContext(parent context.Context, cfg *config.Configuration, sys core.System, builder *relay.Builder, dir Directory, s messenger, m *discordgo.Message, owners []string) (*DiscordContext, context.CancelFunc) {
	source := ""
	if m.Author != nil {
		source = m.Author.Username
	}
	base, cancel := core.NewChatContext(parent, cfg, sys, builder, ToRelayMessage(dir, m), source)
	return &DiscordContext{
		ChatContext: base,
		discord:     s,
		msg:         m,
		owners:      owners,
	}, cancel
}

func (c *DiscordContext) IsAdmin() bool {
	if c.msg.Author == nil {
		return false
	}
	admin := core.IsOwner(c.owners, c.msg.Author.ID)
	c.GetLogger().Debug("checking owner", "user_id", c.msg.Author.ID, "owner", admin)
	return admin
}

// Reply answers as a threaded reply, split at the Discord message limit.
func (c *DiscordContext) Reply(message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	ref := c.msg.Reference()
	for _, chunk := range core.Split(message, core.DiscordMessageLimit, false) {
		if _, err := c.discord.ChannelMessageSendReply(c.msg.ChannelID, chunk, ref, discordgo.WithContext(c)); err != nil {
			c.GetLogger().Error("failed to send reply", "error", err)
			return
		}
	}
}

func (c *DiscordContext) Send(message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	for _, chunk := range core.Split(message, core.DiscordMessageLimit, false) {
		if _, err := c.discord.ChannelMessageSend(c.msg.ChannelID, chunk, discordgo.WithContext(c)); err != nil {
			c.GetLogger().Error("failed to send message", "error", err)
			return
		}
	}
}

func (c *DiscordContext) Typing() {
	if err := c.discord.ChannelTyping(c.msg.ChannelID, discordgo.WithContext(c)); err != nil {
		c.GetLogger().Debug("typing indicator failed", "error", err)
	}
}

// Redact deletes the triggering message.
func (c *DiscordContext) Redact() error {
	return c.discord.ChannelMessageDelete(c.msg.ChannelID, c.msg.ID, discordgo.WithContext(c))
}
