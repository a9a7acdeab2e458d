package discord

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"pkdindustries/gptrelay/internal/relay"
)

var (
	userMentionRe    = regexp.MustCompile(`<@!?(\d+)>`)
	roleMentionRe    = regexp.MustCompile(`<@&(\d+)>`)
	channelMentionRe = regexp.MustCompile(`<#(\d+)>`)
)

// Directory resolves the display names used when rendering mentions.
type Directory interface {
	// MemberName returns the guild nickname of u, if any.
	MemberName(guildID, userID string) (string, bool)
	RoleName(guildID, roleID string) (string, bool)
	ChannelName(channelID string) (string, bool)
}

// MentionPattern matches a mention of botID at the start of a line.
func MentionPattern(botID string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^(<@!?` + regexp.QuoteMeta(botID) + `>)`)
}

// DisplayName is the guild nickname of u, then the global name, then the username.
func DisplayName(dir Directory, guildID string, u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if guildID != "" && dir != nil {
		if nick, ok := dir.MemberName(guildID, u.ID); ok && nick != "" {
			return nick
		}
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// CleanContent renders mention tokens of m as readable names and defuses mass
// mentions.
func CleanContent(dir Directory, m *discordgo.Message) string {
	users := make(map[string]*discordgo.User, len(m.Mentions))
	for _, u := range m.Mentions {
		if u != nil {
			users[u.ID] = u
		}
	}

	content := userMentionRe.ReplaceAllStringFunc(m.Content, func(token string) string {
		id := userMentionRe.FindStringSubmatch(token)[1]
		u, ok := users[id]
		if !ok {
			if m.Author != nil && m.Author.ID == id {
				u = m.Author
			} else {
				return "@deleted-user"
			}
		}
		return "@" + DisplayName(dir, m.GuildID, u)
	})

	content = roleMentionRe.ReplaceAllStringFunc(content, func(token string) string {
		id := roleMentionRe.FindStringSubmatch(token)[1]
		if dir != nil {
			if name, ok := dir.RoleName(m.GuildID, id); ok {
				return "@" + name
			}
		}
		return "@deleted-role"
	})

	content = channelMentionRe.ReplaceAllStringFunc(content, func(token string) string {
		id := channelMentionRe.FindStringSubmatch(token)[1]
		if dir != nil {
			if name, ok := dir.ChannelName(id); ok {
				return "#" + name
			}
		}
		return "#deleted-channel"
	})

	content = strings.ReplaceAll(content, "@everyone", "@\u200beveryone")
	content = strings.ReplaceAll(content, "@here", "@\u200bhere")
	return content
}

// ToRelayMessage converts a Discord message into the platform-neutral form.
func ToRelayMessage(dir Directory, m *discordgo.Message) relay.Message {
	msg := relay.Message{
		ID:           m.ID,
		Channel:      m.ChannelID,
		Content:      m.Content,
		CleanContent: CleanContent(dir, m),
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorIsBot = m.Author.Bot
	}
	for _, u := range m.Mentions {
		if u != nil {
			msg.Mentions = append(msg.Mentions, u.ID)
		}
	}
	if m.MessageReference != nil {
		msg.ReplyTo = m.MessageReference.MessageID
	}
	return msg
}

// stateDirectory looks names up in the gateway state cache.
type stateDirectory struct {
	state *discordgo.State
}

func (d stateDirectory) MemberName(guildID, userID string) (string, bool) {
	member, err := d.state.Member(guildID, userID)
	if err != nil {
		return "", false
	}
	return member.Nick, member.Nick != ""
}

func (d stateDirectory) RoleName(guildID, roleID string) (string, bool) {
	role, err := d.state.Role(guildID, roleID)
	if err != nil {
		return "", false
	}
	return role.Name, true
}

func (d stateDirectory) ChannelName(channelID string) (string, bool) {
	ch, err := d.state.Channel(channelID)
	if err != nil {
		return "", false
	}
	return ch.Name, true
}
