package irc

import (
	"github.com/lrstanley/girc"

	"pkdindustries/gptrelay/internal/relay"
)

// IRCv3 tags read and written by the relay.
const (
	tagMsgID  = "msgid"
	tagReply  = "+draft/reply"
	tagTyping = "+typing"
	tagBot    = "bot"
)

// Identity describes the bot under its current nick. Nicks compare under
// RFC 1459 case mapping.
func Identity(nick string) relay.Identity {
	return relay.Identity{
		ID:          girc.ToRFC1459(nick),
		DisplayName: nick,
		Mention:     MentionPattern(nick),
	}
}

// ToRelayMessage converts a PRIVMSG event. selfNick is the bot's current nick.
func ToRelayMessage(e girc.Event, selfNick string) relay.Message {
	var author, target string
	if e.Source != nil {
		author = e.Source.Name
	}
	if len(e.Params) > 0 {
		target = e.Params[0]
	}

	text := e.Last()
	m := relay.Message{
		Channel:      ReplyTarget(target, author),
		AuthorID:     girc.ToRFC1459(author),
		Content:      text,
		CleanContent: text,
	}
	m.ID, _ = e.Tags.Get(tagMsgID)
	m.ReplyTo, _ = e.Tags.Get(tagReply)
	_, m.AuthorIsBot = e.Tags.Get(tagBot)

	if MentionsNick(text, selfNick) {
		m.Mentions = []string{girc.ToRFC1459(selfNick)}
	}
	return m
}
