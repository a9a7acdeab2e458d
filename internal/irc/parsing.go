package irc

import (
	"regexp"
	"strings"

	"github.com/lrstanley/girc"
)

// MentionPattern matches "nick: " or "nick, " at the start of any line.
func MentionPattern(nick string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^` + regexp.QuoteMeta(nick) + `[:,]\s`)
}

// CheckAddressed returns true if message opens with botNick followed by ':' or ',' and a space.
func CheckAddressed(message, botNick string) bool {
	if botNick == "" {
		return false
	}
	return MentionPattern(botNick).MatchString(message)
}

// MentionsNick reports whether nick appears as a whole word anywhere in message.
func MentionsNick(message, nick string) bool {
	if nick == "" {
		return false
	}
	for _, word := range strings.FieldsFunc(message, func(r rune) bool { return !isNickChar(r) }) {
		if girc.ToRFC1459(word) == girc.ToRFC1459(nick) {
			return true
		}
	}
	return false
}

func isNickChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune(`[]\`+"`"+`_^{|}-`, r)
}

// CheckAdmin returns true if hostmask matches any owner mask in the list.
// Masks may use '*' wildcards. An empty list matches nobody.
func CheckAdmin(hostmask string, ownerList []string) bool {
	if hostmask == "" {
		return false
	}
	for _, owner := range ownerList {
		if owner == hostmask || girc.Glob(hostmask, owner) {
			return true
		}
	}
	return false
}

// CheckPrivate returns true if target is not a channel.
func CheckPrivate(target string) bool {
	return !girc.IsValidChannel(target)
}

// ReplyTarget is where answers to a message sent to target by nick go.
func ReplyTarget(target, nick string) string {
	if CheckPrivate(target) {
		return nick
	}
	return target
}
