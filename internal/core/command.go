package core

import (
	"strings"
	"unicode"
)

// ParsedCommand is a prefixed command found at the start of a message.
type ParsedCommand struct {
	Name string
	Args []string
	// Text is everything after the command name, leading whitespace removed.
	Text string
}

// ParseCommand reads "<prefix><name> [text]" from text. The name is lower-cased.
func ParseCommand(prefix, text string) (ParsedCommand, bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return ParsedCommand{}, false
	}

	rest := text[len(prefix):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	name := rest[:end]
	if name == "" {
		return ParsedCommand{}, false
	}

	body := strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	return ParsedCommand{
		Name: strings.ToLower(name),
		Args: strings.Fields(body),
		Text: body,
	}, true
}
