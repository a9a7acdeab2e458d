package core

import (
	"context"
	"log/slog"

	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/llm"
	"pkdindustries/gptrelay/internal/relay"
	"pkdindustries/gptrelay/internal/settings"
)

type Event interface {
	GetMessage() relay.Message
	GetParent() *relay.Message
	IsTriggered() bool
	IsAdmin() bool
	GetCommand() string
	GetArgs() []string
	GetArgText() string
	GetSource() string
}

type Responder interface {
	// Reply answers the triggering message as a threaded reply.
	Reply(string)
	// Send posts to the channel the message came from.
	Send(string)
	Typing()
}

type Runtime interface {
	GetConfig() *config.Configuration
	GetSystem() System
	GetLogger() *slog.Logger
	GetIdentity() relay.Identity
	GetBuilder() *relay.Builder
}

// ChatContextInterface provides all context needed for handling a chat message
type ChatContextInterface interface {
	context.Context
	Event
	Responder
	Runtime
}

type System interface {
	GetSettings() settings.Store
	GetCompleter() llm.Completer
}
