package bot

import (
	"time"

	"pkdindustries/gptrelay/internal/commands"
	"pkdindustries/gptrelay/internal/core"
)

// NewHandler returns the message handler shared by every platform
func NewHandler(registry *commands.Registry) func(core.ChatContextInterface) {
	return func(ctx core.ChatContextInterface) {
		HandleMessage(ctx, registry)
	}
}

// HandleMessage runs a prefixed command, or answers with a completion when the
// message addresses the bot.
func HandleMessage(ctx core.ChatContextInterface, registry *commands.Registry) {
	msg := ctx.GetMessage()
	if msg.AuthorIsBot || msg.AuthorID == ctx.GetIdentity().ID {
		return
	}

	if registry.Dispatch(ctx) {
		return
	}

	if !ctx.IsTriggered() {
		return
	}

	ctx.GetLogger().Info("triggered", "message", msg.ID, "reply_to", msg.ReplyTo)
	defer core.LogDuration(ctx.GetLogger(), "completion_response", time.Now())
	commands.CompletionResponse(ctx, "")
}
