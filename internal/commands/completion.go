package commands

import (
	"fmt"

	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/llm"
)

// ChatCommand sends its text to the completion API, as if the bot had been mentioned
type ChatCommand struct{}

func (c *ChatCommand) Name() string      { return "chatgpt" }
func (c *ChatCommand) Aliases() []string { return []string{"chat"} }
func (c *ChatCommand) AdminOnly() bool   { return false }

func (c *ChatCommand) Execute(ctx core.ChatContextInterface) {
	text := ctx.GetArgText()
	if text == "" {
		ctx.Send(fmt.Sprintf("Usage: %schatgpt <message>", ctx.GetConfig().Bot.Prefix))
		return
	}
	CompletionResponse(ctx, text)
}

// CompletionResponse answers the current message with a completion. override
// replaces the text of the current message when non-empty.
func CompletionResponse(ctx core.ChatContextInterface, override string) {
	ctx.Typing()

	s, err := ctx.GetSystem().GetSettings().Load(ctx)
	if err != nil {
		ctx.GetLogger().Error("settings_load_failed", "error", err)
		ctx.Send("Failed to read settings.")
		return
	}

	if s.APIKey == "" {
		ctx.Send(fmt.Sprintf("ChatGPT API key not set. See `%ssetchatgptkey` to set one.", ctx.GetConfig().Bot.Prefix))
		return
	}
	if s.Model == "" {
		ctx.Send("ChatGPT model not set.")
		return
	}

	timedctx, cancel := core.WithAPITimeout(ctx, ctx.GetConfig())
	defer cancel()

	conv := ctx.GetBuilder().Build(timedctx, ctx.GetMessage(), override)
	ctx.GetLogger().Debug("conversation built", "utterances", len(conv), "model", s.Model)

	reply := llm.Reply(timedctx, ctx.GetSystem().GetCompleter(), conv, s.Model, s.APIKey, ctx.GetLogger())
	ctx.Reply(reply)
}
