package commands

import (
	"fmt"

	"pkdindustries/gptrelay/internal/core"
)

// Redactor is implemented by contexts that can remove the triggering message
type Redactor interface {
	Redact() error
}

// SetSettingCommand stores its first argument in a setting. Owner only.
type SetSettingCommand struct {
	name      string
	field     string
	usage     string
	confirm   string
	redactArg bool
}

// NewSetKeyCommand handles setchatgptkey
func NewSetKeyCommand() *SetSettingCommand {
	return &SetSettingCommand{
		name:      "setchatgptkey",
		field:     "api_key",
		usage:     "<api_key>",
		confirm:   "ChatGPT api key set.",
		redactArg: true,
	}
}

// NewSetModelCommand handles setchatgptmodel
func NewSetModelCommand() *SetSettingCommand {
	return &SetSettingCommand{
		name:    "setchatgptmodel",
		field:   "model",
		usage:   "<model>",
		confirm: "ChatGPT model set.",
	}
}

func (c *SetSettingCommand) Name() string    { return c.name }
func (c *SetSettingCommand) AdminOnly() bool { return true }

func (c *SetSettingCommand) Execute(ctx core.ChatContextInterface) {
	if c.redactArg {
		// the key must not stay visible in the channel
		if r, ok := ctx.(Redactor); ok {
			if err := r.Redact(); err != nil {
				ctx.GetLogger().Warn("failed to delete message", "error", err)
			}
		}
	}

	args := ctx.GetArgs()
	if len(args) < 1 {
		ctx.Send(fmt.Sprintf("Usage: %s%s %s", ctx.GetConfig().Bot.Prefix, c.name, c.usage))
		return
	}
	value := args[0]

	field := settingFields[c.field]
	store := ctx.GetSystem().GetSettings()
	if err := field.setter(ctx, store, value); err != nil {
		ctx.GetLogger().Error("setting_change_failed", "key", c.field, "error", err)
		ctx.Send("Failed to save setting.")
		return
	}

	logged := value
	if field.secret {
		logged = maskAPIKey(value)
	}
	ctx.GetLogger().Info("setting_changed", "key", c.field, "value", logged)
	ctx.Send(c.confirm)
}

// GetModelCommand handles getchatgptmodel. Owner only.
type GetModelCommand struct{}

func (c *GetModelCommand) Name() string    { return "getchatgptmodel" }
func (c *GetModelCommand) AdminOnly() bool { return true }

func (c *GetModelCommand) Execute(ctx core.ChatContextInterface) {
	s, err := ctx.GetSystem().GetSettings().Load(ctx)
	if err != nil {
		ctx.GetLogger().Error("settings_load_failed", "error", err)
		ctx.Send("Failed to read settings.")
		return
	}
	ctx.Send(fmt.Sprintf("ChatGPT model set to `%s`", settingFields["model"].getter(s)))
}
