package commands

import (
	"strings"

	"pkdindustries/gptrelay/internal/core"
)

// HelpCommand handles the help command
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates a help command that can list registered commands
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string    { return "help" }
func (c *HelpCommand) AdminOnly() bool { return false }

func (c *HelpCommand) Execute(ctx core.ChatContextInterface) {
	prefix := ctx.GetConfig().Bot.Prefix
	isAdmin := ctx.IsAdmin()
	var names []string

	for _, cmd := range c.registry.All() {
		if cmd.AdminOnly() && !isAdmin {
			continue
		}
		names = append(names, prefix+cmd.Name())
	}

	ctx.Send("Supported commands: " + strings.Join(names, ", "))
}
