package commands

import (
	"pkdindustries/gptrelay/internal/core"
)

// VersionCommand handles the version command
type VersionCommand struct {
	Version string
}

func (c *VersionCommand) Name() string    { return "version" }
func (c *VersionCommand) AdminOnly() bool { return false }

func (c *VersionCommand) Execute(ctx core.ChatContextInterface) {
	ctx.Send(ctx.GetIdentity().DisplayName + " " + c.Version)
}
