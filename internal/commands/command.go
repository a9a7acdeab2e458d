package commands

import (
	"slices"
	"strings"

	"pkdindustries/gptrelay/internal/core"
)

const permissionDenied = "You don't have permission to perform this action."

// Command defines the interface for bot commands
type Command interface {
	Name() string
	Execute(ctx core.ChatContextInterface)
	AdminOnly() bool
}

// Aliased is implemented by commands reachable under more than one name
type Aliased interface {
	Aliases() []string
}

// Registry manages command registration and dispatch
type Registry struct {
	commands map[string]Command
	primary  []Command
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry under its name and aliases
func (r *Registry) Register(cmd Command) {
	r.commands[strings.ToLower(cmd.Name())] = cmd
	if a, ok := cmd.(Aliased); ok {
		for _, alias := range a.Aliases() {
			r.commands[strings.ToLower(alias)] = cmd
		}
	}
	r.primary = append(r.primary, cmd)
}

// Get retrieves a command by name or alias
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Dispatch executes the command named by the context.
// Returns true if the message was handled as a command, false otherwise
func (r *Registry) Dispatch(ctx core.ChatContextInterface) bool {
	cmdName := ctx.GetCommand()
	if cmdName == "" {
		return false
	}

	cmd, ok := r.Get(cmdName)
	if !ok {
		return false
	}

	// Check owner permission
	if cmd.AdminOnly() && !ctx.IsAdmin() {
		ctx.GetLogger().Info("command denied", "command", cmdName)
		ctx.Send(permissionDenied)
		return true
	}

	ctx.GetLogger().Debug("command", "command", cmdName)
	cmd.Execute(ctx)
	return true
}

// All returns all registered commands sorted by name, aliases excluded
func (r *Registry) All() []Command {
	cmds := slices.Clone(r.primary)
	slices.SortFunc(cmds, func(a, b Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return cmds
}
