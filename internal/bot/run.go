package bot

import (
	"context"
	"fmt"
	"log/slog"

	"pkdindustries/gptrelay/internal/commands"
	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/discord"
	"pkdindustries/gptrelay/internal/irc"
	"pkdindustries/gptrelay/internal/llm"
	"pkdindustries/gptrelay/internal/settings"
)

// platformRunner connects to a chat platform and feeds messages to handle
// until ctx is done.
type platformRunner func(ctx context.Context, cfg *config.Configuration, sys core.System, handle func(core.ChatContextInterface)) error

var platforms = map[string]platformRunner{
	config.PlatformDiscord: discord.Run,
	config.PlatformIRC:     irc.Run,
}

// Run starts the bot on the configured platform with the given configuration
func Run(ctx context.Context, cfg *config.Configuration) error {
	core.InitLogger(cfg.Bot.Verbose)

	runner, ok := platforms[cfg.Bot.Platform]
	if !ok {
		return fmt.Errorf("unknown platform %q", cfg.Bot.Platform)
	}

	store, err := OpenSettings(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close settings store", "error", err)
		}
	}()

	sys := &core.SystemImpl{
		Settings:  store,
		Completer: llm.NewOpenAIClient(cfg.API.OpenAIURL),
	}
	registry := NewRegistry()

	slog.Info("starting",
		"platform", cfg.Bot.Platform,
		"store", cfg.Settings.Store,
		"settings", cfg.Settings.Path,
		"commands", len(registry.All()),
	)
	return runner(ctx, cfg, sys, NewHandler(registry))
}

// OpenSettings opens the configured settings backend, seeding the api key from
// --openaikey when the store holds none.
func OpenSettings(ctx context.Context, cfg *config.Configuration) (*settings.Cached, error) {
	store, err := settings.Open(ctx, settings.StoreConfig{
		Backend:      cfg.Settings.Store,
		Path:         cfg.Settings.Path,
		DefaultModel: cfg.API.DefaultModel,
		SeedAPIKey:   cfg.API.OpenAIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return store, nil
}

// NewRegistry registers every chat command
func NewRegistry() *commands.Registry {
	registry := commands.NewRegistry()
	registry.Register(&commands.ChatCommand{})
	registry.Register(commands.NewSetKeyCommand())
	registry.Register(commands.NewSetModelCommand())
	registry.Register(&commands.GetModelCommand{})
	registry.Register(commands.NewHelpCommand(registry))
	registry.Register(&commands.VersionCommand{Version: "v" + Version})
	return registry
}
