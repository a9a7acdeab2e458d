package discord

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"

	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/relay"
)

const intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

// Run connects to the Discord gateway and passes every message to handle
// until ctx is done.
func Run(ctx context.Context, cfg *config.Configuration, sys core.System, handle func(core.ChatContextInterface)) error {
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = intents

	dir := stateDirectory{state: dg.State}
	owners := slices.Clone(cfg.Bot.Owners)
	app, err := dg.Application("@me")
	if err != nil {
		slog.Warn("could not fetch application owner", "error", err)
	} else if app.Owner != nil && !slices.Contains(owners, app.Owner.ID) {
		owners = append(owners, app.Owner.ID)
	}
	if len(owners) == 0 {
		slog.Warn("no owners configured; owner commands are disabled")
	}

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("connected to discord", "user", r.User.Username, "guilds", len(r.Guilds))
	})

	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || s.State.User == nil {
			return
		}
		self := s.State.User
		identity := relay.Identity{
			ID:          self.ID,
			DisplayName: DisplayName(dir, m.GuildID, self),
			Mention:     MentionPattern(self.ID),
		}
		builder := relay.NewBuilder(identity, NewResolver(s, dir, m.Message), cfg.Bot.MaxDepth, slog.Default())

		chatctx, cancel := NewDiscordContext(ctx, cfg, sys, builder, dir, s, m.Message, owners)
		defer cancel()
		handle(chatctx)
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer dg.Close()

	slog.Info("discord bot is now running", "owners", len(owners))
	<-ctx.Done()
	slog.Info("discord session closing")
	return nil
}
