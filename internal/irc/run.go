package irc

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/lrstanley/girc"

	"pkdindustries/gptrelay/internal/config"
	"pkdindustries/gptrelay/internal/core"
	"pkdindustries/gptrelay/internal/relay"
)

const (
	maxRetries     = 5
	reconnectDelay = 5 * time.Second
)

// NewClient builds the girc client and requests the capabilities replies
// depend on.
func NewClient(cfg *config.Configuration) *girc.Client {
	client := girc.New(girc.Config{
		Server:    cfg.Server.Server,
		Port:      cfg.Server.Port,
		Nick:      cfg.Server.Nick,
		User:      "gptrelay",
		Name:      "gptrelay",
		SSL:       cfg.Server.SSL,
		TLSConfig: &tls.Config{InsecureSkipVerify: cfg.Server.TLSInsecure},
		SupportedCaps: map[string][]string{
			"message-tags":            nil,
			"echo-message":            nil,
			"draft/message-redaction": nil,
		},
	})

	if cfg.Server.SASLNick != "" && cfg.Server.SASLPass != "" {
		client.Config.SASL = &girc.SASLPlain{
			User: cfg.Server.SASLNick,
			Pass: cfg.Server.SASLPass,
		}
	}
	return client
}

// Run connects to the IRC server and passes every channel or private message
// to handle until ctx is done.
func Run(ctx context.Context, cfg *config.Configuration, sys core.System, handle func(core.ChatContextInterface)) error {
	cache, err := NewMessageCache(cfg.Server.CacheSize)
	if err != nil {
		return err
	}
	client := NewClient(cfg)

	go func() {
		<-ctx.Done()
		client.Quit("Shutting down...")
		slog.Info("irc client closed")
	}()

	client.Handlers.AddBg(girc.CONNECTED, func(client *girc.Client, e girc.Event) {
		slog.Info("joining channel", "channel", cfg.Server.Channel,
			"message_tags", client.HasCapability("message-tags"),
			"echo_message", client.HasCapability("echo-message"))
		client.Cmd.Join(cfg.Server.Channel)
	})

	client.Handlers.AddBg(girc.PRIVMSG, func(client *girc.Client, e girc.Event) {
		if e.Source == nil || len(e.Params) == 0 {
			return
		}
		nick := client.GetNick()
		msg := ToRelayMessage(e, nick)
		cache.Add(msg)

		// our own lines come back as echoes; they are only kept for reply chains
		if e.Echo || msg.AuthorID == girc.ToRFC1459(nick) {
			return
		}

		builder := relay.NewBuilder(Identity(nick), cache, cfg.Bot.MaxDepth, slog.Default())
		chatctx, cancel := NewIRCContext(ctx, cfg, sys, builder, client, e, client.HasCapability("message-tags"))
		defer cancel()

		chatctx.GetLogger().Debug(">> "+chatctx.Text(), "msgid", msg.ID, "reply_to", msg.ReplyTo)
		handle(chatctx)
	})

	return connect(ctx, client)
}

// connect retries a failed connection a bounded number of times.
func connect(ctx context.Context, client *girc.Client) error {
	for i := range maxRetries {
		if ctx.Err() != nil {
			return nil
		}

		slog.Info("connecting to server",
			"server", client.Config.Server,
			"port", client.Config.Port,
			"tls", client.Config.SSL,
			"sasl", client.Config.SASL != nil,
		)

		if err := client.Connect(); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			slog.Error("connection failed", "error", err)
			slog.Info("reconnecting", "delay", reconnectDelay, "attempt", i+1, "max", maxRetries)

			select {
			case <-time.After(reconnectDelay):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	}

	return fmt.Errorf("failed to connect after %d attempts", maxRetries)
}
