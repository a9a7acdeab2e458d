package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"pkdindustries/gptrelay/internal/bot"
	"pkdindustries/gptrelay/internal/config"
)

func main() {
	fmt.Printf("%s\n", bot.GetBanner(bot.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:    "gptrelay",
		Usage:   "relays chat messages to an OpenAI-compatible completion API",
		Version: bot.Version,
		Flags:   config.GetFlags(),
		Action:  run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	cfg := config.NewConfiguration(c)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Bot.Verbose {
		cfg.PrintConfig()
	}
	return bot.Run(ctx, cfg)
}
