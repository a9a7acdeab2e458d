package testing

import (
	"time"

	"pkdindustries/gptrelay/internal/config"
)

// TestBotID is the bot's user id in test fixtures
const TestBotID = "42"

// DefaultTestConfig returns a minimal configuration for testing
func DefaultTestConfig() *config.Configuration {
	return &config.Configuration{
		Bot: &config.BotConfig{
			Platform: config.PlatformDiscord,
			Prefix:   "!",
			Owners:   []string{"1"},
			Verbose:  false,
			MaxDepth: 25,
		},
		Discord: &config.DiscordConfig{
			Token: "test-token",
		},
		Server: &config.ServerConfig{
			Nick:      "testbot",
			Server:    "irc.test.local",
			Port:      6667,
			Channel:   "#test",
			SSL:       false,
			ChunkMax:  350,
			CacheSize: 100,
		},
		API: &config.APIConfig{
			Timeout:      time.Second * 30,
			OpenAIURL:    "http://localhost:0/v1",
			DefaultModel: "gpt-3.5-turbo",
		},
		Settings: &config.SettingsConfig{
			Store: "yaml",
			Path:  "gptrelay.yaml",
		},
	}
}
