package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	PlatformDiscord = "discord"
	PlatformIRC     = "irc"
)

type Configuration struct {
	Bot      *BotConfig
	Discord  *DiscordConfig
	Server   *ServerConfig
	API      *APIConfig
	Settings *SettingsConfig
}

type BotConfig struct {
	Platform string
	Prefix   string
	// Owners are Discord user ids or IRC hostmasks, depending on the platform.
	Owners   []string
	Verbose  bool
	MaxDepth int
}

type DiscordConfig struct {
	Token string
}

type ServerConfig struct {
	Nick        string
	Server      string
	Port        int
	Channel     string
	SSL         bool
	TLSInsecure bool
	SASLNick    string
	SASLPass    string
	ChunkMax    int
	CacheSize   int
}

type APIConfig struct {
	Timeout      time.Duration
	OpenAIKey    string
	OpenAIURL    string
	DefaultModel string
}

type SettingsConfig struct {
	Store string
	Path  string
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
		// Handle slices by joining with comma
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (y *YamlSource) String() string   { return "yaml" }
func (y *YamlSource) GoString() string { return "yaml" }

func GetFlags() []cli.Flag {
	configPath := getConfigPath(os.Args)
	var configData map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			_ = yaml.Unmarshal(data, &configData)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		}
	}
	return flags(configData)
}

func flags(configData map[string]any) []cli.Flag {
	// Helper to create sources: EnvVar > YAML > Default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &YamlSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		// Config file
		&cli.StringFlag{Name: "config", Aliases: []string{"b"}, Usage: "use the named configuration file", Sources: cli.EnvVars("GPTRELAY_CONFIG")},

		// Bot Configuration
		&cli.StringFlag{Name: "platform", Value: PlatformDiscord, Usage: "chat platform to connect to (discord or irc)", Sources: src("platform", "GPTRELAY_PLATFORM")},
		&cli.StringFlag{Name: "prefix", Value: "!", Usage: "prefix for bot commands", Sources: src("prefix", "GPTRELAY_PREFIX")},
		&cli.StringSliceFlag{Name: "owners", Aliases: []string{"A"}, Usage: "comma-separated list of owner user ids (discord) or hostmasks (irc)", Sources: src("owners", "GPTRELAY_OWNERS")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging", Sources: src("verbose", "GPTRELAY_VERBOSE")},
		&cli.IntFlag{Name: "maxdepth", Value: 25, Usage: "maximum number of messages taken from a reply chain", Sources: src("maxdepth", "GPTRELAY_MAXDEPTH")},

		// Discord
		&cli.StringFlag{Name: "discordtoken", Usage: "discord bot token", Sources: src("discordtoken", "GPTRELAY_DISCORDTOKEN")},

		// IRC Client Configuration
		&cli.StringFlag{Name: "nick", Aliases: []string{"n"}, Value: "gptrelay", Usage: "bot's nickname on the irc server", Sources: src("nick", "GPTRELAY_NICK")},
		&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Value: "localhost", Usage: "irc server address", Sources: src("server", "GPTRELAY_SERVER")},
		&cli.BoolFlag{Name: "tls", Aliases: []string{"e"}, Usage: "enable TLS for the IRC connection", Sources: src("tls", "GPTRELAY_TLS")},
		&cli.BoolFlag{Name: "tlsinsecure", Usage: "skip TLS certificate verification", Sources: src("tlsinsecure", "GPTRELAY_TLSINSECURE")},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 6667, Usage: "irc server port", Sources: src("port", "GPTRELAY_PORT")},
		&cli.StringFlag{Name: "channel", Aliases: []string{"c"}, Usage: "irc channel to join", Sources: src("channel", "GPTRELAY_CHANNEL")},
		&cli.StringFlag{Name: "saslnick", Usage: "nick used for SASL", Sources: src("saslnick", "GPTRELAY_SASLNICK")},
		&cli.StringFlag{Name: "saslpass", Usage: "password for SASL plain", Sources: src("saslpass", "GPTRELAY_SASLPASS")},
		&cli.IntFlag{Name: "chunkmax", Aliases: []string{"m"}, Value: 350, Usage: "maximum number of characters to send as a single irc message", Sources: src("chunkmax", "GPTRELAY_CHUNKMAX")},
		&cli.IntFlag{Name: "cachesize", Value: 1000, Usage: "number of irc messages kept for resolving replies", Sources: src("cachesize", "GPTRELAY_CACHESIZE")},

		// API Configuration
		&cli.StringFlag{Name: "openaikey", Usage: "OpenAI API key, stored in the settings when none is set", Sources: src("openaikey", "GPTRELAY_OPENAIKEY")},
		&cli.StringFlag{Name: "openaiurl", Value: "https://api.openai.com/v1", Usage: "OpenAI API URL (for custom endpoints)", Sources: src("openaiurl", "GPTRELAY_OPENAIURL")},
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: time.Minute * 5, Usage: "timeout for each completion request", Sources: src("apitimeout", "GPTRELAY_APITIMEOUT")},
		&cli.StringFlag{Name: "defaultmodel", Value: "gpt-3.5-turbo", Usage: "model used when the settings hold none", Sources: src("defaultmodel", "GPTRELAY_DEFAULTMODEL")},

		// Settings store
		&cli.StringFlag{Name: "store", Value: "yaml", Usage: "settings backend (yaml or sqlite)", Sources: src("store", "GPTRELAY_STORE")},
		&cli.StringFlag{Name: "settings", Value: "gptrelay.yaml", Usage: "path of the settings file or database", Sources: src("settings", "GPTRELAY_SETTINGS")},
	}
}

func getConfigPath(args []string) string {
	// Check env first
	if v := os.Getenv("GPTRELAY_CONFIG"); v != "" {
		return v
	}
	for i, arg := range args {
		if arg == "--config" || arg == "-b" {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// MaskSecret hides all but the last three characters of s.
func MaskSecret(s string) string {
	if len(s) > 3 {
		return strings.Repeat("*", len(s)-3) + s[len(s)-3:]
	}
	return s
}

func (c *Configuration) PrintConfig() {
	fmt.Printf("platform: %s\n", c.Bot.Platform)
	fmt.Printf("prefix: %s\n", c.Bot.Prefix)
	fmt.Printf("owners: %v\n", c.Bot.Owners)
	fmt.Printf("verbose: %t\n", c.Bot.Verbose)
	fmt.Printf("maxdepth: %d\n", c.Bot.MaxDepth)
	fmt.Printf("discordtoken: %s\n", MaskSecret(c.Discord.Token))
	fmt.Printf("nick: %s\n", c.Server.Nick)
	fmt.Printf("server: %s\n", c.Server.Server)
	fmt.Printf("port: %d\n", c.Server.Port)
	fmt.Printf("channel: %s\n", c.Server.Channel)
	fmt.Printf("tls: %t\n", c.Server.SSL)
	fmt.Printf("tlsinsecure: %t\n", c.Server.TLSInsecure)
	fmt.Printf("saslnick: %s\n", c.Server.SASLNick)
	fmt.Printf("saslpass: %s\n", MaskSecret(c.Server.SASLPass))
	fmt.Printf("chunkmax: %d\n", c.Server.ChunkMax)
	fmt.Printf("cachesize: %d\n", c.Server.CacheSize)
	fmt.Printf("openaikey: %s\n", MaskSecret(c.API.OpenAIKey))
	fmt.Printf("openaiurl: %s\n", c.API.OpenAIURL)
	fmt.Printf("apitimeout: %s\n", c.API.Timeout)
	fmt.Printf("defaultmodel: %s\n", c.API.DefaultModel)
	fmt.Printf("store: %s\n", c.Settings.Store)
	fmt.Printf("settings: %s\n", c.Settings.Path)
}

func NewConfiguration(c *cli.Command) *Configuration {
	if c.IsSet("config") {
		slog.Info("using config file", "path", c.String("config"))
	}

	return &Configuration{
		Bot: &BotConfig{
			Platform: c.String("platform"),
			Prefix:   c.String("prefix"),
			Owners:   c.StringSlice("owners"),
			Verbose:  c.Bool("verbose"),
			MaxDepth: c.Int("maxdepth"),
		},
		Discord: &DiscordConfig{
			Token: c.String("discordtoken"),
		},
		Server: &ServerConfig{
			Nick:        c.String("nick"),
			Server:      c.String("server"),
			Port:        c.Int("port"),
			Channel:     c.String("channel"),
			SSL:         c.Bool("tls"),
			TLSInsecure: c.Bool("tlsinsecure"),
			SASLNick:    c.String("saslnick"),
			SASLPass:    c.String("saslpass"),
			ChunkMax:    c.Int("chunkmax"),
			CacheSize:   c.Int("cachesize"),
		},
		API: &APIConfig{
			Timeout:      c.Duration("apitimeout"),
			OpenAIKey:    c.String("openaikey"),
			OpenAIURL:    c.String("openaiurl"),
			DefaultModel: c.String("defaultmodel"),
		},
		Settings: &SettingsConfig{
			Store: c.String("store"),
			Path:  c.String("settings"),
		},
	}
}

// Validate checks the platform selection and its required settings.
func (c *Configuration) Validate() error {
	switch c.Bot.Platform {
	case PlatformDiscord:
		if c.Discord.Token == "" {
			return fmt.Errorf("discord platform requires --discordtoken")
		}
	case PlatformIRC:
		if c.Server.Channel == "" {
			return fmt.Errorf("irc platform requires --channel")
		}
	default:
		return fmt.Errorf("unknown platform %q", c.Bot.Platform)
	}
	if c.Bot.Prefix == "" {
		return fmt.Errorf("command prefix must not be empty")
	}
	return nil
}
