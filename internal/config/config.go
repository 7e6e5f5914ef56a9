package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hoanghai1803/inkboard/internal/ai"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Providers ProvidersConfig `toml:"providers"`
	OpenAI    KeyedProvider   `toml:"openai"`
	Anthropic KeyedProvider   `toml:"anthropic"`
	Gemini    KeyedProvider   `toml:"gemini"`
	Bedrock   BedrockConfig   `toml:"bedrock"`
	Storage   StorageConfig   `toml:"storage"`
	Feeds     FeedsConfig     `toml:"feeds"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// ProvidersConfig names the provider serving each role.
type ProvidersConfig struct {
	Layout    string `toml:"layout"`    // authoritative structured-layout call
	Secondary string `toml:"secondary"` // best-effort design advice
	Palette   string `toml:"palette"`
	Enhance   string `toml:"enhance"`
	Blog      string `toml:"blog"`
}

// KeyedProvider holds settings for a provider authenticated by API key.
type KeyedProvider struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// BedrockConfig holds AWS Bedrock settings. Credentials come from the
// default AWS chain.
type BedrockConfig struct {
	Region string `toml:"region"`
	Model  string `toml:"model"`
}

// StorageConfig holds settings for the generation audit log.
type StorageConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// FeedsConfig holds feed import settings.
type FeedsConfig struct {
	MaxItemsPerFeed int `toml:"max_items_per_feed"`
}

// Role names, in the order they are reported.
const (
	RoleLayout    = "layout"
	RoleSecondary = "secondary"
	RolePalette   = "palette"
	RoleEnhance   = "enhance"
	RoleBlog      = "blog"
)

var roles = []string{RoleLayout, RoleSecondary, RolePalette, RoleEnhance, RoleBlog}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

const defaultConfigContent = `[server]
host = "localhost"
port = 8080
log_level = "info"                # debug, info, warn or error

[providers]                       # openai, anthropic, gemini or bedrock
layout = "openai"                 # structured canvas layouts (must succeed)
secondary = "gemini"              # design advice (may fail)
palette = "openai"
enhance = "openai"
blog = "openai"

[openai]
api_key = ""                      # or set OPENAI_API_KEY
model = "gpt-4o-mini"

[anthropic]
api_key = ""                      # or set ANTHROPIC_API_KEY
model = "claude-haiku-4-5"

[gemini]
api_key = ""                      # or set GEMINI_API_KEY / GOOGLE_API_KEY
model = "gemini-2.0-flash"

[bedrock]
region = "us-east-1"              # or set AWS_REGION
model = "anthropic.claude-3-haiku-20240307-v1:0"

[storage]
enabled = true
path = "./data/inkboard.db"

[feeds]
max_items_per_feed = 20
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Explicit values are checked before defaults fill the gaps, so that
	// "port = 0" is an error rather than silently becoming 8080.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("feeds", "max_items_per_feed") {
		if cfg.Feeds.MaxItemsPerFeed < 1 {
			return fmt.Errorf("invalid feeds.max_items_per_feed %d: must be >= 1", cfg.Feeds.MaxItemsPerFeed)
		}
	}
	if md.IsDefined("storage", "path") && cfg.Storage.Path == "" {
		return errors.New("invalid storage.path: must not be empty")
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields. Booleans
// default to true only when the key is absent, so an explicit false sticks.
func applyDefaults(cfg *Config, md toml.MetaData) {
	setDefault(&cfg.Server.Host, "localhost")
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	setDefault(&cfg.Server.LogLevel, "info")
	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)

	setDefault(&cfg.Providers.Layout, ai.ProviderOpenAI)
	setDefault(&cfg.Providers.Secondary, ai.ProviderGemini)
	setDefault(&cfg.Providers.Palette, ai.ProviderOpenAI)
	setDefault(&cfg.Providers.Enhance, ai.ProviderOpenAI)
	setDefault(&cfg.Providers.Blog, ai.ProviderOpenAI)

	setDefault(&cfg.OpenAI.Model, "gpt-4o-mini")
	setDefault(&cfg.Anthropic.Model, "claude-haiku-4-5")
	setDefault(&cfg.Gemini.Model, "gemini-2.0-flash")
	setDefault(&cfg.Bedrock.Region, "us-east-1")
	setDefault(&cfg.Bedrock.Model, "anthropic.claude-3-haiku-20240307-v1:0")

	if !md.IsDefined("storage", "enabled") {
		cfg.Storage.Enabled = true
	}
	setDefault(&cfg.Storage.Path, "./data/inkboard.db")

	if cfg.Feeds.MaxItemsPerFeed == 0 {
		cfg.Feeds.MaxItemsPerFeed = 20
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values. GEMINI_API_KEY
// wins over GOOGLE_API_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Anthropic.APIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Bedrock.Region = v
	}
}

// validate checks that configuration values are within acceptable ranges.
// Missing credentials only warn: the affected roles fail at call time.
func validate(cfg *Config) error {
	for _, role := range roles {
		switch name := cfg.RoleProvider(role); name {
		case ai.ProviderOpenAI, ai.ProviderAnthropic, ai.ProviderGemini, ai.ProviderBedrock:
		default:
			return fmt.Errorf("invalid providers.%s %q: must be \"openai\", \"anthropic\", \"gemini\" or \"bedrock\"", role, name)
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if _, ok := logLevels[cfg.Server.LogLevel]; !ok {
		return fmt.Errorf("invalid server.log_level %q: must be debug, info, warn or error", cfg.Server.LogLevel)
	}

	if cfg.Feeds.MaxItemsPerFeed < 1 {
		return fmt.Errorf("invalid feeds.max_items_per_feed %d: must be >= 1", cfg.Feeds.MaxItemsPerFeed)
	}

	for _, role := range roles {
		if name := cfg.RoleProvider(role); !cfg.HasCredentials(name) {
			slog.Warn("provider has no API key: calls for this role will fail",
				"role", role, "provider", name)
		}
	}

	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	return logLevels[c.Server.LogLevel]
}

// RoleProvider returns the provider name configured for role, or "" for an
// unknown role.
func (c *Config) RoleProvider(role string) string {
	switch role {
	case RoleLayout:
		return c.Providers.Layout
	case RoleSecondary:
		return c.Providers.Secondary
	case RolePalette:
		return c.Providers.Palette
	case RoleEnhance:
		return c.Providers.Enhance
	case RoleBlog:
		return c.Providers.Blog
	}
	return ""
}

// Roles maps every role to its provider name.
func (c *Config) Roles() map[string]string {
	out := make(map[string]string, len(roles))
	for _, role := range roles {
		out[role] = c.RoleProvider(role)
	}
	return out
}

// ProviderConfig returns the settings needed to construct the named
// provider.
func (c *Config) ProviderConfig(name string) ai.ProviderConfig {
	pc := ai.ProviderConfig{Provider: name}
	switch name {
	case ai.ProviderOpenAI:
		pc.APIKey, pc.Model = c.OpenAI.APIKey, c.OpenAI.Model
	case ai.ProviderAnthropic:
		pc.APIKey, pc.Model = c.Anthropic.APIKey, c.Anthropic.Model
	case ai.ProviderGemini:
		pc.APIKey, pc.Model = c.Gemini.APIKey, c.Gemini.Model
	case ai.ProviderBedrock:
		pc.Region, pc.Model = c.Bedrock.Region, c.Bedrock.Model
	}
	return pc
}

// HasCredentials reports whether the named provider can be called. Bedrock
// resolves credentials from the AWS chain and only needs a region.
func (c *Config) HasCredentials(name string) bool {
	pc := c.ProviderConfig(name)
	if name == ai.ProviderBedrock {
		return pc.Region != ""
	}
	return pc.APIKey != ""
}
