package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Deezer    DeezerConfig    `toml:"deezer"`
	Downloads DownloadsConfig `toml:"downloads"`
	Jellyfin  JellyfinConfig  `toml:"jellyfin"`
	Server    ServerConfig    `toml:"server"`
}

// DeezerConfig contains the bot account session and loop intervals.
type DeezerConfig struct {
	BotARLCookie    string `toml:"bot_arl_cookie"`
	ShareBaseURL    string `toml:"share_base_url"`
	PollInterval    int    `toml:"poll_interval"`
	FriendsInterval int    `toml:"friends_interval"`
}

// DownloadsConfig contains download target and engine settings.
type DownloadsConfig struct {
	MusicDownloadPath     string `toml:"music_download_path"`
	PerUserDirectory      bool   `toml:"per_user_directory"`
	EngineBinary          string `toml:"engine_binary"`
	PreferredAudioQuality string `toml:"preferred_audio_quality"`
}

// JellyfinConfig contains media server connection and resolution policy.
type JellyfinConfig struct {
	ServerURL            string `toml:"server_url"`
	APIKey               string `toml:"api_key"`
	RefreshBeforeResolve bool   `toml:"refresh_before_resolve"`
	RefreshSettleSeconds int    `toml:"refresh_settle_seconds"`
}

// ServerConfig contains the optional daemon status endpoint settings.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that required keys are present and fills interval defaults.
// Missing required keys are fatal at startup, not during operation.
func (c *Config) Validate() error {
	if c.Deezer.BotARLCookie == "" || c.Deezer.BotARLCookie == "your_arl_cookie" {
		return fmt.Errorf("%w: deezer.bot_arl_cookie is required", ErrInvalidConfig)
	}
	if c.Downloads.MusicDownloadPath == "" {
		return fmt.Errorf("%w: downloads.music_download_path is required", ErrInvalidConfig)
	}
	if c.Jellyfin.ServerURL == "" {
		return fmt.Errorf("%w: jellyfin.server_url is required", ErrInvalidConfig)
	}
	if c.Jellyfin.APIKey == "" {
		return fmt.Errorf("%w: jellyfin.api_key is required", ErrInvalidConfig)
	}

	if c.Deezer.ShareBaseURL == "" {
		c.Deezer.ShareBaseURL = "https://deezer.com/us"
	}
	if c.Deezer.PollInterval <= 0 {
		c.Deezer.PollInterval = 60
	}
	if c.Deezer.FriendsInterval <= 0 {
		c.Deezer.FriendsInterval = 60
	}
	if c.Downloads.EngineBinary == "" {
		c.Downloads.EngineBinary = "deemix"
	}
	if c.Jellyfin.RefreshSettleSeconds < 0 {
		c.Jellyfin.RefreshSettleSeconds = 0
	}

	return nil
}
