package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Providers ProvidersConfig `toml:"providers"`
	Database  DatabaseConfig  `toml:"database"`
	Resolver  ResolverConfig  `toml:"resolver"`
}

// ProvidersConfig contains per-provider settings.
type ProvidersConfig struct {
	YTMusic     YTMusicConfig     `toml:"ytmusic"`
	Spotify     SpotifyConfig     `toml:"spotify"`
	MusicBrainz MusicBrainzConfig `toml:"musicbrainz"`
	LRCLib      LRCLibConfig      `toml:"lrclib"`
	Genius      GeniusConfig      `toml:"genius"`
}

// RateConfig contains gateway settings shared by every provider.
type RateConfig struct {
	MinIntervalMS int `toml:"min_interval_ms"`
	MaxRetries    int `toml:"max_retries"`
}

// MinInterval returns the configured minimum inter-call interval.
func (r RateConfig) MinInterval() time.Duration {
	return time.Duration(r.MinIntervalMS) * time.Millisecond
}

// YTMusicConfig contains YouTube Music proxy settings.
type YTMusicConfig struct {
	ProxyURL string     `toml:"proxy_url"`
	AuthFile string     `toml:"auth_file"`
	Rate     RateConfig `toml:"rate"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string     `toml:"client_id"`
	ClientSecret string     `toml:"client_secret"`
	Rate         RateConfig `toml:"rate"`
}

// MusicBrainzConfig contains MusicBrainz settings.
type MusicBrainzConfig struct {
	BaseURL   string     `toml:"base_url"`
	UserAgent string     `toml:"user_agent"`
	Rate      RateConfig `toml:"rate"`
}

// LRCLibConfig contains lrclib.net settings.
type LRCLibConfig struct {
	BaseURL string     `toml:"base_url"`
	Rate    RateConfig `toml:"rate"`
}

// GeniusConfig contains Genius API settings.
type GeniusConfig struct {
	AccessToken string     `toml:"access_token"`
	Rate        RateConfig `toml:"rate"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ResolverConfig contains resolution engine settings.
type ResolverConfig struct {
	MinResults int `toml:"min_results"`
	TimeoutSec int `toml:"timeout_sec"`
}

// Timeout returns the configured resolution timeout.
func (r ResolverConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSec) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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
