package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "tunedex.db" {
			t.Errorf("expected database path tunedex.db, got %s", config.Database.Path)
		}

		if config.Resolver.MinResults != 10 {
			t.Errorf("expected min_results 10, got %d", config.Resolver.MinResults)
		}

		if config.Providers.YTMusic.ProxyURL != "http://localhost:8080" {
			t.Errorf("expected ytmusic proxy URL http://localhost:8080, got %s", config.Providers.YTMusic.ProxyURL)
		}

		if config.Providers.MusicBrainz.Rate.MinIntervalMS != 1000 {
			t.Errorf("expected musicbrainz min_interval_ms 1000, got %d", config.Providers.MusicBrainz.Rate.MinIntervalMS)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[resolver]
min_results = 5
timeout_sec = 15

[providers.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[providers.genius]
access_token = "test_token"

[providers.genius.rate]
min_interval_ms = 750
max_retries = 1
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Resolver.MinResults != 5 {
			t.Errorf("expected min_results 5, got %d", config.Resolver.MinResults)
		}

		if config.Providers.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Providers.Spotify.ClientID)
		}

		if config.Providers.Genius.Rate.MinIntervalMS != 750 {
			t.Errorf("expected genius min_interval_ms 750, got %d", config.Providers.Genius.Rate.MinIntervalMS)
		}
	})

	t.Run("DurationHelpers", func(t *testing.T) {
		rate := RateConfig{MinIntervalMS: 250}
		if rate.MinInterval() != 250*time.Millisecond {
			t.Errorf("expected 250ms interval, got %v", rate.MinInterval())
		}

		resolver := ResolverConfig{TimeoutSec: 30}
		if resolver.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", resolver.Timeout())
		}
	})
}
