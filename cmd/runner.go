package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tunedex/tunedex/internal/gateway"
	"github.com/tunedex/tunedex/internal/genre"
	"github.com/tunedex/tunedex/internal/lyrics"
	"github.com/tunedex/tunedex/internal/providers"
	"github.com/tunedex/tunedex/internal/repositories"
	"github.com/tunedex/tunedex/internal/resolver"
	"github.com/tunedex/tunedex/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, lyricsCommand, genresCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig loads configuration from the given path, falling back to defaults.
func (r *Runner) loadConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return r.config
	}
	return config
}

// engine bundles the assembled resolution stack behind one Close.
type engine struct {
	db      *sql.DB
	repo    *repositories.TrackRepository
	service *resolver.Service
	config  *shared.Config
}

func (e *engine) Close() error {
	return e.db.Close()
}

// openEngine loads config, opens the database and assembles the resolution
// engine: repository, gateway, providers, resolver and lyrics pipeline.
func (r *Runner) openEngine(ctx context.Context, configPath string) (*engine, error) {
	config := r.loadConfig(configPath)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := repositories.NewTrackRepository(db)
	store := repositories.NewStoreAdapter(repo)

	gw := gateway.New(r.logger, gateway.Limits{})
	searchers, sources := r.buildProviders(ctx, config, gw)

	classifier := genre.NewClassifier(nil)
	tracks := resolver.New(store, gw, classifier, r.logger, searchers...)
	pipeline := lyrics.NewPipeline(gw, store, r.logger, sources...)

	return &engine{
		db:      db,
		repo:    repo,
		service: resolver.NewService(tracks, pipeline, classifier, store),
		config:  config,
	}, nil
}

// buildProviders constructs the configured search providers and the ordered
// lyrics chain, registering each provider's rate limits with the gateway.
// Providers with missing credentials are skipped with a warning.
func (r *Runner) buildProviders(ctx context.Context, config *shared.Config, gw *gateway.Gateway) ([]providers.Searcher, []providers.LyricsSource) {
	p := config.Providers

	ytm := providers.NewYTMusicProvider(p.YTMusic.ProxyURL, p.YTMusic.AuthFile)
	gw.Configure(ytm.Name(), gateway.Limits{MinInterval: p.YTMusic.Rate.MinInterval(), MaxRetries: p.YTMusic.Rate.MaxRetries})

	mb := providers.NewMusicBrainzProvider(p.MusicBrainz.BaseURL, p.MusicBrainz.UserAgent)
	gw.Configure(mb.Name(), gateway.Limits{MinInterval: p.MusicBrainz.Rate.MinInterval(), MaxRetries: p.MusicBrainz.Rate.MaxRetries})

	searchers := []providers.Searcher{ytm, mb}

	if p.Spotify.ClientID != "" && p.Spotify.ClientSecret != "" {
		spot, err := providers.NewSpotifyProvider(ctx, p.Spotify.ClientID, p.Spotify.ClientSecret)
		if err != nil {
			r.logger.Warn("spotify provider unavailable", "error", err)
		} else {
			gw.Configure(spot.Name(), gateway.Limits{MinInterval: p.Spotify.Rate.MinInterval(), MaxRetries: p.Spotify.Rate.MaxRetries})
			searchers = append(searchers, spot)
		}
	}

	lrc := providers.NewLRCLibProvider(p.LRCLib.BaseURL)
	gw.Configure(lrc.Name(), gateway.Limits{MinInterval: p.LRCLib.Rate.MinInterval(), MaxRetries: p.LRCLib.Rate.MaxRetries})

	sources := []providers.LyricsSource{ytm, lrc}

	if p.Genius.AccessToken != "" {
		gen, err := providers.NewGeniusProvider(p.Genius.AccessToken)
		if err != nil {
			r.logger.Warn("genius provider unavailable", "error", err)
		} else {
			gw.Configure(gen.Name(), gateway.Limits{MinInterval: p.Genius.Rate.MinInterval(), MaxRetries: p.Genius.Rate.MaxRetries})
			sources = append(sources, gen)
		}
	}

	return searchers, sources
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
