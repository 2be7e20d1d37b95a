package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tunedex/tunedex/internal/formatter"
	"github.com/tunedex/tunedex/internal/genre"
	"github.com/tunedex/tunedex/internal/models"
	"github.com/tunedex/tunedex/internal/resolver"
	"github.com/tunedex/tunedex/internal/shared"
	"github.com/urfave/cli/v3"
)

func parseKind(raw string) (models.QueryKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "track", "song":
		return models.KindTrack, nil
	case "artist":
		return models.KindArtist, nil
	case "album":
		return models.KindAlbum, nil
	default:
		return "", fmt.Errorf("%w: unknown query kind %q", shared.ErrInvalidInput, raw)
	}
}

// Search resolves a track query: local cache first, providers when local
// results fall short of the threshold.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query argument is required", shared.ErrMissingArgument)
	}

	kind, err := parseKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	eng, err := r.openEngine(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer eng.Close()

	minResults := cmd.Int("min-results")
	if minResults <= 0 {
		minResults = eng.config.Resolver.MinResults
	}

	q := models.Query{
		Text:       query,
		Kind:       kind,
		ArtistHint: cmd.String("artist"),
		MinResults: minResults,
	}

	timeout := eng.config.Resolver.Timeout()
	if secs := cmd.Int("timeout"); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	opts := resolver.Options{
		MinResults:     minResults,
		DisableAugment: cmd.Bool("local-only"),
		Timeout:        timeout,
	}

	set, err := eng.service.ResolveTracks(ctx, q, opts)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if base := cmd.String("export"); base != "" {
		file, err := formatter.WriteCSVExport(set, base)
		if err != nil {
			return err
		}
		r.logger.Info("results exported", "file", file)
	}

	if cmd.Bool("json") {
		return r.writeJSON(set, true)
	}

	return r.writePlain("%s", formatter.RenderSet(set))
}

// Lyrics fetches lyrics for a track through the stored-first provider chain.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title argument is required", shared.ErrMissingArgument)
	}
	artist := cmd.String("artist")

	eng, err := r.openEngine(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer eng.Close()

	text, found, err := eng.service.ResolveLyrics(ctx, title, artist, cmd.String("id"))
	if err != nil {
		return fmt.Errorf("lyrics resolution failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"title":  title,
			"artist": artist,
			"found":  found,
			"lyrics": text,
		}, true)
	}

	if !found {
		return r.writePlain("No lyrics found for %s - %s\n", artist, title)
	}

	return r.writePlain("%s", formatter.RenderLyrics(title, artist, text))
}

// Genres classifies track metadata against the genre taxonomy. No database or
// provider access; classification is purely local.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title argument is required", shared.ErrMissingArgument)
	}

	// Classification needs no store or providers, so skip engine assembly.
	classifier := genre.NewClassifier(nil)
	matches := classifier.Classify(title, cmd.String("artist"), cmd.String("album"), cmd.StringSlice("tag"), genre.Options{})

	if cmd.Bool("json") {
		return r.writeJSON(matches, true)
	}

	return r.writePlain("%s", formatter.RenderGenres(matches))
}

// CacheList lists cached tracks, optionally filtered by source.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	eng, err := r.openEngine(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer eng.Close()

	criteria := map[string]any{
		"limit": cmd.Int("limit"),
	}
	if source := cmd.String("source"); source != "" {
		criteria["source"] = source
	}

	tracks, err := eng.repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	set := &models.ResolvedSet{Source: models.SourceLocalCache, Items: tracks}
	return r.writePlain("%s", formatter.RenderSet(set))
}

// CacheDelete soft-deletes a cached track by ID.
func (r *Runner) CacheDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id argument is required", shared.ErrMissingArgument)
	}

	eng, err := r.openEngine(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	r.logger.Info("track deleted", "id", id)
	return nil
}
