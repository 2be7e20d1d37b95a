package lyrics

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/tunedex/tunedex/internal/gateway"
	"github.com/tunedex/tunedex/internal/models"
	"github.com/tunedex/tunedex/internal/normalize"
	"github.com/tunedex/tunedex/internal/providers"
	"github.com/tunedex/tunedex/internal/shared"
)

// Store is the slice of the storage port the pipeline needs.
type Store interface {
	UpdateLyrics(ctx context.Context, trackID, text string) error
}

// Pipeline resolves lyrics for a track: stored text first, then a fixed,
// ordered provider chain, stopping at the first validator-approved hit.
// Exhausting the chain without a valid result is a legitimate outcome, not an
// error.
type Pipeline struct {
	sources []providers.LyricsSource
	gw      *gateway.Gateway
	store   Store
	logger  *log.Logger
}

// NewPipeline creates a lyrics pipeline over the given ordered sources.
func NewPipeline(gw *gateway.Gateway, store Store, logger *log.Logger, sources ...providers.LyricsSource) *Pipeline {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Pipeline{
		sources: sources,
		gw:      gw,
		store:   store,
		logger:  logger,
	}
}

// ResolveTrack resolves lyrics for a persisted track. Stored lyrics return
// immediately with no provider call; otherwise the chain runs and a valid
// result is persisted onto the record best-effort.
func (p *Pipeline) ResolveTrack(ctx context.Context, track *models.PersistedTrack) (string, bool, error) {
	if track == nil {
		return "", false, shared.ErrTrackNotFound
	}

	if track.HasLyrics() {
		return track.Lyrics(), true, nil
	}

	externalID := ""
	if track.Source() == models.SourceYouTube {
		externalID = track.SourceID()
	}

	text, found, err := p.Resolve(ctx, track.Title(), track.Artist(), externalID)
	if err != nil || !found {
		return "", false, err
	}

	if p.store != nil {
		if err := p.store.UpdateLyrics(ctx, track.ID(), text); err != nil {
			// The caller still gets the text; only the cache write is lost.
			p.logger.Warn("failed to persist lyrics", "track", track.ID(), "err", err)
		} else {
			track.SetLyrics(text)
		}
	}

	return text, true, nil
}

// Resolve walks the provider chain for the given track metadata. A throttled
// or failing provider advances the chain to the next one; only context
// cancellation aborts the pipeline. Returns ("", false, nil) when every
// provider was attempted without a valid result.
func (p *Pipeline) Resolve(ctx context.Context, title, artist, externalID string) (string, bool, error) {
	for _, src := range p.sources {
		var raw string
		err := p.gw.Call(ctx, src.Name(), func(ctx context.Context) error {
			text, err := src.FetchLyrics(ctx, title, artist, externalID)
			raw = text
			return err
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", false, err
			}
			p.logger.Warn("lyrics source unavailable", "source", src.Name(), "err", err)
			continue
		}

		if raw == "" {
			continue
		}

		cleaned := normalize.CleanLyrics(raw)
		if !Validate(cleaned) {
			p.logger.Debug("lyrics rejected by validator", "source", src.Name(), "title", title)
			continue
		}

		p.logger.Info("lyrics resolved", "source", src.Name(), "title", title, "artist", artist)
		return cleaned, true, nil
	}

	return "", false, nil
}
