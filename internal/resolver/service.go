package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/tunedex/tunedex/internal/genre"
	"github.com/tunedex/tunedex/internal/lyrics"
	"github.com/tunedex/tunedex/internal/models"
	"github.com/tunedex/tunedex/internal/shared"
)

// Service is the resolution engine's public surface: the only entry points
// the surrounding application (HTTP handlers, CLI) should call.
type Service struct {
	tracks     *Resolver
	pipeline   *lyrics.Pipeline
	classifier *genre.Classifier
	store      Store
}

// NewService assembles the engine facade.
func NewService(tracks *Resolver, pipeline *lyrics.Pipeline, classifier *genre.Classifier, store Store) *Service {
	if classifier == nil {
		classifier = genre.NewClassifier(nil)
	}
	return &Service{
		tracks:     tracks,
		pipeline:   pipeline,
		classifier: classifier,
		store:      store,
	}
}

// ResolveTracks resolves a track search, augmenting from providers when local
// results fall short of minResults.
func (s *Service) ResolveTracks(ctx context.Context, q models.Query, opts Options) (*models.ResolvedSet, error) {
	return s.tracks.Resolve(ctx, q, opts)
}

// ResolveLyrics resolves lyrics for a track. When the track exists locally its
// stored lyrics short-circuit the chain and a chain result is persisted onto
// the record; otherwise the chain result is returned uncached.
// A (text="", found=false, err=nil) return is the legitimate not-found outcome.
func (s *Service) ResolveLyrics(ctx context.Context, title, artist, externalID string) (string, bool, error) {
	q := models.Query{
		Text:       strings.TrimSpace(title),
		Kind:       models.KindLyrics,
		ArtistHint: strings.TrimSpace(artist),
		SourceID:   externalID,
	}

	local, err := s.store.FindLocal(ctx, q)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}
	if len(local) > 0 {
		return s.pipeline.ResolveTrack(ctx, local[0])
	}

	return s.pipeline.Resolve(ctx, title, artist, externalID)
}

// ClassifyGenres scores track metadata against the genre taxonomy.
func (s *Service) ClassifyGenres(title, artist, album string, tags []string) []models.GenreMatch {
	return s.classifier.Classify(title, artist, album, tags, genre.Options{})
}
