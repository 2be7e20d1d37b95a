package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tunedex/tunedex/internal/models"
	"github.com/tunedex/tunedex/internal/shared"
)

// StoreAdapter exposes TrackRepository through the resolver's storage port.
//
// Duplicate saves (UNIQUE constraint violations on source+source_id) resolve
// to the already-persisted record instead of failing, so concurrent
// resolutions converge on one row per external id.
type StoreAdapter struct {
	repo *TrackRepository
}

// NewStoreAdapter creates a StoreAdapter wrapping the given repository
func NewStoreAdapter(repo *TrackRepository) *StoreAdapter {
	return &StoreAdapter{repo: repo}
}

// FindLocal returns active records matching the query.
func (a *StoreAdapter) FindLocal(ctx context.Context, q models.Query) ([]*models.PersistedTrack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.repo.FindByQuery(q)
}

// Save persists an external candidate as a new record. When the candidate's
// (source, source_id) pair already exists the stored record is returned.
func (a *StoreAdapter) Save(ctx context.Context, c models.ExternalCandidate) (*models.PersistedTrack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dto := models.Track{
		ID:        c.SourceID,
		Title:     c.Title,
		Artist:    c.Artist,
		Album:     c.Album,
		Duration:  c.Duration,
		Thumbnail: c.Thumbnail,
		ISRC:      c.ISRC,
	}

	track := models.NewPersistedTrack(0, c.Source, c.SourceID, dto)
	if c.Lyrics != "" {
		track.SetLyrics(c.Lyrics)
	}

	err := a.repo.Create(track)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return a.repo.GetBySourceID(c.Source, c.SourceID)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrPersistenceFailed, err)
	}

	return track, nil
}

// MergeMetadata additively fills unset fields of a stored record from a
// candidate. Existing values are never overwritten.
func (a *StoreAdapter) MergeMetadata(ctx context.Context, trackID string, c models.ExternalCandidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	track, err := a.repo.Get(trackID)
	if err != nil {
		if errors.Is(err, shared.ErrTrackNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", shared.ErrPersistenceFailed, err)
	}

	if !track.Merge(c) {
		return nil
	}

	if err := a.repo.Update(track); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrPersistenceFailed, err)
	}
	return nil
}

// UpdateLyrics stores lyrics text on a track record.
func (a *StoreAdapter) UpdateLyrics(ctx context.Context, trackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.repo.UpdateLyrics(trackID, text)
}

// UpdateGenres stores genre tags on a track record.
func (a *StoreAdapter) UpdateGenres(ctx context.Context, trackID string, genres []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.repo.UpdateGenres(trackID, genres)
}
