package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// QueryKind identifies what a Query is looking for.
type QueryKind string

const (
	KindTrack  QueryKind = "track"
	KindArtist QueryKind = "artist"
	KindAlbum  QueryKind = "album"
	KindLyrics QueryKind = "lyrics"
)

// Known source tags for persisted records.
const (
	SourceManual      = "manual"
	SourceYouTube     = "youtube"
	SourceSpotify     = "spotify"
	SourceMusicBrainz = "musicbrainz"
)

// Query is an immutable lookup request created once per caller invocation.
type Query struct {
	Text       string    `json:"text"`
	Kind       QueryKind `json:"kind"`
	ArtistHint string    `json:"artist_hint,omitempty"`
	SourceID   string    `json:"source_id,omitempty"`
	MinResults int       `json:"min_results,omitempty"`
}

// Validate checks the query carries enough information to execute.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" && q.SourceID == "" {
		return fmt.Errorf("query requires text or a source id")
	}
	switch q.Kind {
	case KindTrack, KindArtist, KindAlbum, KindLyrics:
		return nil
	default:
		return fmt.Errorf("unknown query kind %q", q.Kind)
	}
}

// Track represents song metadata from any source.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Duration  int    `json:"duration"` // Duration in seconds
	Thumbnail string `json:"thumbnail,omitempty"`
	ISRC      string `json:"isrc,omitempty"` // International Standard Recording Code for matching
}

// ExternalCandidate is normalized provider output that has not been persisted yet.
// It is never exposed to callers directly; candidates are persisted or discarded.
type ExternalCandidate struct {
	Source    string `json:"source"`
	SourceID  string `json:"source_id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Duration  int    `json:"duration"`
	Thumbnail string `json:"thumbnail,omitempty"`
	ISRC      string `json:"isrc,omitempty"`
	Lyrics    string `json:"lyrics,omitempty"`
}

// ResultSource describes how a ResolvedSet was produced.
type ResultSource string

const (
	SourceLocalCache     ResultSource = "local_cache"
	SourceLocalAugmented ResultSource = "local_cache+augmented"
	SourceExternal       ResultSource = "external_augmented"
	SourceNotFound       ResultSource = "not_found"
)

// ResolvedSet is the resolver's only return type.
//
// Source is SourceExternal only when at least one item originated from a
// provider call in the same invocation.
type ResolvedSet struct {
	Source ResultSource      `json:"source"`
	Items  []*PersistedTrack `json:"items"`
}

// GenreMatch is a scored genre classification, produced and consumed within one call.
type GenreMatch struct {
	GenreID    string  `json:"genre_id"`
	Confidence float64 `json:"confidence"`
}

// PersistedTrack is a cached track record keyed by (source, source_id).
type PersistedTrack struct {
	id        string
	sequence  int
	source    string
	sourceID  string
	track     Track
	lyrics    string
	genres    []string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedTrack creates a track entity from a source-tagged DTO.
func NewPersistedTrack(sequence int, source, sourceID string, dto Track) *PersistedTrack {
	now := time.Now()
	return &PersistedTrack{
		sequence:  sequence,
		source:    source,
		sourceID:  sourceID,
		track:     dto,
		createdAt: now,
		updatedAt: now,
	}
}

func (t *PersistedTrack) ID() string            { return t.id }
func (t *PersistedTrack) Sequence() int         { return t.sequence }
func (t *PersistedTrack) Source() string        { return t.source }
func (t *PersistedTrack) SourceID() string      { return t.sourceID }
func (t *PersistedTrack) Title() string         { return t.track.Title }
func (t *PersistedTrack) Artist() string        { return t.track.Artist }
func (t *PersistedTrack) Album() string         { return t.track.Album }
func (t *PersistedTrack) Duration() int         { return t.track.Duration }
func (t *PersistedTrack) Thumbnail() string     { return t.track.Thumbnail }
func (t *PersistedTrack) ISRC() string          { return t.track.ISRC }
func (t *PersistedTrack) Lyrics() string        { return t.lyrics }
func (t *PersistedTrack) Genres() []string      { return t.genres }
func (t *PersistedTrack) CreatedAt() time.Time  { return t.createdAt }
func (t *PersistedTrack) UpdatedAt() time.Time  { return t.updatedAt }
func (t *PersistedTrack) DeletedAt() *time.Time { return t.deletedAt }

// Track returns the underlying metadata DTO.
func (t *PersistedTrack) Track() Track { return t.track }

func (t *PersistedTrack) SetID(id string)            { t.id = id }
func (t *PersistedTrack) SetSequence(seq int)        { t.sequence = seq }
func (t *PersistedTrack) SetLyrics(text string)      { t.lyrics = text }
func (t *PersistedTrack) SetGenres(genres []string)  { t.genres = genres }
func (t *PersistedTrack) SetCreatedAt(ts time.Time)  { t.createdAt = ts }
func (t *PersistedTrack) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }
func (t *PersistedTrack) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }

// HasLyrics reports whether stored lyrics text exists.
func (t *PersistedTrack) HasLyrics() bool {
	return strings.TrimSpace(t.lyrics) != ""
}

// Validate checks if the track's data is valid.
func (t *PersistedTrack) Validate() error {
	if t.source == "" {
		return fmt.Errorf("track source is required")
	}
	if t.sourceID == "" {
		return fmt.Errorf("track source id is required")
	}
	if strings.TrimSpace(t.track.Title) == "" {
		return fmt.Errorf("track title is required")
	}
	return nil
}

// TrackRecord is the serializable view of a PersistedTrack.
type TrackRecord struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	SourceID  string     `json:"source_id"`
	Title     string     `json:"title"`
	Artist    string     `json:"artist"`
	Album     string     `json:"album"`
	Duration  int        `json:"duration"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	ISRC      string     `json:"isrc,omitempty"`
	Lyrics    string     `json:"lyrics,omitempty"`
	Genres    []string   `json:"genres,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Record returns the serializable view of this track.
func (t *PersistedTrack) Record() TrackRecord {
	return TrackRecord{
		ID:        t.id,
		Source:    t.source,
		SourceID:  t.sourceID,
		Title:     t.track.Title,
		Artist:    t.track.Artist,
		Album:     t.track.Album,
		Duration:  t.track.Duration,
		Thumbnail: t.track.Thumbnail,
		ISRC:      t.track.ISRC,
		Lyrics:    t.lyrics,
		Genres:    t.genres,
		CreatedAt: t.createdAt,
		UpdatedAt: t.updatedAt,
		DeletedAt: t.deletedAt,
	}
}

// MarshalJSON serializes the track through its record view.
func (t *PersistedTrack) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// Merge copies non-empty candidate fields into unset fields of this record.
// The merge is additive: an existing non-zero value is never replaced.
// Returns true when at least one field changed.
func (t *PersistedTrack) Merge(c ExternalCandidate) bool {
	changed := false
	if t.track.Artist == "" && c.Artist != "" {
		t.track.Artist = c.Artist
		changed = true
	}
	if t.track.Album == "" && c.Album != "" {
		t.track.Album = c.Album
		changed = true
	}
	if t.track.Duration == 0 && c.Duration > 0 {
		t.track.Duration = c.Duration
		changed = true
	}
	if t.track.Thumbnail == "" && c.Thumbnail != "" {
		t.track.Thumbnail = c.Thumbnail
		changed = true
	}
	if t.track.ISRC == "" && c.ISRC != "" {
		t.track.ISRC = c.ISRC
		changed = true
	}
	return changed
}
