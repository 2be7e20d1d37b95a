package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tunedex/tunedex/internal/models"
	"github.com/tunedex/tunedex/internal/shared"
)

const trackColumns = "id, sequence, source, source_id, title, artist, album, duration, thumbnail, isrc, lyrics, genres, created_at, updated_at, deleted_at"

// TrackRepository implements models.Repository[*models.PersistedTrack] for the track cache.
//
// Records are keyed by (source, source_id) with a UNIQUE constraint backing
// the resolver's dedup invariant, and soft-deleted rather than removed.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.PersistedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	track.SetSequence(sequence)
	id := shared.GenerateID()
	track.SetID(id)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, source, source_id, title, artist, album, duration, thumbnail, isrc, lyrics, genres, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.Source(),
		track.SourceID(),
		track.Title(),
		track.Artist(),
		track.Album(),
		track.Duration(),
		track.Thumbnail(),
		track.ISRC(),
		track.Lyrics(),
		encodeGenres(track.Genres()),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	query := fmt.Sprintf(`SELECT %s FROM tracks WHERE id = ? AND deleted_at IS NULL`, trackColumns)
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySourceID retrieves a track by its (source, source_id) dedup key
func (r *TrackRepository) GetBySourceID(source, sourceID string) (*models.PersistedTrack, error) {
	query := fmt.Sprintf(`SELECT %s FROM tracks WHERE source = ? AND source_id = ? AND deleted_at IS NULL`, trackColumns)
	return r.scanOne(r.db.QueryRow(query, source, sourceID))
}

// GetByISRC retrieves a track by ISRC code across any source
func (r *TrackRepository) GetByISRC(isrc string) (*models.PersistedTrack, error) {
	query := fmt.Sprintf(`SELECT %s FROM tracks WHERE isrc = ? AND deleted_at IS NULL LIMIT 1`, trackColumns)
	return r.scanOne(r.db.QueryRow(query, isrc))
}

// Update modifies an existing track in the database
func (r *TrackRepository) Update(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	query := `
		UPDATE tracks
		SET title = ?, artist = ?, album = ?, duration = ?, thumbnail = ?, isrc = ?, lyrics = ?, genres = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Title(),
		track.Artist(),
		track.Album(),
		track.Duration(),
		track.Thumbnail(),
		track.ISRC(),
		track.Lyrics(),
		encodeGenres(track.Genres()),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	return requireRow(result, track.ID())
}

// UpdateLyrics stores lyrics text on an existing track
func (r *TrackRepository) UpdateLyrics(id, text string) error {
	result, err := r.db.Exec(
		`UPDATE tracks SET lyrics = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		text, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lyrics: %w", err)
	}
	return requireRow(result, id)
}

// UpdateGenres stores genre tags on an existing track
func (r *TrackRepository) UpdateGenres(id string, genres []string) error {
	result, err := r.db.Exec(
		`UPDATE tracks SET genres = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		encodeGenres(genres), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update genres: %w", err)
	}
	return requireRow(result, id)
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	result, err := r.db.Exec(
		`UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	return requireRow(result, id)
}

// List retrieves all tracks matching the given criteria, excluding soft-deleted tracks.
//
// Supported criteria: "source", "isrc" (exact), "title", "artist", "album"
// (case-insensitive substring), "limit" (int).
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := fmt.Sprintf(`SELECT %s FROM tracks WHERE deleted_at IS NULL`, trackColumns)
	args := []any{}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	if isrc, ok := criteria["isrc"].(string); ok && isrc != "" {
		query += " AND isrc = ?"
		args = append(args, isrc)
	}

	for _, col := range []string{"title", "artist", "album"} {
		if v, ok := criteria[col].(string); ok && v != "" {
			query += fmt.Sprintf(" AND %s LIKE ?", col)
			args = append(args, "%"+v+"%")
		}
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// FindByQuery retrieves active tracks matching a resolution query.
func (r *TrackRepository) FindByQuery(q models.Query) ([]*models.PersistedTrack, error) {
	criteria := map[string]any{}
	if q.MinResults > 0 {
		criteria["limit"] = q.MinResults
	}

	switch q.Kind {
	case models.KindArtist:
		criteria["artist"] = q.Text
	case models.KindAlbum:
		criteria["album"] = q.Text
	case models.KindLyrics:
		if q.SourceID != "" {
			return r.listBySourceID(q.SourceID)
		}
		criteria["title"] = q.Text
		if q.ArtistHint != "" {
			criteria["artist"] = q.ArtistHint
		}
		delete(criteria, "limit")
	default:
		criteria["title"] = q.Text
		if q.ArtistHint != "" {
			criteria["artist"] = q.ArtistHint
		}
	}

	return r.List(criteria)
}

// listBySourceID retrieves active tracks carrying the given external id from any source.
func (r *TrackRepository) listBySourceID(sourceID string) ([]*models.PersistedTrack, error) {
	query := fmt.Sprintf(`SELECT %s FROM tracks WHERE source_id = ? AND deleted_at IS NULL ORDER BY sequence ASC`, trackColumns)

	rows, err := r.db.Query(query, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

type trackScanner interface {
	Scan(dest ...any) error
}

func (r *TrackRepository) scanOne(row *sql.Row) (*models.PersistedTrack, error) {
	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrTrackNotFound
	}
	return track, err
}

func (r *TrackRepository) scanRow(rows *sql.Rows) (*models.PersistedTrack, error) {
	return scanTrack(rows)
}

func scanTrack(s trackScanner) (*models.PersistedTrack, error) {
	var (
		id        string
		sequence  int
		source    string
		sourceID  string
		title     string
		artist    string
		album     string
		duration  int
		thumbnail string
		isrc      string
		lyricsCol string
		genresCol string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &source, &sourceID, &title, &artist, &album, &duration, &thumbnail, &isrc, &lyricsCol, &genresCol, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	dto := models.Track{
		ID:        sourceID,
		Title:     title,
		Artist:    artist,
		Album:     album,
		Duration:  duration,
		Thumbnail: thumbnail,
		ISRC:      isrc,
	}

	track := models.NewPersistedTrack(sequence, source, sourceID, dto)
	track.SetID(id)
	track.SetLyrics(lyricsCol)
	track.SetGenres(decodeGenres(genresCol))
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found or already deleted: %s", id)
	}
	return nil
}

func encodeGenres(genres []string) string {
	return strings.Join(genres, ",")
}

func decodeGenres(col string) []string {
	if col == "" {
		return nil
	}
	return strings.Split(col, ",")
}
