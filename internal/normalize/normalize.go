// Package normalize converts heterogeneous provider payloads into canonical
// candidate records. Every function is pure and deterministic.
package normalize

import (
	"regexp"
	"strings"

	"github.com/tunedex/tunedex/internal/models"
)

// Artist name cleanup rules, applied in order. Each strips one kind of
// provider decoration; names without decorations pass through unchanged.
var artistRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*Topic\s*$`),
	regexp.MustCompile(`(?i)\s+VEVO\s*$`),
	regexp.MustCompile(`(?i)\s+Official\s*$`),
	regexp.MustCompile(`(?i)\s+Records\s*$`),
	regexp.MustCompile(`[™®©]`),
	regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]\s*$`),
}

var (
	albumMarker   = regexp.MustCompile(`(?i)\s*-\s*(EP|Album|Single)\s*$`)
	newlineRuns   = regexp.MustCompile(`\n{3,}`)
	carriageRet   = regexp.MustCompile(`\r\n?`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CleanArtistName strips provider-specific decorations ("- Topic", "VEVO",
// trademark and trailing parenthetical tags) from an artist name.
func CleanArtistName(name string) string {
	cleaned := strings.TrimSpace(name)
	for _, rule := range artistRules {
		cleaned = strings.TrimSpace(rule.ReplaceAllString(cleaned, ""))
	}
	if cleaned == "" {
		return strings.TrimSpace(name)
	}
	return cleaned
}

// DeriveAlbumTitle produces an album title for a track. When the provider
// gives no album (or repeats the track title) the track is treated as a
// single; explicit album titles have trailing "- EP"/"- Album"/"- Single"
// markers stripped.
func DeriveAlbumTitle(album, songTitle string) string {
	album = strings.TrimSpace(album)
	songTitle = strings.TrimSpace(songTitle)

	if album == "" || strings.EqualFold(album, songTitle) {
		if songTitle == "" {
			return ""
		}
		return songTitle + " - Single"
	}

	if stripped := strings.TrimSpace(albumMarker.ReplaceAllString(album, "")); stripped != "" {
		return stripped
	}
	return album
}

// CleanLyrics normalizes lyrics text: CRLF to LF, runs of three or more
// newlines collapse to a single blank line, leading/trailing whitespace is
// trimmed. Idempotent: CleanLyrics(CleanLyrics(s)) == CleanLyrics(s).
func CleanLyrics(text string) string {
	text = carriageRet.ReplaceAllString(text, "\n")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// TrackKey builds the normalized title+artist fallback dedup key.
func TrackKey(title, artist string) string {
	norm := func(s string) string {
		return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
	}
	return norm(title) + "|" + norm(artist)
}

// DedupKey returns the identity key for a track record: (source, source_id)
// when a source id exists, otherwise the normalized title+artist fallback.
func DedupKey(source, sourceID, title, artist string) string {
	if sourceID != "" {
		return source + ":" + sourceID
	}
	return "fallback:" + TrackKey(title, artist)
}

// CandidateKey returns the dedup key for an external candidate.
func CandidateKey(c models.ExternalCandidate) string {
	return DedupKey(c.Source, c.SourceID, c.Title, c.Artist)
}

// RecordKey returns the dedup key for a persisted track.
func RecordKey(t *models.PersistedTrack) string {
	return DedupKey(t.Source(), t.SourceID(), t.Title(), t.Artist())
}

// Candidate canonicalizes a raw provider candidate: trims the title, cleans
// the artist name, derives the album title and normalizes embedded lyrics.
func Candidate(c models.ExternalCandidate) models.ExternalCandidate {
	c.Title = strings.TrimSpace(c.Title)
	c.Artist = CleanArtistName(c.Artist)
	c.Album = DeriveAlbumTitle(c.Album, c.Title)
	if c.Lyrics != "" {
		c.Lyrics = CleanLyrics(c.Lyrics)
	}
	return c
}
