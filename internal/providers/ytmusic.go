// YouTube Music adapter.
//
// Communicates with a ytmusicapi proxy server. Search results double as track
// candidates; the proxy's lyrics endpoint serves as the caption-based lyrics
// source when a video id is known.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tunedex/tunedex/internal/gateway"
	"github.com/tunedex/tunedex/internal/models"
)

const defaultYTBaseURL = "http://localhost:8080"

// YTMusicImage represents an image/thumbnail from YouTube Music.
type YTMusicImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YTMusicArtist represents an artist in YouTube Music responses.
type YTMusicArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type ytMusicAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YTMusicProvider implements [Searcher] and [LyricsSource] for YouTube Music via proxy.
type YTMusicProvider struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

// NewYTMusicProvider creates a YouTube Music provider instance.
func NewYTMusicProvider(baseURL, authFile string) *YTMusicProvider {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	return &YTMusicProvider{
		baseURL:    baseURL,
		authFile:   authFile,
		httpClient: http.DefaultClient,
	}
}

// Name returns the provider name.
func (y *YTMusicProvider) Name() string {
	return "YouTube Music"
}

func (y *YTMusicProvider) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return nil, gateway.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Search queries the proxy's song search and maps results to candidates.
//
// Calls GET /api/search?q={query}&filter=songs on the proxy.
func (y *YTMusicProvider) Search(ctx context.Context, q models.Query, limit int) ([]models.ExternalCandidate, error) {
	text := q.Text
	if q.ArtistHint != "" {
		text = fmt.Sprintf("%s %s", q.Text, q.ArtistHint)
	}
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs", url.QueryEscape(text))

	var results []struct {
		VideoID     string          `json:"videoId"`
		Title       string          `json:"title"`
		Artists     []YTMusicArtist `json:"artists"`
		Album       *ytMusicAlbum   `json:"album"`
		DurationSec int             `json:"duration_seconds"`
		Thumbnails  []YTMusicImage  `json:"thumbnails"`
		ISRC        string          `json:"isrc,omitempty"`
	}

	req, err := y.newRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if err := getJSON(ctx, y.httpClient, req, &results, nil); err != nil {
		return nil, err
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	candidates := make([]models.ExternalCandidate, 0, len(results))
	for _, r := range results {
		c := models.ExternalCandidate{
			Source:   models.SourceYouTube,
			SourceID: r.VideoID,
			Title:    r.Title,
			Duration: r.DurationSec,
			ISRC:     r.ISRC,
		}
		if len(r.Artists) > 0 {
			c.Artist = r.Artists[0].Name
		}
		if r.Album != nil {
			c.Album = r.Album.Name
		}
		if len(r.Thumbnails) > 0 {
			c.Thumbnail = r.Thumbnails[len(r.Thumbnails)-1].URL
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// FetchLyrics retrieves caption-derived lyrics for a known video id.
//
// Calls GET /api/lyrics/{videoId} on the proxy. Returns "" when the track has
// no captions or when no video id is available.
func (y *YTMusicProvider) FetchLyrics(ctx context.Context, title, artist, externalID string) (string, error) {
	if externalID == "" {
		return "", nil
	}

	var result struct {
		Lyrics string `json:"lyrics"`
		Source string `json:"source"`
	}

	req, err := y.newRequest(ctx, fmt.Sprintf("/api/lyrics/%s", url.PathEscape(externalID)))
	if err != nil {
		return "", err
	}

	var notFound bool
	if err := getJSON(ctx, y.httpClient, req, &result, &notFound); err != nil {
		return "", err
	}
	if notFound {
		return "", nil
	}

	return result.Lyrics, nil
}
