// MusicBrainz adapter.
//
// Searches the recording endpoint of the MusicBrainz web service. MusicBrainz
// asks clients for a descriptive User-Agent and at most one request per
// second; the interval is enforced by the gateway, not here.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tunedex/tunedex/internal/gateway"
	"github.com/tunedex/tunedex/internal/models"
)

const (
	defaultMBBaseURL   = "https://musicbrainz.org/ws/2"
	defaultMBUserAgent = "tunedex/0.1.0 (https://github.com/tunedex/tunedex)"
)

type mbArtistCredit struct {
	Artist struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
}

type mbRelease struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

type mbRecording struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Score        int              `json:"score"`
	LengthMS     int              `json:"length"`
	ArtistCredit []mbArtistCredit `json:"artist-credit"`
	Releases     []mbRelease      `json:"releases"`
}

// MusicBrainzProvider implements [Searcher] for the MusicBrainz web service.
type MusicBrainzProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewMusicBrainzProvider creates a MusicBrainz provider.
func NewMusicBrainzProvider(baseURL, userAgent string) *MusicBrainzProvider {
	if baseURL == "" {
		baseURL = defaultMBBaseURL
	}
	if userAgent == "" {
		userAgent = defaultMBUserAgent
	}
	return &MusicBrainzProvider{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: http.DefaultClient,
	}
}

// Name returns the provider name.
func (m *MusicBrainzProvider) Name() string {
	return "MusicBrainz"
}

// Search queries the recording search endpoint with a Lucene query built from
// the request text and optional artist hint.
func (m *MusicBrainzProvider) Search(ctx context.Context, q models.Query, limit int) ([]models.ExternalCandidate, error) {
	if limit <= 0 || limit > 25 {
		limit = 10
	}

	query := fmt.Sprintf("recording:%q", q.Text)
	if q.ArtistHint != "" {
		query += fmt.Sprintf(" AND artist:%q", q.ArtistHint)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fmt", "json")

	searchURL := fmt.Sprintf("%s/recording?%s", m.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, gateway.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Accept", "application/json")

	var result struct {
		Recordings []mbRecording `json:"recordings"`
	}
	if err := getJSON(ctx, m.httpClient, req, &result, nil); err != nil {
		return nil, err
	}

	candidates := make([]models.ExternalCandidate, 0, len(result.Recordings))
	for _, rec := range result.Recordings {
		c := models.ExternalCandidate{
			Source:   models.SourceMusicBrainz,
			SourceID: rec.ID,
			Title:    rec.Title,
			Duration: rec.LengthMS / 1000,
		}
		if len(rec.ArtistCredit) > 0 {
			c.Artist = rec.ArtistCredit[0].Artist.Name
		}
		if len(rec.Releases) > 0 {
			c.Album = rec.Releases[0].Title
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
