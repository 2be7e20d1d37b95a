// Spotify Web API adapter.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
// Uses the client-credentials flow: search does not need user-scoped tokens.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tunedex/tunedex/internal/gateway"
	"github.com/tunedex/tunedex/internal/models"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

type spotifyExternalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Artists     []SpotifyArtist    `json:"artists"`
	Album       SpotifyAlbum       `json:"album"`
	DurationMS  int                `json:"duration_ms"`
	ExternalIDs spotifyExternalIDs `json:"external_ids"`
}

// SpotifyProvider implements [Searcher] for the Spotify Web API.
type SpotifyProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyProvider creates a Spotify provider using client-credentials auth.
func NewSpotifyProvider(ctx context.Context, clientID, clientSecret string) (*SpotifyProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("missing spotify client credentials")
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyProvider{
		baseURL:    spotifyBaseURL,
		httpClient: conf.Client(ctx),
	}, nil
}

// Name returns the provider name.
func (s *SpotifyProvider) Name() string {
	return "Spotify"
}

// Search queries the Spotify track search endpoint.
//
// Calls GET /v1/search?q={query}&type=track.
func (s *SpotifyProvider) Search(ctx context.Context, q models.Query, limit int) ([]models.ExternalCandidate, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	text := q.Text
	if q.ArtistHint != "" {
		text = fmt.Sprintf("%s artist:%s", q.Text, q.ArtistHint)
	}
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(text), limit)

	var response struct {
		Tracks struct {
			Items []SpotifyTrack `json:"items"`
		} `json:"tracks"`
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return nil, gateway.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	if err := getJSON(ctx, s.httpClient, req, &response, nil); err != nil {
		return nil, err
	}

	candidates := make([]models.ExternalCandidate, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		c := models.ExternalCandidate{
			Source:   models.SourceSpotify,
			SourceID: item.ID,
			Title:    item.Name,
			Album:    item.Album.Name,
			Duration: item.DurationMS / 1000,
			ISRC:     item.ExternalIDs.ISRC,
		}
		if len(item.Artists) > 0 {
			c.Artist = item.Artists[0].Name
		}
		if len(item.Album.Images) > 0 {
			c.Thumbnail = item.Album.Images[0].URL
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
