// lrclib.net adapter, a free plain-lyrics search API.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tunedex/tunedex/internal/gateway"
)

const defaultLRCLibBaseURL = "https://lrclib.net"

type lrclibResult struct {
	PlainLyrics string `json:"plainLyrics"`
}

// LRCLibProvider implements [LyricsSource] for lrclib.net.
type LRCLibProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewLRCLibProvider creates an lrclib provider.
func NewLRCLibProvider(baseURL string) *LRCLibProvider {
	if baseURL == "" {
		baseURL = defaultLRCLibBaseURL
	}
	return &LRCLibProvider{
		baseURL:    baseURL,
		userAgent:  "tunedex/0.1.0",
		httpClient: http.DefaultClient,
	}
}

// Name returns the provider name.
func (l *LRCLibProvider) Name() string {
	return "lrclib"
}

// FetchLyrics searches lrclib for plain lyrics matching the track.
//
// Calls GET /api/search?track_name={title}&artist_name={artist} and returns
// the first non-empty result.
func (l *LRCLibProvider) FetchLyrics(ctx context.Context, title, artist, externalID string) (string, error) {
	params := url.Values{
		"track_name":  {title},
		"artist_name": {artist},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/api/search?"+params.Encode(), nil)
	if err != nil {
		return "", gateway.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", l.userAgent)

	var results []lrclibResult
	if err := getJSON(ctx, l.httpClient, req, &results, nil); err != nil {
		return "", err
	}

	for _, r := range results {
		if r.PlainLyrics != "" {
			return r.PlainLyrics, nil
		}
	}
	return "", nil
}
