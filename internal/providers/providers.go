// Package providers wraps each external data source behind a uniform
// contract. Adapters build provider-specific requests, parse response shapes
// and classify failures as transient or permanent; they never rate-limit and
// never persist — both are the gateway's and resolver's jobs.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tunedex/tunedex/internal/gateway"
	"github.com/tunedex/tunedex/internal/models"
)

// Searcher searches a provider for track candidates.
type Searcher interface {
	// Name returns the provider's display name (e.g. "YouTube Music").
	Name() string

	// Search returns up to limit raw candidates for the query.
	// An empty slice with a nil error means the provider found nothing.
	Search(ctx context.Context, q models.Query, limit int) ([]models.ExternalCandidate, error)
}

// LyricsSource fetches raw lyrics text for a track.
type LyricsSource interface {
	// Name returns the provider's display name.
	Name() string

	// FetchLyrics returns raw lyrics text for the given track, or "" with a
	// nil error when the provider has nothing for it. externalID is the
	// source-platform track id when the caller knows it.
	FetchLyrics(ctx context.Context, title, artist, externalID string) (string, error)
}

// getJSON performs a GET request and decodes the JSON response into result.
// Response status codes are mapped to the gateway's transient/permanent
// taxonomy; a 404 is reported through notFound so adapters can treat it as
// "provider has nothing" rather than a failure.
func getJSON(ctx context.Context, client *http.Client, req *http.Request, result any, notFound *bool) error {
	resp, err := client.Do(req)
	if err != nil {
		// Network-level failures (timeouts, resets) are worth retrying.
		return gateway.Transient(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		*notFound = true
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gateway.ClassifyStatus(resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return gateway.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}
