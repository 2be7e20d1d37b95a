// Genius adapter.
//
// Genius has no lyrics API endpoint: the search API locates the song page and
// the lyrics are scraped from the page's data-lyrics-container divs.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tunedex/tunedex/internal/gateway"
	"golang.org/x/net/html"
)

const (
	defaultGeniusBaseURL = "https://api.genius.com"
	geniusPageUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

type geniusSearch struct {
	Response struct {
		Hits []struct {
			Result struct {
				URL string `json:"url"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// GeniusProvider implements [LyricsSource] via the Genius search API and page scraping.
type GeniusProvider struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewGeniusProvider creates a Genius provider with the given API access token.
func NewGeniusProvider(accessToken string) (*GeniusProvider, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("missing genius access token")
	}
	return &GeniusProvider{
		baseURL:     defaultGeniusBaseURL,
		accessToken: accessToken,
		httpClient:  http.DefaultClient,
	}, nil
}

// Name returns the provider name.
func (g *GeniusProvider) Name() string {
	return "Genius"
}

// FetchLyrics searches Genius for the track and scrapes the first hit's page.
func (g *GeniusProvider) FetchLyrics(ctx context.Context, title, artist, externalID string) (string, error) {
	params := url.Values{"q": {fmt.Sprintf("%s %s", artist, title)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", gateway.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	var search geniusSearch
	if err := getJSON(ctx, g.httpClient, req, &search, nil); err != nil {
		return "", err
	}

	if len(search.Response.Hits) == 0 {
		return "", nil
	}

	return g.scrapePage(ctx, search.Response.Hits[0].Result.URL)
}

// scrapePage downloads a song page and extracts the lyrics container text.
func (g *GeniusProvider) scrapePage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", gateway.Permanent(fmt.Errorf("failed to create page request: %w", err))
	}
	req.Header.Set("User-Agent", geniusPageUserAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", gateway.Transient(fmt.Errorf("page request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", gateway.ClassifyStatus(resp.StatusCode, fmt.Errorf("page returned status %d", resp.StatusCode))
	}

	return parseLyricsHTML(resp.Body), nil
}

// parseLyricsHTML walks the page DOM collecting text from every
// div[data-lyrics-container="true"].
func parseLyricsHTML(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}

	var sb strings.Builder

	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			for _, a := range n.Attr {
				if a.Key == "data-lyrics-container" && a.Val == "true" {
					collectText(n, &sb)
					sb.WriteString("\n")
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}

	find(doc)
	return strings.TrimSpace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	if n.Type == html.ElementNode && n.Data == "br" {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
