// Package genre scores free-text track metadata against a fixed taxonomy of
// keyword sets. Classification is deterministic and does no I/O.
package genre

import (
	"sort"
	"strings"

	"github.com/tunedex/tunedex/internal/models"
)

// Genre is one taxonomy entry. Declaration order breaks confidence ties.
type Genre struct {
	ID       string
	Keywords []string
}

// DefaultTaxonomy covers the genres the catalog tags out of the box.
var DefaultTaxonomy = []Genre{
	{ID: "kpop", Keywords: []string{"kpop", "korean pop", "k-pop"}},
	{ID: "dance_pop", Keywords: []string{"dance pop", "dance", "upbeat"}},
	{ID: "pop", Keywords: []string{"pop", "chart", "hit single"}},
	{ID: "hip_hop", Keywords: []string{"hip hop", "hip-hop", "rap", "trap"}},
	{ID: "rnb", Keywords: []string{"r&b", "rnb", "soul", "neo soul"}},
	{ID: "rock", Keywords: []string{"rock", "guitar", "alt rock", "grunge"}},
	{ID: "metal", Keywords: []string{"metal", "metalcore", "thrash", "doom"}},
	{ID: "electronic", Keywords: []string{"electronic", "edm", "house", "techno", "synth"}},
	{ID: "lofi", Keywords: []string{"lofi", "lo-fi", "chillhop", "study beats"}},
	{ID: "jazz", Keywords: []string{"jazz", "bebop", "swing", "saxophone"}},
	{ID: "classical", Keywords: []string{"classical", "orchestra", "symphony", "concerto"}},
	{ID: "country", Keywords: []string{"country", "bluegrass", "nashville"}},
	{ID: "indie", Keywords: []string{"indie", "independent", "bedroom pop"}},
	{ID: "latin", Keywords: []string{"latin", "reggaeton", "salsa", "bachata"}},
}

// Options bound a classification call.
type Options struct {
	MaxGenres     int     // maximum matches returned (default 3)
	MinConfidence float64 // confidence floor (default 0.1)
}

// Classifier scores metadata against a taxonomy.
type Classifier struct {
	taxonomy []Genre
}

// NewClassifier creates a classifier over the given taxonomy, falling back to
// [DefaultTaxonomy] when none is supplied.
func NewClassifier(taxonomy []Genre) *Classifier {
	if len(taxonomy) == 0 {
		taxonomy = DefaultTaxonomy
	}
	return &Classifier{taxonomy: taxonomy}
}

// Classify scores each taxonomy genre by case-insensitive substring keyword
// occurrences across the concatenated metadata fields, normalized by keyword
// set size, and returns the top matches above the confidence floor ordered by
// descending confidence. Ties keep taxonomy declaration order.
func (c *Classifier) Classify(title, artist, album string, tags []string, opts Options) []models.GenreMatch {
	if opts.MaxGenres <= 0 {
		opts.MaxGenres = 3
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.1
	}

	parts := append([]string{title, artist, album}, tags...)
	haystack := strings.ToLower(strings.Join(parts, " "))

	var matches []models.GenreMatch
	for _, g := range c.taxonomy {
		if len(g.Keywords) == 0 {
			continue
		}

		hits := 0
		for _, kw := range g.Keywords {
			hits += strings.Count(haystack, strings.ToLower(kw))
		}
		if hits == 0 {
			continue
		}

		confidence := float64(hits) / float64(len(g.Keywords))
		if confidence > 1.0 {
			confidence = 1.0
		}
		if confidence < opts.MinConfidence {
			continue
		}

		matches = append(matches, models.GenreMatch{GenreID: g.ID, Confidence: confidence})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	if len(matches) > opts.MaxGenres {
		matches = matches[:opts.MaxGenres]
	}
	return matches
}
