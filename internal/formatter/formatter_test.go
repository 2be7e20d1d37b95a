package formatter

import (
	"strings"
	"testing"

	"github.com/tunedex/tunedex/internal/models"
	th "github.com/tunedex/tunedex/internal/testing"
)

func sampleSet() *models.ResolvedSet {
	one := models.NewPersistedTrack(1, models.SourceYouTube, "vid1", models.Track{
		ID:       "vid1",
		Title:    "Song One",
		Artist:   "Artist One",
		Album:    "Album One",
		Duration: 180,
		ISRC:     "USRC12345678",
	})
	one.SetID("track1")
	one.SetGenres([]string{"pop", "dance_pop"})

	two := models.NewPersistedTrack(2, models.SourceSpotify, "sid2", models.Track{
		ID:       "sid2",
		Title:    "Song Two",
		Artist:   "Artist Two",
		Duration: 240,
	})
	two.SetID("track2")

	return &models.ResolvedSet{
		Source: models.SourceLocalCache,
		Items:  []*models.PersistedTrack{one, two},
	}
}

func TestRenderers(t *testing.T) {
	t.Run("RenderSet", func(t *testing.T) {
		output := RenderSet(sampleSet())

		if !strings.Contains(output, "2 track(s)") {
			t.Errorf("listing missing header, got: %s", output)
		}
		if !strings.Contains(output, "local cache") {
			t.Errorf("listing missing source label, got: %s", output)
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One)") {
			t.Errorf("listing missing track1, got: %s", output)
		}
		if !strings.Contains(output, "3:00") {
			t.Errorf("listing missing formatted duration, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two - Song Two") {
			t.Errorf("listing missing track2 (no album), got: %s", output)
		}
		if !strings.Contains(output, "pop, dance_pop") {
			t.Errorf("listing missing genres, got: %s", output)
		}
	})

	t.Run("RenderSetNotFound", func(t *testing.T) {
		set := &models.ResolvedSet{Source: models.SourceNotFound, Items: []*models.PersistedTrack{}}
		output := RenderSet(set)

		if !strings.Contains(output, "No matching tracks found") {
			t.Errorf("expected not-found message, got: %s", output)
		}
	})

	t.Run("RenderLyrics", func(t *testing.T) {
		output := RenderLyrics("Hello", "Adele", "Hello, it's me")

		if !strings.Contains(output, "Adele - Hello") {
			t.Errorf("lyrics missing attribution header, got: %s", output)
		}
		if !strings.Contains(output, "Hello, it's me") {
			t.Errorf("lyrics missing text, got: %s", output)
		}
	})

	t.Run("RenderGenres", func(t *testing.T) {
		matches := []models.GenreMatch{
			{GenreID: "kpop", Confidence: 1.0},
			{GenreID: "dance_pop", Confidence: 0.33},
		}
		output := RenderGenres(matches)

		if !strings.Contains(output, "kpop") || !strings.Contains(output, "dance_pop") {
			t.Errorf("genre listing missing matches, got: %s", output)
		}
		if !strings.Contains(output, "0.33") {
			t.Errorf("genre listing missing confidence, got: %s", output)
		}

		empty := RenderGenres(nil)
		if !strings.Contains(empty, "No genres matched") {
			t.Errorf("expected no-match message, got: %s", empty)
		}
	})

	t.Run("SourceLabels", func(t *testing.T) {
		cases := []struct {
			source   models.ResultSource
			expected string
		}{
			{models.SourceLocalCache, "local cache"},
			{models.SourceLocalAugmented, "local cache + augmented"},
			{models.SourceExternal, "external providers"},
			{models.SourceNotFound, "not found"},
		}

		for _, tc := range cases {
			if got := sourceLabel(tc.source); got != tc.expected {
				t.Errorf("sourceLabel(%s) = %q, expected %q", tc.source, got, tc.expected)
			}
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(sampleSet())
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"local_cache"`) {
			t.Errorf("JSON missing source, got: %s", output)
		}
		if !strings.Contains(output, `"track1"`) || !strings.Contains(output, `"Song One"`) {
			t.Errorf("JSON missing track data, got: %s", output)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleSet())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Source,SourceID,Title,Artist,Album,Duration,ISRC,Genres") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1") {
			t.Errorf("CSV missing track1 ID")
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing track1 title")
		}
		if !strings.Contains(output, "USRC12345678") {
			t.Errorf("CSV missing track1 ISRC")
		}
		if !strings.Contains(output, "pop;dance_pop") {
			t.Errorf("CSV genres should be semicolon-joined, got: %s", output)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			path, err := WriteCSVExport(sampleSet(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if path != "results_tracks.csv" {
				t.Errorf("Expected 'results_tracks.csv', got '%s'", path)
			}

			th.AssertFileExists(t, path)

			content := th.MustReadFile(t, path)
			if !strings.Contains(content, "ID,Source,SourceID,Title,Artist,Album,Duration,ISRC,Genres") {
				t.Errorf("CSV missing headers")
			}
			if !strings.Contains(content, "track1") || !strings.Contains(content, "Song One") {
				t.Errorf("CSV missing track data")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			path, err := WriteCSVExport(sampleSet(), "custom_export")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if path != "custom_export_tracks.csv" {
				t.Errorf("Expected 'custom_export_tracks.csv', got '%s'", path)
			}

			th.AssertFileExists(t, path)
		})
	})
}
