package normalize

import (
	"testing"

	"github.com/tunedex/tunedex/internal/models"
)

func TestCleanArtistName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"TopicSuffix", "BTS - Topic", "BTS"},
		{"TopicSuffixLowercase", "blackpink - topic", "blackpink"},
		{"VEVOSuffix", "Maroon 5 VEVO", "Maroon 5"},
		{"OfficialSuffix", "IU Official", "IU"},
		{"RecordsSuffix", "Monstercat Records", "Monstercat"},
		{"TrademarkSymbols", "SM Entertainment™", "SM Entertainment"},
		{"TrailingParenthetical", "Adele (Official Artist Channel)", "Adele"},
		{"TrailingBrackets", "Sigur Rós [Audio]", "Sigur Rós"},
		{"PlainName", "Radiohead", "Radiohead"},
		{"Whitespace", "  Bon Iver  ", "Bon Iver"},
		{"StackedDecorations", "Halsey VEVO - Topic", "Halsey"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanArtistName(tc.input)
			if got != tc.expected {
				t.Errorf("CleanArtistName(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}

	t.Run("NeverReturnsEmpty", func(t *testing.T) {
		got := CleanArtistName("(Official)")
		if got == "" {
			t.Error("cleaning that empties the name should fall back to the original")
		}
		if got != "(Official)" {
			t.Errorf("expected fallback to trimmed original, got %q", got)
		}
	})
}

func TestDeriveAlbumTitle(t *testing.T) {
	cases := []struct {
		name     string
		album    string
		song     string
		expected string
	}{
		{"NoAlbum", "", "Dynamite", "Dynamite - Single"},
		{"AlbumRepeatsTitle", "Dynamite", "Dynamite", "Dynamite - Single"},
		{"AlbumRepeatsTitleCaseInsensitive", "DYNAMITE", "Dynamite", "Dynamite - Single"},
		{"EPMarker", "Love Yourself - EP", "Euphoria", "Love Yourself"},
		{"AlbumMarker", "Map of the Soul - Album", "ON", "Map of the Soul"},
		{"SingleMarker", "Butter - Single", "Butter2", "Butter"},
		{"PlainAlbum", "Midnights", "Anti-Hero", "Midnights"},
		{"Empty", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveAlbumTitle(tc.album, tc.song)
			if got != tc.expected {
				t.Errorf("DeriveAlbumTitle(%q, %q) = %q, expected %q", tc.album, tc.song, got, tc.expected)
			}
		})
	}
}

func TestCleanLyrics(t *testing.T) {
	t.Run("NormalizesLineEndings", func(t *testing.T) {
		got := CleanLyrics("line one\r\nline two\rline three")
		expected := "line one\nline two\nline three"
		if got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	})

	t.Run("CollapsesNewlineRuns", func(t *testing.T) {
		got := CleanLyrics("verse one\n\n\n\n\nverse two")
		expected := "verse one\n\nverse two"
		if got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	})

	t.Run("TrimsSurroundingWhitespace", func(t *testing.T) {
		got := CleanLyrics("\n\n  chorus  \n\n")
		if got != "chorus" {
			t.Errorf("expected %q, got %q", "chorus", got)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		input := "a\r\n\r\n\r\nb\n\n\n\nc  "
		once := CleanLyrics(input)
		twice := CleanLyrics(once)
		if once != twice {
			t.Errorf("CleanLyrics not idempotent: %q != %q", once, twice)
		}
	})
}

func TestDedupKeys(t *testing.T) {
	t.Run("TrackKeyNormalizes", func(t *testing.T) {
		got := TrackKey("  Hello   World ", "ADELE")
		if got != "hello world|adele" {
			t.Errorf("expected %q, got %q", "hello world|adele", got)
		}
	})

	t.Run("SourceIDKey", func(t *testing.T) {
		got := DedupKey("youtube", "abc123", "Title", "Artist")
		if got != "youtube:abc123" {
			t.Errorf("expected %q, got %q", "youtube:abc123", got)
		}
	})

	t.Run("FallbackKey", func(t *testing.T) {
		got := DedupKey("youtube", "", "Hello", "Adele")
		if got != "fallback:hello|adele" {
			t.Errorf("expected %q, got %q", "fallback:hello|adele", got)
		}
	})

	t.Run("FallbackIgnoresSource", func(t *testing.T) {
		a := DedupKey("youtube", "", "Hello", "Adele")
		b := DedupKey("spotify", "", "hello", "ADELE")
		if a != b {
			t.Errorf("fallback keys should collide across sources: %q != %q", a, b)
		}
	})

	t.Run("CandidateAndRecordKeysAgree", func(t *testing.T) {
		c := models.ExternalCandidate{Source: "spotify", SourceID: "sp1", Title: "Song", Artist: "Artist"}
		track := models.NewPersistedTrack(0, c.Source, c.SourceID, models.Track{ID: c.SourceID, Title: c.Title, Artist: c.Artist})

		if CandidateKey(c) != RecordKey(track) {
			t.Errorf("candidate key %q != record key %q", CandidateKey(c), RecordKey(track))
		}
	})
}

func TestCandidate(t *testing.T) {
	raw := models.ExternalCandidate{
		Source:   "youtube",
		SourceID: "vid1",
		Title:    "  Dynamite ",
		Artist:   "BTS - Topic",
		Album:    "",
		Lyrics:   "line\r\nline\n\n\n\nend",
	}

	got := Candidate(raw)

	if got.Title != "Dynamite" {
		t.Errorf("expected trimmed title, got %q", got.Title)
	}
	if got.Artist != "BTS" {
		t.Errorf("expected cleaned artist, got %q", got.Artist)
	}
	if got.Album != "Dynamite - Single" {
		t.Errorf("expected derived album, got %q", got.Album)
	}
	if got.Lyrics != "line\nline\n\nend" {
		t.Errorf("expected cleaned lyrics, got %q", got.Lyrics)
	}
}
