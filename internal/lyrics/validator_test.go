package lyrics

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Run("RejectsEmpty", func(t *testing.T) {
		if Validate("") {
			t.Error("empty text should be rejected")
		}
		if Validate("   \n\t  ") {
			t.Error("whitespace-only text should be rejected")
		}
	})

	t.Run("RejectsShortText", func(t *testing.T) {
		if Validate("Not found") {
			t.Error("short placeholder text should be rejected")
		}
	})

	t.Run("RejectsTooFewWords", func(t *testing.T) {
		// Over 50 characters but under 10 words.
		text := "Supercalifragilisticexpialidocious antidisestablishmentarianism pneumonoultramicroscopic"
		if Validate(text) {
			t.Error("text with fewer than 10 words should be rejected")
		}
	})

	t.Run("RejectsWordCountAtBoundary", func(t *testing.T) {
		// Exactly 9 words, padded past the length floor.
		text := "wonderful marvelous beautiful incredible fantastic amazing glorious spectacular magnificent"
		if len(text) < 50 {
			t.Fatalf("test fixture too short: %d chars", len(text))
		}
		if Validate(text) {
			t.Error("9 words should be rejected")
		}
	})

	t.Run("AcceptsPlausibleLyrics", func(t *testing.T) {
		text := "Hello, it's me. I was wondering if after all these years you'd like to meet"
		if !Validate(text) {
			t.Errorf("plausible lyrics should be accepted: %q", text)
		}
	})

	t.Run("AcceptsMultilineLyrics", func(t *testing.T) {
		text := strings.Repeat("la la la we sing along tonight\n", 4)
		if !Validate(text) {
			t.Error("multiline lyrics should be accepted")
		}
	})

	t.Run("RejectsSymbolHeavyText", func(t *testing.T) {
		// 10 "words" of markup, far over the 30% symbol ratio.
		text := strings.TrimSpace(strings.Repeat("<#### /> ", 10))
		if len(text) < 50 {
			t.Fatalf("test fixture too short: %d chars", len(text))
		}
		if Validate(text) {
			t.Error("symbol-heavy text should be rejected")
		}
	})

	t.Run("ProsePunctuationDoesNotCount", func(t *testing.T) {
		text := `"Stop!" she said. Don't you (ever) wonder why we run; why we hide, why we fall?`
		if !Validate(text) {
			t.Error("prose punctuation should not count toward the symbol ratio")
		}
	})
}
