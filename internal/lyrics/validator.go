// Package lyrics decides whether text blobs are plausible song lyrics and
// resolves lyrics through an ordered provider chain.
package lyrics

import (
	"strings"
	"unicode"
)

const (
	minLength      = 50
	minWords       = 10
	maxSymbolRatio = 0.30
)

// Punctuation that prose legitimately contains; anything else counts toward
// the symbol ratio.
const prosePunctuation = `.,'"!?;:()-`

// Validate reports whether text is plausible song lyrics. It rejects empty or
// whitespace-only input, text under 50 characters, fewer than 10 words, and
// text where more than 30% of characters are symbols rather than prose.
// Deterministic, no I/O.
func Validate(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	if len(trimmed) < minLength {
		return false
	}

	if len(strings.Fields(trimmed)) < minWords {
		return false
	}

	total := 0
	symbols := 0
	for _, r := range trimmed {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(prosePunctuation, r) {
			continue
		}
		symbols++
	}

	return float64(symbols)/float64(total) <= maxSymbolRatio
}
