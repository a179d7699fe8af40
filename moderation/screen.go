package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Screen is the local wordlist matcher backing the offline provider.
// It normalizes both the wordlist and the input (lowercasing, leet-speak
// folding, noise removal) so obfuscated spellings still match.
type Screen struct {
	matcher *goahocorasick.Machine
}

// NewScreen builds the Aho-Corasick automaton from a normalized version of
// the provided forbidden words list.
func NewScreen(words []string) (*Screen, error) {
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = normalizeRunes([]rune(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Screen{matcher: m}, nil
}

// Match returns the distinct normalized forbidden words found in text.
// An empty slice means the text passed the screen.
func (s *Screen) Match(text string) []string {
	norm := normalizeRunes([]rune(text))
	if len(norm) == 0 {
		return nil
	}

	spans := s.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return nil
	}

	words := make([]string, 0, len(spans))
	for _, span := range spans {
		words = append(words, string(span.Word))
	}
	return lo.Uniq(words)
}

// normalizeRunes applies simplification and noise removal to a slice of runes.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common Leet speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters that should be ignored during the pattern matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
