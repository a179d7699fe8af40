package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScreen_Match
// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestScreen_Match(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	screen, err := NewScreen(dictionary)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple word",
			input:    "The badger is here",
			expected: []string{"badger"},
		},
		{
			name:     "Multiple occurrences reported once",
			input:    "badger badger badger",
			expected: []string{"badger"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at B.4.d.g.€r !",
			expected: []string{"badger"},
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "S-N-A-K-E is a B.A.D.G.E.R",
			expected: []string{"snake", "badger"},
		},
		{
			name:     "Accents around the word (UTF-8)",
			input:    "Un été avec un badger",
			expected: []string{"badger"},
		},
		{
			name:     "Nothing to flag",
			input:    "Catch-Guard is amazing",
			expected: nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := screen.Match(tt.input)
			if tt.expected == nil {
				require.Empty(t, got)
				return
			}
			require.ElementsMatch(t, tt.expected, got)
		})
	}
}
