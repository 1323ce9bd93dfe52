package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "FICTION", "fiction"},
		{"spaces to dashes", "science fiction", "science-fiction"},
		{"already normalized", "science-fiction", "science-fiction"},

		{"trim whitespace", "  history  ", "history"},
		{"multiple spaces", "deep   work", "deep-work"},

		{"diacritics folded", "Café Culture", "cafe-culture"},
		{"punctuation removal", "sci-fi/fantasy", "sci-fi-fantasy"},
		{"apostrophe removal", "don't", "dont"},

		{"multiple dashes", "slow--burn", "slow-burn"},
		{"leading and trailing dashes", "--to-read--", "to-read"},

		{"empty string", "", ""},
		{"only special chars", "!@#$%", ""},
		{"numbers allowed", "top10", "top10"},
		{"mixed case with numbers", "Top 10 Books", "top-10-books"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Make(tt.input)
			if result != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
