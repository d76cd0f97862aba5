package matching

import "testing"

func TestTokenScorer_Score(t *testing.T) {
	s := NewTokenScorer()

	tests := []struct {
		name     string
		merchant string
		search   string
		min, max float64
	}{
		{"identical", "github", "github", 1, 1},
		{"token present", "github sponsors 4021", "github", 1, 1},
		{"token contained", "slackhq", "slack", 0.7, 0.72},
		{"short token contained", "lawson legal", "aws", 0, 0.3},
		{"typo via whole string", "slak", "slack", 0.8, 0.8},
		{"one edit inside longer name", "black rock coffee", "slack", 0, 0.3},
		{"rhyme inside longer name", "room service hilton", "zoom", 0, 0.3},
		{"empty merchant", "", "slack", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.merchant, tt.search)
			if got < tt.min-1e-9 || got > tt.max+1e-9 {
				t.Errorf("Score(%q, %q) = %.3f, want in [%.2f, %.2f]", tt.merchant, tt.search, got, tt.min, tt.max)
			}
		})
	}
}
