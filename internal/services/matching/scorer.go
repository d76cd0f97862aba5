package matching

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer rates how well a normalized merchant name matches a normalized
// search name. Scores are in [0,1] where 1 is an exact match.
type Scorer interface {
	Score(merchant, searchName string) float64
}

// TokenScorer takes the better of whole-string Levenshtein similarity and a
// token pass averaged over the search name's tokens. The token pass lets
// "github" match "github sponsors 4021" despite processor noise. It only
// credits whole-token equality or containment; typos are left to the
// whole-string path.
type TokenScorer struct {
	metric strutil.StringMetric
}

func NewTokenScorer() *TokenScorer {
	return &TokenScorer{metric: metrics.NewLevenshtein()}
}

func (s *TokenScorer) Score(merchant, searchName string) float64 {
	if merchant == "" || searchName == "" {
		return 0
	}
	if merchant == searchName {
		return 1
	}

	whole := strutil.Similarity(merchant, searchName, s.metric)

	merchantTokens := strings.Fields(merchant)
	searchTokens := strings.Fields(searchName)

	total := 0.0
	for _, st := range searchTokens {
		best := 0.0
		for _, mt := range merchantTokens {
			if credit := tokenCredit(mt, st); credit > best {
				best = credit
			}
		}
		total += best
	}
	tokens := total / float64(len(searchTokens))

	return clamp(max(whole, tokens))
}

// minContainedToken is the shortest token that earns partial credit for
// appearing inside a longer one.
const minContainedToken = 4

// tokenCredit is 1 for equal tokens and the length ratio when one token
// contains the other, otherwise 0.
func tokenCredit(a, b string) float64 {
	if a == b {
		return 1
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < minContainedToken || !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(len(shorter)) / float64(len(longer))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
