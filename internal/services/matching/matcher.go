package matching

import (
	"sort"
	"strings"

	"tooling-spend-tracker/internal/models"

	"github.com/google/uuid"
)

// Options holds the matching policy. Thresholds are confidences in [0,1].
type Options struct {
	MatchThreshold   float64
	SuggestThreshold float64
	SuggestionLimit  int
	MinMatchLength   int
	Scorer           Scorer
}

func DefaultOptions() Options {
	return Options{
		MatchThreshold:   0.6,
		SuggestThreshold: 0.3,
		SuggestionLimit:  3,
		MinMatchLength:   3,
	}
}

// Match is a vendor assignment for a merchant name.
type Match struct {
	Vendor      models.Vendor `json:"vendor"`
	Confidence  float64       `json:"confidence"`
	MatchedName string        `json:"matched_name"`
}

// Item is a merchant line to be matched, keyed by the caller's id.
type Item struct {
	ID           string
	MerchantName string
}

type entry struct {
	vendor     int
	searchName string
	normalized string
}

// Matcher fuzzy-matches merchant names against a point-in-time snapshot of
// the vendor registry. Call Refresh after the registry changes.
type Matcher struct {
	opts    Options
	vendors []models.Vendor
	index   []entry
}

func NewMatcher(vendors []models.Vendor, opts Options) *Matcher {
	if opts.Scorer == nil {
		opts.Scorer = NewTokenScorer()
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = DefaultOptions().SuggestionLimit
	}
	m := &Matcher{opts: opts}
	m.Refresh(vendors)
	return m
}

// Refresh rebuilds the index. Every vendor contributes its name and each
// alias as separate entries that resolve back to the same vendor.
func (m *Matcher) Refresh(vendors []models.Vendor) {
	m.vendors = append([]models.Vendor(nil), vendors...)
	m.index = m.index[:0]
	for i, v := range m.vendors {
		for _, name := range v.SearchNames() {
			n := Normalize(name)
			if n == "" {
				continue
			}
			m.index = append(m.index, entry{vendor: i, searchName: name, normalized: n})
		}
	}
}

// Match returns the top-ranked vendor when its confidence reaches the match
// threshold, or nil.
func (m *Matcher) Match(merchantName string) *Match {
	ranked := m.search(merchantName)
	if len(ranked) == 0 || ranked[0].Confidence < m.opts.MatchThreshold {
		return nil
	}
	best := ranked[0]
	return &best
}

// MatchBatch matches every item independently. Items without a match map to nil.
func (m *Matcher) MatchBatch(items []Item) map[string]*Match {
	out := make(map[string]*Match, len(items))
	for _, it := range items {
		out[it.ID] = m.Match(it.MerchantName)
	}
	return out
}

// Suggestions returns up to limit candidate vendors at or above the suggest
// threshold, best first, one entry per vendor. limit <= 0 uses the configured
// default.
func (m *Matcher) Suggestions(merchantName string, limit int) []Match {
	if limit <= 0 {
		limit = m.opts.SuggestionLimit
	}

	seen := make(map[uuid.UUID]bool)
	out := make([]Match, 0, limit)
	for _, c := range m.search(merchantName) {
		if len(out) == limit || c.Confidence < m.opts.SuggestThreshold {
			break
		}
		if seen[c.Vendor.ID] {
			continue
		}
		seen[c.Vendor.ID] = true
		out = append(out, c)
	}
	return out
}

// search scores every index entry and returns them best first. Ties keep
// registry order.
func (m *Matcher) search(merchantName string) []Match {
	q := Normalize(merchantName)
	if len(strings.ReplaceAll(q, " ", "")) < m.opts.MinMatchLength {
		return nil
	}

	results := make([]Match, 0, len(m.index))
	for _, e := range m.index {
		score := m.opts.Scorer.Score(q, e.normalized)
		if score <= 0 {
			continue
		}
		results = append(results, Match{
			Vendor:      m.vendors[e.vendor],
			Confidence:  score,
			MatchedName: e.searchName,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}
