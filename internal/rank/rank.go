// Package rank scores aggregated records against a query and bounds the
// result set.
package rank

import (
	"sort"
	"strings"

	"github.com/JT5D/xrai/internal/asset"
)

// MaxResults caps the ranked result set.
const MaxResults = 100

const (
	phraseBonus = 0.5
	wordBudget  = 0.3
)

// Relevance scores a record against a query on [0,1]. A full-phrase
// match is worth 0.5; the remaining 0.3 budget is split evenly across
// the query words that appear as substrings of the record text.
func Relevance(r asset.Record, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	text := strings.ToLower(r.Name + " " + r.Description)

	score := 0.0
	if strings.Contains(text, q) {
		score += phraseBonus
	}
	words := strings.Fields(q)
	if len(words) > 0 {
		perWord := wordBudget / float64(len(words))
		for _, w := range words {
			if strings.Contains(text, w) {
				score += perWord
			}
		}
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Rank scores records against the query, sorts them by descending
// relevance (stable, so aggregator order breaks ties) and truncates to
// MaxResults entries.
func Rank(records []asset.Record, query string) []asset.RankedRecord {
	ranked := make([]asset.RankedRecord, len(records))
	for i, r := range records {
		ranked[i] = asset.RankedRecord{Record: r, Relevance: Relevance(r, query)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Relevance > ranked[j].Relevance })
	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return ranked
}
