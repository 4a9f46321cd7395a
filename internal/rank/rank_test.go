package rank

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JT5D/xrai/internal/asset"
)

func TestRelevanceFullPhraseMatch(t *testing.T) {
	r := asset.Record{Name: "Damaged Helmet"}
	score := Relevance(r, "helmet")
	assert.GreaterOrEqual(t, score, 0.5)
	assert.LessOrEqual(t, score, 1.0)
}

func TestRelevancePerWordBudget(t *testing.T) {
	r := asset.Record{Name: "space shuttle", Description: "orbiter model"}
	// "space" matches, "station" does not: no phrase match, half the
	// word budget.
	score := Relevance(r, "space station")
	assert.InDelta(t, 0.15, score, 1e-9)
}

func TestRelevanceNoMatch(t *testing.T) {
	r := asset.Record{Name: "teapot"}
	assert.Zero(t, Relevance(r, "helmet"))
	assert.Zero(t, Relevance(r, ""))
}

func TestRelevanceCaseInsensitive(t *testing.T) {
	r := asset.Record{Name: "DAMAGED HELMET"}
	assert.GreaterOrEqual(t, Relevance(r, "Helmet"), 0.5)
}

func TestRankSortedAndBounded(t *testing.T) {
	var records []asset.Record
	for i := 0; i < 250; i++ {
		records = append(records, asset.Record{
			ID:   fmt.Sprintf("r%d", i),
			Name: fmt.Sprintf("helmet %d", i),
		})
	}
	ranked := Rank(records, "helmet")
	require.Len(t, ranked, MaxResults)
	for i, r := range ranked {
		assert.GreaterOrEqual(t, r.Relevance, 0.0)
		assert.LessOrEqual(t, r.Relevance, 1.0)
		if i > 0 {
			assert.LessOrEqual(t, r.Relevance, ranked[i-1].Relevance)
		}
	}
}

func TestRankStableTieBreak(t *testing.T) {
	records := []asset.Record{
		{ID: "a", Name: "helmet one"},
		{ID: "b", Name: "helmet two"},
		{ID: "c", Name: "helmet three"},
	}
	ranked := Rank(records, "helmet")
	require.Len(t, ranked, 3)
	// Equal scores keep aggregator order.
	assert.Equal(t, "a", ranked[0].ID)
	assert.Equal(t, "b", ranked[1].ID)
	assert.Equal(t, "c", ranked[2].ID)
}

func TestRankUsesDescription(t *testing.T) {
	records := []asset.Record{
		{ID: "miss", Name: "cube"},
		{ID: "hit", Name: "cube", Description: "a sci-fi helmet prop"},
	}
	ranked := Rank(records, "helmet")
	assert.Equal(t, "hit", ranked[0].ID)
	assert.Greater(t, ranked[0].Relevance, ranked[1].Relevance)
}
