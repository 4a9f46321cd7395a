package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JT5D/xrai/internal/asset"
)

func ranked(records ...asset.Record) []asset.RankedRecord {
	out := make([]asset.RankedRecord, len(records))
	for i, r := range records {
		out[i] = asset.RankedRecord{Record: r}
	}
	return out
}

func TestBuildNodesAndLinks(t *testing.T) {
	g := Build(ranked(
		asset.Record{ID: "a", Name: "one", Type: "model", Weight: 2,
			Relationships: []asset.Relationship{{TargetID: "b", Strength: 0.7}}},
		asset.Record{ID: "b", Name: "two", Type: "model", Weight: 1},
	))
	require.Equal(t, 2, g.Len())
	require.Len(t, g.Links, 1)
	assert.Equal(t, "a", g.Links[0].SourceID)
	assert.Equal(t, "b", g.Links[0].TargetID)
	assert.InDelta(t, 0.7, g.Links[0].Strength, 1e-9)
}

func TestBuildFallbackID(t *testing.T) {
	g := Build(ranked(
		asset.Record{Name: "anon one"},
		asset.Record{Name: "anon two"},
	))
	require.Equal(t, 2, g.Len())
	assert.Equal(t, "node-0", g.Nodes[0].ID)
	assert.Equal(t, "node-1", g.Nodes[1].ID)
}

func TestBuildDuplicateIDLastWriteWins(t *testing.T) {
	g := Build(ranked(
		asset.Record{ID: "a", Name: "first", Weight: 1},
		asset.Record{ID: "b", Name: "middle", Weight: 1},
		asset.Record{ID: "a", Name: "second", Weight: 3},
	))
	require.Equal(t, 2, g.Len())
	// The replacement keeps the original position in the node list.
	assert.Equal(t, "a", g.Nodes[0].ID)
	assert.Equal(t, "second", g.Nodes[0].Name)
	assert.InDelta(t, 3, g.Nodes[0].Weight, 1e-9)
	assert.Equal(t, "b", g.Nodes[1].ID)
}

func TestBuildDropsDanglingLinks(t *testing.T) {
	g := Build(ranked(
		asset.Record{ID: "a", Name: "one",
			Relationships: []asset.Relationship{
				{TargetID: "missing", Strength: 0.9},
				{TargetID: "b", Strength: 0.4},
			}},
		asset.Record{ID: "b", Name: "two"},
	))
	require.Len(t, g.Links, 1)
	assert.Equal(t, "b", g.Links[0].TargetID)
}

func TestBuildSynthesizesSameTypeChains(t *testing.T) {
	g := Build(ranked(
		asset.Record{ID: "m1", Name: "one", Type: "model"},
		asset.Record{ID: "r1", Name: "repo", Type: "repository"},
		asset.Record{ID: "m2", Name: "two", Type: "model"},
		asset.Record{ID: "m3", Name: "three", Type: "model"},
	))
	// No explicit relationships: consecutive same-type records are
	// chained at the fallback strength.
	require.Len(t, g.Links, 2)
	for _, l := range g.Links {
		assert.InDelta(t, 0.5, l.Strength, 1e-9)
	}
	assert.Equal(t, "m1", g.Links[0].SourceID)
	assert.Equal(t, "m2", g.Links[0].TargetID)
	assert.Equal(t, "m2", g.Links[1].SourceID)
	assert.Equal(t, "m3", g.Links[1].TargetID)
}

func TestBuildNoChainsWhenExplicitLinksExist(t *testing.T) {
	g := Build(ranked(
		asset.Record{ID: "a", Name: "one", Type: "model",
			Relationships: []asset.Relationship{{TargetID: "b", Strength: 1}}},
		asset.Record{ID: "b", Name: "two", Type: "model"},
		asset.Record{ID: "c", Name: "three", Type: "model"},
	))
	require.Len(t, g.Links, 1)
	assert.Equal(t, "b", g.Links[0].TargetID)
}

func TestBuildNormalizesWeight(t *testing.T) {
	g := Build(ranked(
		asset.Record{ID: "a", Name: "bad weight", Weight: -4},
		asset.Record{ID: "b", Name: "zero weight"},
	))
	assert.InDelta(t, 1, g.Nodes[0].Weight, 1e-9)
	assert.InDelta(t, 1, g.Nodes[1].Weight, 1e-9)
}

func TestBuildEmpty(t *testing.T) {
	g := Build(nil)
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Links)
}
