// Package graph assembles ranked records into the node/link structure
// consumed by the spatial layout.
package graph

import (
	"fmt"
	"math"

	"github.com/JT5D/xrai/internal/asset"
)

// fallbackStrength is used for synthesized links between nodes of the
// same type when providers returned no relationship data.
const fallbackStrength = 0.5

// Build converts ranked records into a graph. Records sharing an id
// collapse to one node (last write wins, keeping the earlier insertion
// position). Relationships referencing unknown targets are dropped.
// When no links survive and at least two nodes exist, nodes of the
// same type are chained so the result stays visually connected.
func Build(records []asset.RankedRecord) *asset.Graph {
	g := asset.NewGraph()

	for i, r := range records {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("node-%d", i)
		}
		g.PutNode(asset.GraphNode{
			ID:     id,
			Name:   r.Name,
			Source: r.Source,
			Type:   r.Type,
			Weight: normalizeWeight(r.Weight),
		})
	}

	for i, r := range records {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("node-%d", i)
		}
		if !g.HasNode(id) {
			continue
		}
		for _, rel := range r.Relationships {
			g.AddLink(asset.GraphLink{SourceID: id, TargetID: rel.TargetID, Strength: clamp01(rel.Strength)})
		}
	}

	if len(g.Links) == 0 && g.Len() >= 2 {
		synthesizeChains(g)
	}
	return g
}

// synthesizeChains connects consecutive same-type nodes so every
// non-trivial graph has at least some structure to render.
func synthesizeChains(g *asset.Graph) {
	prev := make(map[string]string)
	for _, n := range g.Nodes {
		if last, ok := prev[n.Type]; ok {
			g.AddLink(asset.GraphLink{SourceID: last, TargetID: n.ID, Strength: fallbackStrength})
		}
		prev[n.Type] = n.ID
	}
}

func normalizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 1
	}
	return w
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
