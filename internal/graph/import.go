package graph

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JT5D/xrai/internal/asset"
)

// graphDocument is the {nodes, links} file-drop shape.
type graphDocument struct {
	Nodes []asset.GraphNode `json:"nodes"`
	Links []asset.GraphLink `json:"links"`
}

// ParseJSON decodes an imported graph document. Two shapes are
// accepted: a {nodes, links} object, used directly, or a flat array of
// records, which is passed through the builder. Nodes in a document
// that lack an id get a generated one; links with dangling endpoints
// are dropped either way.
func ParseJSON(data []byte) (*asset.Graph, error) {
	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err == nil && (doc.Nodes != nil || doc.Links != nil) {
		g := asset.NewGraph()
		for _, n := range doc.Nodes {
			if n.ID == "" {
				n.ID = uuid.NewString()
			}
			n.Weight = normalizeWeight(n.Weight)
			n.Position = nil
			g.PutNode(n)
		}
		for _, l := range doc.Links {
			l.Strength = clamp01(l.Strength)
			g.AddLink(l)
		}
		if len(g.Links) == 0 && g.Len() >= 2 {
			synthesizeChains(g)
		}
		return g, nil
	}

	var records []asset.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unrecognized graph document: %w", err)
	}
	ranked := make([]asset.RankedRecord, len(records))
	for i, r := range records {
		ranked[i] = asset.RankedRecord{Record: r}
	}
	return Build(ranked), nil
}
