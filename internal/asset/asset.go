package asset

// SourceTag identifies the provider a record came from.
type SourceTag string

const (
	SourceGallery    SourceTag = "content-gallery"
	SourceModelRepo  SourceTag = "model-repository"
	SourceCodeHost   SourceTag = "code-host"
	SourceWebSearch  SourceTag = "web-search"
	SourceLocalIndex SourceTag = "local-index"

	// SourceAll expands to every registered provider when used in a
	// source selection.
	SourceAll SourceTag = "all"
)

// AllSources lists the concrete source tags in registration order.
func AllSources() []SourceTag {
	return []SourceTag{SourceGallery, SourceModelRepo, SourceCodeHost, SourceWebSearch, SourceLocalIndex}
}

// Relationship points from the owning record to another record.
type Relationship struct {
	TargetID string  `json:"targetId"`
	Strength float64 `json:"strength"`
}

// Record is a raw unit of aggregated data as returned by a provider.
// Records are immutable once returned.
type Record struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Source        SourceTag      `json:"sourceTag"`
	Type          string         `json:"recordType"`
	Weight        float64        `json:"weight"`
	URL           string         `json:"url,omitempty"`
	ModelRef      string         `json:"modelRef,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// RankedRecord pairs a Record with its query relevance in [0,1].
type RankedRecord struct {
	Record
	Relevance float64 `json:"relevance"`
}

// Vec3 is a point in 3D space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GraphNode is one node of the visualization graph. Position is nil
// until a layout has run.
type GraphNode struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Source   SourceTag `json:"sourceTag"`
	Type     string    `json:"type"`
	Weight   float64   `json:"weight"`
	Position *Vec3     `json:"position,omitempty"`
}

// GraphLink connects two nodes by id with a strength in [0,1].
type GraphLink struct {
	SourceID string  `json:"source"`
	TargetID string  `json:"target"`
	Strength float64 `json:"strength"`
}
