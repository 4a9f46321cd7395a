package asset

// CurvedLink is a link augmented with its sampled curve geometry.
type CurvedLink struct {
	GraphLink
	Points []Vec3 `json:"points"`
}

// LayoutSnapshot is the renderable view of a laid-out graph: node
// positions with the animation offset applied, sampled link curves and
// the animation clock they were taken at.
type LayoutSnapshot struct {
	Nodes []GraphNode  `json:"nodes"`
	Links []CurvedLink `json:"links"`
	Time  float64      `json:"time"`
}

// SearchAssetsArgs represents the arguments for the search_assets tool
type SearchAssetsArgs struct {
	Query   string   `json:"query" jsonschema:"The text query to fan out to the enabled asset providers."`
	Sources []string `json:"sources,omitempty" jsonschema:"Source tags to query (content-gallery, model-repository, code-host, web-search, local-index). Use [\"all\"] or omit for every registered provider."`
}

// SearchAssetsResult is the structured result of search_assets.
type SearchAssetsResult struct {
	Generation uint64         `json:"generation"`
	Records    []RankedRecord `json:"records"`
	Snapshot   LayoutSnapshot `json:"snapshot"`
}

// LayoutGraphArgs represents the arguments for the layout_graph tool
type LayoutGraphArgs struct {
	Nodes []GraphNode `json:"nodes" jsonschema:"Graph nodes to place on the sphere."`
	Links []GraphLink `json:"links,omitempty" jsonschema:"Links between the given nodes."`
}

// ImportGraphArgs represents the arguments for the import_graph tool.
// Document accepts either a {nodes, links} object or a flat array of
// records, matching the file-drop formats.
type ImportGraphArgs struct {
	Document string `json:"document" jsonschema:"JSON text: either a {nodes, links} graph or a flat array of asset records."`
}

// AddAssetsArgs represents the arguments for the add_assets tool
type AddAssetsArgs struct {
	Assets []Record `json:"assets" jsonschema:"Asset records to store in the local catalog."`
}

// ListCatalogArgs represents the arguments for the list_catalog tool
type ListCatalogArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of catalog entries to return (default 50)."`
}

// CatalogResult is the structured result of catalog tools.
type CatalogResult struct {
	Assets []Record `json:"assets"`
}

// ListSourcesArgs represents the arguments for the list_sources tool
type ListSourcesArgs struct{}

// SourceInfo describes one registered provider.
type SourceInfo struct {
	Tag     SourceTag `json:"tag"`
	Enabled bool      `json:"enabled"`
}

// ListSourcesResult is the structured result of list_sources.
type ListSourcesResult struct {
	Sources []SourceInfo `json:"sources"`
}

// Health
type HealthArgs struct{}

type HealthResult struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Revision  string   `json:"revision"`
	BuildDate string   `json:"buildDate"`
	Sources   []string `json:"sources"`
}
