package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/buildinfo"
	"github.com/JT5D/xrai/internal/catalog"
	"github.com/JT5D/xrai/internal/graph"
	"github.com/JT5D/xrai/internal/layout"
	"github.com/JT5D/xrai/internal/metrics"
	"github.com/JT5D/xrai/internal/pipeline"
)

const serverName = "xrai"

// MCPServer exposes the aggregation and layout engine over MCP.
type MCPServer struct {
	server *mcp.Server
	pipe   *pipeline.Pipeline
	cat    *catalog.Catalog
	tags   []asset.SourceTag
	log    *zap.Logger
}

// NewMCPServer creates the server and registers its tools. The catalog
// may be nil, in which case catalog tools report an error.
func NewMCPServer(pipe *pipeline.Pipeline, cat *catalog.Catalog, tags []asset.SourceTag, log *zap.Logger) *MCPServer {
	if log == nil {
		log = zap.NewNop()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: buildinfo.Version,
	}, nil)

	s := &MCPServer{server: server, pipe: pipe, cat: cat, tags: tags, log: log}

	metrics.InitFromEnv()
	s.setupToolHandlers()
	return s
}

// setupToolHandlers registers all MCP tools
func (s *MCPServer) setupToolHandlers() {
	searchAssetsInputSchema, err := jsonschema.For[asset.SearchAssetsArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SearchAssetsArgs: %v", err))
	}
	searchAssetsOutputSchema, err := jsonschema.For[asset.SearchAssetsResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SearchAssetsResult: %v", err))
	}
	layoutGraphInputSchema, err := jsonschema.For[asset.LayoutGraphArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for LayoutGraphArgs: %v", err))
	}
	layoutGraphOutputSchema, err := jsonschema.For[asset.LayoutSnapshot]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for LayoutSnapshot (layout_graph): %v", err))
	}
	importGraphInputSchema, err := jsonschema.For[asset.ImportGraphArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ImportGraphArgs: %v", err))
	}
	importGraphOutputSchema, err := jsonschema.For[asset.LayoutSnapshot]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for LayoutSnapshot (import_graph): %v", err))
	}
	addAssetsInputSchema, err := jsonschema.For[asset.AddAssetsArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for AddAssetsArgs: %v", err))
	}
	listCatalogInputSchema, err := jsonschema.For[asset.ListCatalogArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ListCatalogArgs: %v", err))
	}
	listCatalogOutputSchema, err := jsonschema.For[asset.CatalogResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for CatalogResult: %v", err))
	}
	listSourcesInputSchema, err := jsonschema.For[asset.ListSourcesArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ListSourcesArgs: %v", err))
	}
	listSourcesOutputSchema, err := jsonschema.For[asset.ListSourcesResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ListSourcesResult: %v", err))
	}
	healthInputSchema, err := jsonschema.For[asset.HealthArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthArgs: %v", err))
	}
	healthOutputSchema, err := jsonschema.For[asset.HealthResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthResult: %v", err))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "search_assets",
		Title:        "Search Assets",
		Description:  "Fan a query out to the enabled asset providers, rank the results and return the laid-out graph.",
		InputSchema:  searchAssetsInputSchema,
		OutputSchema: searchAssetsOutputSchema,
	}, s.handleSearchAssets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "layout_graph",
		Title:        "Layout Graph",
		Description:  "Place the given nodes on the sphere and return positions and link curves.",
		InputSchema:  layoutGraphInputSchema,
		OutputSchema: layoutGraphOutputSchema,
	}, s.handleLayoutGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "import_graph",
		Title:        "Import Graph",
		Description:  "Import a JSON graph document ({nodes, links} or a flat record array) and lay it out.",
		InputSchema:  importGraphInputSchema,
		OutputSchema: importGraphOutputSchema,
	}, s.handleImportGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_assets",
		Title:       "Add Assets",
		Description: "Store asset records in the local catalog.",
		InputSchema: addAssetsInputSchema,
	}, s.handleAddAssets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "list_catalog",
		Title:        "List Catalog",
		Description:  "List the most recently added local catalog entries.",
		InputSchema:  listCatalogInputSchema,
		OutputSchema: listCatalogOutputSchema,
	}, s.handleListCatalog)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "list_sources",
		Title:        "List Sources",
		Description:  "List the registered asset sources.",
		InputSchema:  listSourcesInputSchema,
		OutputSchema: listSourcesOutputSchema,
	}, s.handleListSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Returns server and configuration information.",
		InputSchema:  healthInputSchema,
		OutputSchema: healthOutputSchema,
	}, s.handleHealth)
}

// handleSearchAssets handles the search_assets tool call
func (s *MCPServer) handleSearchAssets(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[asset.SearchAssetsArgs],
) (*mcp.CallToolResultFor[asset.SearchAssetsResult], error) {
	done := metrics.TimeTool("search_assets")
	var success bool
	defer func() { done(success) }()

	res, won := s.pipe.Search(ctx, params.Arguments.Query, params.Arguments.Sources)
	success = true

	text := fmt.Sprintf("Found %d assets for %q", len(res.Records), params.Arguments.Query)
	if !won {
		text += " (superseded by a newer query)"
	}
	return &mcp.CallToolResultFor[asset.SearchAssetsResult]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: asset.SearchAssetsResult{
			Generation: res.Generation,
			Records:    res.Records,
			Snapshot:   res.State.Snapshot(),
		},
	}, nil
}

// handleLayoutGraph handles the layout_graph tool call
func (s *MCPServer) handleLayoutGraph(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[asset.LayoutGraphArgs],
) (*mcp.CallToolResultFor[asset.LayoutSnapshot], error) {
	done := metrics.TimeTool("layout_graph")
	defer func() { done(true) }()

	g := asset.NewGraph()
	for _, n := range params.Arguments.Nodes {
		g.PutNode(n)
	}
	for _, l := range params.Arguments.Links {
		g.AddLink(l)
	}
	st := layout.Layout(g)
	return &mcp.CallToolResultFor[asset.LayoutSnapshot]{
		Content:           []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Laid out %d nodes and %d links", g.Len(), len(g.Links))}},
		StructuredContent: st.Snapshot(),
	}, nil
}

// handleImportGraph handles the import_graph tool call
func (s *MCPServer) handleImportGraph(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[asset.ImportGraphArgs],
) (*mcp.CallToolResultFor[asset.LayoutSnapshot], error) {
	done := metrics.TimeTool("import_graph")
	var success bool
	defer func() { done(success) }()

	g, err := graph.ParseJSON([]byte(params.Arguments.Document))
	if err != nil {
		return nil, fmt.Errorf("failed to import graph: %w", err)
	}
	success = true
	st := layout.Layout(g)
	return &mcp.CallToolResultFor[asset.LayoutSnapshot]{
		Content:           []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Imported %d nodes and %d links", g.Len(), len(g.Links))}},
		StructuredContent: st.Snapshot(),
	}, nil
}

// handleAddAssets handles the add_assets tool call
func (s *MCPServer) handleAddAssets(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[asset.AddAssetsArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("add_assets")
	var success bool
	defer func() { done(success) }()

	if s.cat == nil {
		return nil, fmt.Errorf("local catalog is not configured")
	}
	if err := s.cat.AddAssets(ctx, params.Arguments.Assets); err != nil {
		return nil, fmt.Errorf("failed to add assets: %w", err)
	}
	success = true
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Stored %d assets in the local catalog", len(params.Arguments.Assets))}},
	}, nil
}

// handleListCatalog handles the list_catalog tool call
func (s *MCPServer) handleListCatalog(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[asset.ListCatalogArgs],
) (*mcp.CallToolResultFor[asset.CatalogResult], error) {
	done := metrics.TimeTool("list_catalog")
	var success bool
	defer func() { done(success) }()

	if s.cat == nil {
		return nil, fmt.Errorf("local catalog is not configured")
	}
	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = 50
	}
	assets, err := s.cat.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	success = true
	return &mcp.CallToolResultFor[asset.CatalogResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("%d catalog entries", len(assets))}},
		StructuredContent: asset.CatalogResult{Assets: assets},
	}, nil
}

// handleListSources handles the list_sources tool call
func (s *MCPServer) handleListSources(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[asset.ListSourcesArgs],
) (*mcp.CallToolResultFor[asset.ListSourcesResult], error) {
	done := metrics.TimeTool("list_sources")
	defer func() { done(true) }()

	sources := make([]asset.SourceInfo, len(s.tags))
	for i, t := range s.tags {
		sources[i] = asset.SourceInfo{Tag: t, Enabled: true}
	}
	return &mcp.CallToolResultFor[asset.ListSourcesResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("%d sources registered", len(sources))}},
		StructuredContent: asset.ListSourcesResult{Sources: sources},
	}, nil
}

// handleHealth returns basic server health information
func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[asset.HealthArgs],
) (*mcp.CallToolResultFor[asset.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	defer func() { done(true) }()

	tags := make([]string, len(s.tags))
	for i, t := range s.tags {
		tags[i] = string(t)
	}
	res := &asset.HealthResult{
		Name:      serverName,
		Version:   buildinfo.Version,
		Revision:  buildinfo.Revision,
		BuildDate: buildinfo.BuildDate,
		Sources:   tags,
	}
	return &mcp.CallToolResultFor[asset.HealthResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "ok"}},
		StructuredContent: *res,
	}, nil
}

// Run starts the MCP server with stdio transport
func (s *MCPServer) Run(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// RunSSE starts the MCP server over SSE at the given address and endpoint
func (s *MCPServer) RunSSE(ctx context.Context, addr string, endpoint string) error {
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("SSE MCP server listening", zap.String("addr", addr), zap.String("endpoint", endpoint))
	return srv.ListenAndServe()
}
