// Package xrai provides a library-first API for the aggregation and
// layout engine without MCP transport.
package xrai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/aggregator"
	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/catalog"
	"github.com/JT5D/xrai/internal/graph"
	"github.com/JT5D/xrai/internal/layout"
	"github.com/JT5D/xrai/internal/pipeline"
	"github.com/JT5D/xrai/internal/provider"
)

// Result aliases the settled query result type.
type Result = pipeline.Result

// Service wires providers, aggregator, pipeline and catalog together.
type Service struct {
	pipe *pipeline.Pipeline
	agg  *aggregator.Aggregator
	cat  *catalog.Catalog
	log  *zap.Logger
}

// NewService constructs a Service with the provided config. A nil
// logger disables logging.
func NewService(cfg *Config, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	internal, err := cfg.toInternal()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(catalog.Config{URL: internal.Catalog.URL, AuthToken: internal.Catalog.AuthToken}, log)
	if err != nil {
		return nil, err
	}
	providers := provider.NewRegistry(internal, cat, log)
	agg := aggregator.New(providers, log)
	pipe := pipeline.New(agg, internal.EnabledSources(), time.Duration(internal.CacheTTLSec)*time.Second, log)
	return &Service{pipe: pipe, agg: agg, cat: cat, log: log}, nil
}

// Close releases resources.
func (s *Service) Close() error { return s.cat.Close() }

// Search runs the full query pipeline. The bool reports whether the
// result is still the newest one (see Pipeline.Search).
func (s *Service) Search(ctx context.Context, query string, sources []string) (*Result, bool) {
	return s.pipe.Search(ctx, query, sources)
}

// Submit runs Search asynchronously; the channel closes without a
// value when the query was superseded.
func (s *Service) Submit(ctx context.Context, query string, sources []string) <-chan *Result {
	return s.pipe.Submit(ctx, query, sources)
}

// Latest returns the newest installed result, or nil.
func (s *Service) Latest() *Result { return s.pipe.Latest() }

// Tick advances the animation clock and returns a render snapshot.
func (s *Service) Tick(deltaTime float64) asset.LayoutSnapshot { return s.pipe.Tick(deltaTime) }

// ImportGraph lays out a JSON graph document ({nodes, links} or a flat
// record array).
func (s *Service) ImportGraph(data []byte) (asset.LayoutSnapshot, error) {
	g, err := graph.ParseJSON(data)
	if err != nil {
		return asset.LayoutSnapshot{}, err
	}
	return layout.Layout(g).Snapshot(), nil
}

// Sources returns the registered source tags in registration order.
func (s *Service) Sources() []asset.SourceTag { return s.agg.Sources() }

// Catalog helpers
func (s *Service) AddAssets(ctx context.Context, records []asset.Record) error {
	return s.cat.AddAssets(ctx, records)
}

func (s *Service) ListCatalog(ctx context.Context, limit int) ([]asset.Record, error) {
	return s.cat.List(ctx, limit)
}

func (s *Service) DeleteAssets(ctx context.Context, ids []string) error {
	return s.cat.DeleteAssets(ctx, ids)
}

// SetSources replaces the default enabled-source set at runtime.
func (s *Service) SetSources(enabled map[asset.SourceTag]bool) { s.pipe.SetSources(enabled) }
