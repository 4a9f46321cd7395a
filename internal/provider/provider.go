// Package provider defines the asset source capability and its five
// variants. Implementations must be concurrency-safe; a failed search
// returns an error and is isolated by the aggregator, never fatal.
package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/catalog"
	"github.com/JT5D/xrai/internal/config"
)

// Provider answers a text query with a sequence of asset records.
type Provider interface {
	// Tag returns the source tag this provider serves.
	Tag() asset.SourceTag
	// Search returns records matching the query. Implementations own
	// their wire formats; they must honor ctx cancellation.
	Search(ctx context.Context, query string) ([]asset.Record, error)
}

// NewRegistry builds the provider table in registration order from the
// given config. Providers without an endpoint configured are left out;
// the local index is always registered when a catalog is supplied.
func NewRegistry(cfg *config.Config, cat *catalog.Catalog, log *zap.Logger) []Provider {
	if log == nil {
		log = zap.NewNop()
	}
	var providers []Provider
	if p := newGallery(cfg.Gallery, log); p != nil {
		providers = append(providers, p)
	}
	if p := newModelRepo(cfg.ModelRepo, log); p != nil {
		providers = append(providers, p)
	}
	if p := newCodeHost(cfg.CodeHost, log); p != nil {
		providers = append(providers, p)
	}
	if p := newWebSearch(cfg.WebSearch, log); p != nil {
		providers = append(providers, p)
	}
	if cat != nil {
		providers = append(providers, NewLocalIndex(cat))
	}
	return providers
}
