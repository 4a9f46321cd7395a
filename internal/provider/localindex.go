package provider

import (
	"context"

	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/catalog"
)

const localSearchLimit = 50

// localIndexProvider serves records from the libSQL-backed catalog.
type localIndexProvider struct {
	cat *catalog.Catalog
}

// NewLocalIndex wraps a catalog as a Provider.
func NewLocalIndex(cat *catalog.Catalog) Provider {
	return &localIndexProvider{cat: cat}
}

func (p *localIndexProvider) Tag() asset.SourceTag { return asset.SourceLocalIndex }

func (p *localIndexProvider) Search(ctx context.Context, query string) ([]asset.Record, error) {
	return p.cat.Search(ctx, query, localSearchLimit)
}
