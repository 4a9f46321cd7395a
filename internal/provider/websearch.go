package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/config"
)

// webSearchProvider queries a web-search API returning page results.
type webSearchProvider struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *zap.Logger
}

func newWebSearch(cfg config.ProviderConfig, log *zap.Logger) Provider {
	if cfg.Endpoint == "" {
		return nil
	}
	return &webSearchProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout()},
		log:      log.Named("websearch"),
	}
}

func (p *webSearchProvider) Tag() asset.SourceTag { return asset.SourceWebSearch }

func (p *webSearchProvider) Search(ctx context.Context, query string) ([]asset.Record, error) {
	u := fmt.Sprintf("%s/search?q=%s", p.endpoint, url.QueryEscape(query))
	if p.apiKey != "" {
		u += "&key=" + url.QueryEscape(p.apiKey)
	}
	var body struct {
		Items []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"items"`
	}
	if err := getJSON(ctx, p.http, u, nil, &body); err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}
	records := make([]asset.Record, 0, len(body.Items))
	for i, item := range body.Items {
		records = append(records, asset.Record{
			ID:          fmt.Sprintf("web-%d-%s", i, item.Link),
			Name:        item.Title,
			Description: item.Snippet,
			Source:      asset.SourceWebSearch,
			Type:        "page",
			Weight:      1,
			URL:         item.Link,
		})
	}
	return records, nil
}
