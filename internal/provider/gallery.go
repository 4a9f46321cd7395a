package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/config"
)

// galleryProvider searches a content-gallery service (Sketchfab-style
// API: /search?type=models&q=...).
type galleryProvider struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *zap.Logger
}

func newGallery(cfg config.ProviderConfig, log *zap.Logger) Provider {
	if cfg.Endpoint == "" {
		return nil
	}
	return &galleryProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout()},
		log:      log.Named("gallery"),
	}
}

func (p *galleryProvider) Tag() asset.SourceTag { return asset.SourceGallery }

func (p *galleryProvider) Search(ctx context.Context, query string) ([]asset.Record, error) {
	u := fmt.Sprintf("%s/search?type=models&q=%s", p.endpoint, url.QueryEscape(query))
	var headers map[string]string
	if p.apiKey != "" {
		headers = map[string]string{"Authorization": "Token " + p.apiKey}
	}
	var body struct {
		Results []struct {
			UID         string `json:"uid"`
			Name        string `json:"name"`
			Description string `json:"description"`
			ViewerURL   string `json:"viewerUrl"`
			LikeCount   int    `json:"likeCount"`
		} `json:"results"`
	}
	if err := getJSON(ctx, p.http, u, headers, &body); err != nil {
		return nil, fmt.Errorf("gallery search failed: %w", err)
	}
	records := make([]asset.Record, 0, len(body.Results))
	for _, m := range body.Results {
		records = append(records, asset.Record{
			ID:          "gallery-" + m.UID,
			Name:        m.Name,
			Description: m.Description,
			Source:      asset.SourceGallery,
			Type:        "model",
			Weight:      popularityWeight(m.LikeCount),
			URL:         m.ViewerURL,
			ModelRef:    m.UID,
		})
	}
	return records, nil
}

// popularityWeight compresses a popularity count into a modest node
// size multiplier.
func popularityWeight(count int) float64 {
	if count <= 0 {
		return 1
	}
	return 1 + math.Log10(float64(count)+1)
}
