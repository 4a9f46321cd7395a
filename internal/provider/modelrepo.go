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

// modelRepoProvider searches a model-repository service exposing
// /models?q=... with downloadable asset references.
type modelRepoProvider struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *zap.Logger
}

func newModelRepo(cfg config.ProviderConfig, log *zap.Logger) Provider {
	if cfg.Endpoint == "" {
		return nil
	}
	return &modelRepoProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout()},
		log:      log.Named("modelrepo"),
	}
}

func (p *modelRepoProvider) Tag() asset.SourceTag { return asset.SourceModelRepo }

func (p *modelRepoProvider) Search(ctx context.Context, query string) ([]asset.Record, error) {
	u := fmt.Sprintf("%s/models?q=%s", p.endpoint, url.QueryEscape(query))
	var headers map[string]string
	if p.apiKey != "" {
		headers = map[string]string{"Api-Key": p.apiKey}
	}
	var body struct {
		Items []struct {
			ID          string  `json:"id"`
			Title       string  `json:"title"`
			Summary     string  `json:"summary"`
			PageURL     string  `json:"pageUrl"`
			DownloadURL string  `json:"downloadUrl"`
			Rating      float64 `json:"rating"`
		} `json:"items"`
	}
	if err := getJSON(ctx, p.http, u, headers, &body); err != nil {
		return nil, fmt.Errorf("model repository search failed: %w", err)
	}
	records := make([]asset.Record, 0, len(body.Items))
	for _, m := range body.Items {
		w := m.Rating
		if w <= 0 {
			w = 1
		}
		records = append(records, asset.Record{
			ID:          "modelrepo-" + m.ID,
			Name:        m.Title,
			Description: m.Summary,
			Source:      asset.SourceModelRepo,
			Type:        "model",
			Weight:      w,
			URL:         m.PageURL,
			ModelRef:    m.DownloadURL,
		})
	}
	return records, nil
}
