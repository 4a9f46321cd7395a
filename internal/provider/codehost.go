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

// codeHostProvider searches a code-hosting service (GitHub-style
// /search/repositories?q=...).
type codeHostProvider struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *zap.Logger
}

func newCodeHost(cfg config.ProviderConfig, log *zap.Logger) Provider {
	if cfg.Endpoint == "" {
		return nil
	}
	return &codeHostProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout()},
		log:      log.Named("codehost"),
	}
}

func (p *codeHostProvider) Tag() asset.SourceTag { return asset.SourceCodeHost }

func (p *codeHostProvider) Search(ctx context.Context, query string) ([]asset.Record, error) {
	u := fmt.Sprintf("%s/search/repositories?q=%s", p.endpoint, url.QueryEscape(query))
	var headers map[string]string
	if p.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + p.apiKey}
	}
	var body struct {
		Items []struct {
			FullName    string `json:"full_name"`
			Description string `json:"description"`
			HTMLURL     string `json:"html_url"`
			Stars       int    `json:"stargazers_count"`
			Language    string `json:"language"`
		} `json:"items"`
	}
	if err := getJSON(ctx, p.http, u, headers, &body); err != nil {
		return nil, fmt.Errorf("code host search failed: %w", err)
	}
	records := make([]asset.Record, 0, len(body.Items))
	for _, repo := range body.Items {
		records = append(records, asset.Record{
			ID:          "repo-" + repo.FullName,
			Name:        repo.FullName,
			Description: repo.Description,
			Source:      asset.SourceCodeHost,
			Type:        "repository",
			Weight:      popularityWeight(repo.Stars),
			URL:         repo.HTMLURL,
		})
	}
	return records, nil
}
