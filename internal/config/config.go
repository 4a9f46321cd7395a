// Package config loads engine configuration from environment variables
// with optional YAML file overrides, validates it, and can watch the
// file for changes to the enabled source set.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/JT5D/xrai/internal/asset"
)

const defaultTimeoutSec = 10

// ProviderConfig configures one remote provider.
type ProviderConfig struct {
	Endpoint   string `yaml:"endpoint" validate:"omitempty,url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec" validate:"gte=0,lte=300"`
}

// Timeout returns the per-request timeout, defaulted when unset.
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSec <= 0 {
		return defaultTimeoutSec * time.Second
	}
	return time.Duration(p.TimeoutSec) * time.Second
}

// CatalogConfig configures the local asset catalog.
type CatalogConfig struct {
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
}

// Config is the full engine configuration.
type Config struct {
	// Sources selects the enabled source tags; "all" (or an empty
	// list) enables every registered provider.
	Sources []string `yaml:"sources" validate:"dive,oneof=all content-gallery model-repository code-host web-search local-index"`

	Gallery   ProviderConfig `yaml:"gallery"`
	ModelRepo ProviderConfig `yaml:"model_repo"`
	CodeHost  ProviderConfig `yaml:"code_host"`
	WebSearch ProviderConfig `yaml:"web_search"`
	Catalog   CatalogConfig  `yaml:"catalog"`

	// CacheTTLSec bounds how long completed query results are reused.
	CacheTTLSec int `yaml:"cache_ttl_sec" validate:"gte=0"`
}

// New creates a Config from environment variables.
func New() *Config {
	return &Config{
		Sources: []string{string(asset.SourceAll)},
		Gallery: ProviderConfig{
			Endpoint:   os.Getenv("XRAI_GALLERY_URL"),
			APIKey:     os.Getenv("XRAI_GALLERY_KEY"),
			TimeoutSec: envInt("XRAI_GALLERY_TIMEOUT"),
		},
		ModelRepo: ProviderConfig{
			Endpoint:   os.Getenv("XRAI_MODELREPO_URL"),
			APIKey:     os.Getenv("XRAI_MODELREPO_KEY"),
			TimeoutSec: envInt("XRAI_MODELREPO_TIMEOUT"),
		},
		CodeHost: ProviderConfig{
			Endpoint:   os.Getenv("XRAI_CODEHOST_URL"),
			APIKey:     os.Getenv("XRAI_CODEHOST_KEY"),
			TimeoutSec: envInt("XRAI_CODEHOST_TIMEOUT"),
		},
		WebSearch: ProviderConfig{
			Endpoint:   os.Getenv("XRAI_WEBSEARCH_URL"),
			APIKey:     os.Getenv("XRAI_WEBSEARCH_KEY"),
			TimeoutSec: envInt("XRAI_WEBSEARCH_TIMEOUT"),
		},
		Catalog: CatalogConfig{
			URL:       os.Getenv("XRAI_CATALOG_URL"),
			AuthToken: os.Getenv("XRAI_CATALOG_AUTH_TOKEN"),
		},
		CacheTTLSec: envInt("XRAI_CACHE_TTL"),
	}
}

// Load builds a Config from the environment, overlays the YAML file at
// path when given, and validates the result.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EnabledSources resolves the Sources list into a tag set. Empty or
// "all" selects every source.
func (c *Config) EnabledSources() map[asset.SourceTag]bool {
	set := make(map[asset.SourceTag]bool)
	if len(c.Sources) == 0 {
		set[asset.SourceAll] = true
		return set
	}
	for _, s := range c.Sources {
		set[asset.SourceTag(s)] = true
	}
	return set
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
