package xrai

import (
	"github.com/JT5D/xrai/internal/config"
)

// Config exposes a stable wrapper for engine configuration in package
// mode. ConfigFile, when set, is loaded first; the explicit fields
// below override it.
type Config struct {
	ConfigFile string

	Sources          []string
	CatalogURL       string
	CatalogAuthToken string
	CacheTTLSec      int
}

func (c *Config) toInternal() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if len(c.Sources) > 0 {
		cfg.Sources = c.Sources
	}
	if c.CatalogURL != "" {
		cfg.Catalog.URL = c.CatalogURL
	}
	if c.CatalogAuthToken != "" {
		cfg.Catalog.AuthToken = c.CatalogAuthToken
	}
	if c.CacheTTLSec > 0 {
		cfg.CacheTTLSec = c.CacheTTLSec
	}
	return cfg, nil
}
