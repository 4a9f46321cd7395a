package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JT5D/xrai/internal/asset"
)

func TestNewFromEnv(t *testing.T) {
	t.Setenv("XRAI_GALLERY_URL", "https://gallery.example.com")
	t.Setenv("XRAI_GALLERY_KEY", "secret")
	t.Setenv("XRAI_GALLERY_TIMEOUT", "30")
	t.Setenv("XRAI_CATALOG_URL", "file:./test.db")
	t.Setenv("XRAI_CACHE_TTL", "120")

	cfg := New()
	assert.Equal(t, "https://gallery.example.com", cfg.Gallery.Endpoint)
	assert.Equal(t, "secret", cfg.Gallery.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Gallery.Timeout())
	assert.Equal(t, "file:./test.db", cfg.Catalog.URL)
	assert.Equal(t, 120, cfg.CacheTTLSec)
	assert.Equal(t, []string{"all"}, cfg.Sources)
}

func TestTimeoutDefault(t *testing.T) {
	var p ProviderConfig
	assert.Equal(t, 10*time.Second, p.Timeout())
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - content-gallery
  - local-index
gallery:
  endpoint: https://override.example.com
  timeout_sec: 5
cache_ttl_sec: 60
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"content-gallery", "local-index"}, cfg.Sources)
	assert.Equal(t, "https://override.example.com", cfg.Gallery.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Gallery.Timeout())
	assert.Equal(t, 60, cfg.CacheTTLSec)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownSource(t *testing.T) {
	cfg := New()
	cfg.Sources = []string{"content-gallery", "bogus"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadEndpoint(t *testing.T) {
	cfg := New()
	cfg.Gallery.Endpoint = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestEnabledSources(t *testing.T) {
	cfg := &Config{}
	set := cfg.EnabledSources()
	assert.True(t, set[asset.SourceAll])

	cfg.Sources = []string{"content-gallery", "code-host"}
	set = cfg.EnabledSources()
	assert.True(t, set[asset.SourceGallery])
	assert.True(t, set[asset.SourceCodeHost])
	assert.False(t, set[asset.SourceWebSearch])
	assert.Len(t, set, 2)
}
