package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate default config: %v", err)
	}
	if cfg.Matching.AutoApplyThreshold != 0.70 {
		t.Errorf("default auto_apply_threshold = %v, want 0.70", cfg.Matching.AutoApplyThreshold)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("Load reported a missing file as existing")
	}
	if cfg.Catalog.BaseURL != defaultCatalogBaseURL {
		t.Errorf("catalog.base_url = %q, want default", cfg.Catalog.BaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[matching]
auto_apply_threshold = 0.9

[loader]
max_workers = 2

[catalog]
min_interval_ms = 2000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("Load did not find the written config")
	}
	if resolved == "" {
		t.Error("Load returned empty resolved path")
	}
	if cfg.Matching.AutoApplyThreshold != 0.9 {
		t.Errorf("auto_apply_threshold = %v, want 0.9", cfg.Matching.AutoApplyThreshold)
	}
	if cfg.Loader.MaxWorkers != 2 {
		t.Errorf("loader.max_workers = %d, want 2", cfg.Loader.MaxWorkers)
	}
	if cfg.Catalog.MinIntervalMS != 2000 {
		t.Errorf("catalog.min_interval_ms = %d, want 2000", cfg.Catalog.MinIntervalMS)
	}
	// Untouched sections keep defaults.
	if cfg.Marketplace.BaseURL != defaultMarketplaceBaseURL {
		t.Errorf("marketplace.base_url = %q, want default", cfg.Marketplace.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above one", func(c *Config) { c.Matching.AutoApplyThreshold = 1.5 }},
		{"zero workers", func(c *Config) { c.Loader.MaxWorkers = 0 }},
		{"empty user agent", func(c *Config) { c.Catalog.UserAgent = "" }},
		{"negative interval", func(c *Config) { c.Fingerprint.MinIntervalMS = -1 }},
		{"cache ttl zero", func(c *Config) { c.QueryCache.Enabled = true; c.QueryCache.TTLHours = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}
