package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLoader(); err != nil {
		return err
	}
	return c.validateQueryCache()
}

func (c *Config) validateSources() error {
	if c.Catalog.UserAgent == "" {
		return errors.New("catalog.user_agent must be set (MusicBrainz requires a descriptive User-Agent)")
	}
	if c.Catalog.MinIntervalMS < 0 {
		return errors.New("catalog.min_interval_ms must not be negative")
	}
	if c.Marketplace.MinIntervalMS < 0 {
		return errors.New("marketplace.min_interval_ms must not be negative")
	}
	if c.Fingerprint.MinIntervalMS < 0 {
		return errors.New("fingerprint.min_interval_ms must not be negative")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.AutoApplyThreshold < 0 || c.Matching.AutoApplyThreshold > 1 {
		return fmt.Errorf("matching.auto_apply_threshold must be between 0 and 1, got %v", c.Matching.AutoApplyThreshold)
	}
	return nil
}

func (c *Config) validateLoader() error {
	if c.Loader.MaxWorkers < 1 {
		return errors.New("loader.max_workers must be at least 1")
	}
	return nil
}

func (c *Config) validateQueryCache() error {
	if c.QueryCache.Enabled && c.QueryCache.TTLHours < 1 {
		return errors.New("query_cache.ttl_hours must be at least 1 when the cache is enabled")
	}
	return nil
}
