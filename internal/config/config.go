package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	CacheDir   string `toml:"cache_dir"`
	LogDir     string `toml:"log_dir"`
}

// Catalog configures the text-search metadata catalog (MusicBrainz).
type Catalog struct {
	BaseURL       string `toml:"base_url"`
	UserAgent     string `toml:"user_agent"`
	MinIntervalMS int    `toml:"min_interval_ms"`
}

// Marketplace configures the marketplace/discography catalog (Discogs).
type Marketplace struct {
	BaseURL       string `toml:"base_url"`
	Token         string `toml:"token"`
	MinIntervalMS int    `toml:"min_interval_ms"`
}

// Fingerprint configures acoustic fingerprint identification (AcoustID).
type Fingerprint struct {
	APIKey        string `toml:"api_key"`
	BaseURL       string `toml:"base_url"`
	FpcalcPath    string `toml:"fpcalc_path"`
	MinIntervalMS int    `toml:"min_interval_ms"`
}

// Matching configures scoring and auto-apply behavior.
type Matching struct {
	// AutoApplyThreshold is the minimum best-match score at which a
	// comparison is built without user selection. Default: 0.70
	AutoApplyThreshold float64 `toml:"auto_apply_threshold"`
}

// Loader configures the parallel tag load runner.
type Loader struct {
	MaxWorkers int `toml:"max_workers"`
}

// QueryCache configures the persistent source-response cache.
type QueryCache struct {
	Enabled  bool `toml:"enabled"`
	TTLHours int  `toml:"ttl_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tagscout.
//
// Configuration sections by subsystem:
//   - Paths: library, cache, and log directories
//   - Catalog: MusicBrainz text search
//   - Marketplace: Discogs database search
//   - Fingerprint: fpcalc invocation and AcoustID lookup
//   - Matching: scoring thresholds
//   - Loader: parallel tag loading
//   - QueryCache: on-disk source response cache
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Catalog     Catalog     `toml:"catalog"`
	Marketplace Marketplace `toml:"marketplace"`
	Fingerprint Fingerprint `toml:"fingerprint"`
	Matching    Matching    `toml:"matching"`
	Loader      Loader      `toml:"loader"`
	QueryCache  QueryCache  `toml:"query_cache"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tagscout/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded. A missing file is not an error; the
// defaults apply and exists reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	if c.Fingerprint.APIKey == "" {
		if value, ok := os.LookupEnv("ACOUSTID_API_KEY"); ok {
			c.Fingerprint.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Marketplace.Token == "" {
		if value, ok := os.LookupEnv("DISCOGS_TOKEN"); ok {
			c.Marketplace.Token = strings.TrimSpace(value)
		}
	}

	c.Catalog.BaseURL = strings.TrimSpace(c.Catalog.BaseURL)
	c.Marketplace.BaseURL = strings.TrimSpace(c.Marketplace.BaseURL)
	c.Fingerprint.BaseURL = strings.TrimSpace(c.Fingerprint.BaseURL)
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	if c.Marketplace.BaseURL == "" {
		c.Marketplace.BaseURL = defaultMarketplaceBaseURL
	}
	if c.Fingerprint.BaseURL == "" {
		c.Fingerprint.BaseURL = defaultFingerprintBaseURL
	}
	if c.Fingerprint.FpcalcPath == "" {
		c.Fingerprint.FpcalcPath = defaultFpcalcPath
	}

	c.Logging.Format = strings.TrimSpace(c.Logging.Format)
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.TrimSpace(c.Logging.Level)
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates the cache and log directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
