package config

const (
	defaultLibraryDir            = "~/music"
	defaultCacheDir              = "~/.cache/tagscout"
	defaultLogDir                = "~/.local/share/tagscout/logs"
	defaultCatalogBaseURL        = "https://musicbrainz.org/ws/2"
	defaultCatalogUserAgent      = "tagscout/dev (https://github.com/tagscout)"
	defaultMarketplaceBaseURL    = "https://api.discogs.com"
	defaultFingerprintBaseURL    = "https://api.acoustid.org/v2"
	defaultFpcalcPath            = "fpcalc"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultAutoApplyThreshold    = 0.70
	defaultLoaderMaxWorkers      = 8
	defaultQueryCacheTTLHours    = 24
	defaultCatalogIntervalMS     = 1100
	defaultMarketplaceIntervalMS = 1000
	defaultFingerprintIntervalMS = 500
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			CacheDir:   defaultCacheDir,
			LogDir:     defaultLogDir,
		},
		Catalog: Catalog{
			BaseURL:       defaultCatalogBaseURL,
			UserAgent:     defaultCatalogUserAgent,
			MinIntervalMS: defaultCatalogIntervalMS,
		},
		Marketplace: Marketplace{
			BaseURL:       defaultMarketplaceBaseURL,
			MinIntervalMS: defaultMarketplaceIntervalMS,
		},
		Fingerprint: Fingerprint{
			BaseURL:       defaultFingerprintBaseURL,
			FpcalcPath:    defaultFpcalcPath,
			MinIntervalMS: defaultFingerprintIntervalMS,
		},
		Matching: Matching{
			AutoApplyThreshold: defaultAutoApplyThreshold,
		},
		Loader: Loader{
			MaxWorkers: defaultLoaderMaxWorkers,
		},
		QueryCache: QueryCache{
			Enabled:  true,
			TTLHours: defaultQueryCacheTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
