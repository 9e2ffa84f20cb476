// Package config loads and validates tagscout configuration from TOML.
//
// Configuration is read from ~/.config/tagscout/config.toml by default, or
// from an explicit path. Missing files fall back to repository defaults so
// the tool works out of the box; API keys may also arrive via environment
// variables (ACOUSTID_API_KEY, DISCOGS_TOKEN).
package config
