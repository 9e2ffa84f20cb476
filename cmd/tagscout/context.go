package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tagscout/internal/batch"
	"tagscout/internal/config"
	"tagscout/internal/fingerprint"
	"tagscout/internal/logging"
	"tagscout/internal/querycache"
	"tagscout/internal/ratelimit"
	"tagscout/internal/session"
	"tagscout/internal/sources"
	"tagscout/internal/sources/acoustid"
	"tagscout/internal/sources/discogs"
	"tagscout/internal/sources/musicbrainz"
	"tagscout/internal/track"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runtime bundles everything a reconciliation command needs. Close releases
// the session lock and the query cache handle.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	sess   *session.Session
	store  *querycache.Store
	orch   *batch.Orchestrator
}

func (c *commandContext) buildRuntime() (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	sess, err := session.New(logger, cfg.Paths.CacheDir)
	if err != nil {
		return nil, err
	}

	var store *querycache.Store
	if cfg.QueryCache.Enabled {
		store, err = querycache.Open(cfg.Paths.CacheDir, time.Duration(cfg.QueryCache.TTLHours)*time.Hour)
		if err != nil {
			_ = sess.Close()
			return nil, fmt.Errorf("open query cache: %w", err)
		}
	}

	orch, err := batch.New(batch.Options{
		Logger:             logger,
		Cache:              sess.Cache(),
		Bus:                sess.Bus(),
		QueryCache:         store,
		AutoApplyThreshold: cfg.Matching.AutoApplyThreshold,
	})
	if err != nil {
		_ = store.Close()
		_ = sess.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, sess: sess, store: store, orch: orch}, nil
}

func (r *runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
	_ = r.sess.Close()
}

// fetcherFor builds the client and pacer for one text-search source.
func (r *runtime) fetcherFor(source track.Source) (sources.Fetcher, *ratelimit.Pacer, error) {
	switch source {
	case track.SourceCatalog:
		client, err := musicbrainz.New(r.cfg.Catalog.BaseURL, r.cfg.Catalog.UserAgent)
		if err != nil {
			return nil, nil, err
		}
		return client, pacerFromMillis(r.cfg.Catalog.MinIntervalMS), nil
	case track.SourceMarketplace:
		client, err := discogs.New(r.cfg.Marketplace.BaseURL, r.cfg.Marketplace.Token)
		if err != nil {
			return nil, nil, err
		}
		return client, pacerFromMillis(r.cfg.Marketplace.MinIntervalMS), nil
	}
	return nil, nil, fmt.Errorf("no text-search client for source %q", source)
}

// identifierFor builds the fingerprint lookup stack.
func (r *runtime) identifierFor() (fingerprint.Extractor, sources.Identifier, *ratelimit.Pacer, error) {
	if strings.TrimSpace(r.cfg.Fingerprint.APIKey) == "" {
		return nil, nil, nil, fmt.Errorf("fingerprint.api_key is not set (export ACOUSTID_API_KEY or edit the config)")
	}
	client, err := acoustid.New(r.cfg.Fingerprint.BaseURL, r.cfg.Fingerprint.APIKey)
	if err != nil {
		return nil, nil, nil, err
	}
	extractor := fingerprint.NewFpcalc(r.cfg.Fingerprint.FpcalcPath)
	return extractor, client, pacerFromMillis(r.cfg.Fingerprint.MinIntervalMS), nil
}

func pacerFromMillis(ms int) *ratelimit.Pacer {
	return ratelimit.New(time.Duration(ms) * time.Millisecond)
}
