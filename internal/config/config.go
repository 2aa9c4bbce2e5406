package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/cinescrape/cinedb/internal/domain"
)

const maxTopN = 250

// Load builds the runtime configuration from viper, which aggregates the
// config file, CINEDB_* environment variables, and bound flags.
func Load() (*domain.Config, error) {
	cfg := &domain.Config{
		BaseURL:        viper.GetString("base_url"),
		ListingPath:    viper.GetString("listing_path"),
		CacheFile:      viper.GetString("cache_file"),
		DBDir:          viper.GetString("db_dir"),
		TopN:           viper.GetInt("top_n"),
		UserAgent:      viper.GetString("user_agent"),
		RequestTimeout: viper.GetDuration("request_timeout"),
		ScrapeDelay:    viper.GetDuration("scrape_delay"),
		SkipFailures:   viper.GetBool("scrape_skip_failures"),
		ListenAddr:     viper.GetString("listen_addr"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.imdb.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ListingPath == "" {
		cfg.ListingPath = "/chart/top"
	}
	if cfg.CacheFile == "" {
		cfg.CacheFile = "imdb_cache.json"
	}
	if cfg.DBDir == "" {
		cfg.DBDir = "."
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	// top_n = 0 means "ask interactively"; anything else must be in range.
	if cfg.TopN < 0 || cfg.TopN > maxTopN {
		return nil, errors.Errorf("top_n must be between 1 and %d, got %d", maxTopN, cfg.TopN)
	}

	return cfg, nil
}
