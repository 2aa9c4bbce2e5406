package domain

import "time"

// Config holds runtime configuration loaded from the config file,
// environment variables, and flags.
type Config struct {
	BaseURL        string
	ListingPath    string
	CacheFile      string
	DBDir          string
	TopN           int
	UserAgent      string
	RequestTimeout time.Duration
	ScrapeDelay    time.Duration
	SkipFailures   bool
	ListenAddr     string
}
