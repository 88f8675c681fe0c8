package config

import "time"

// Config holds runtime settings for the wincal CLI.
//
// Units: every interval field is a time.Duration.
type Config struct {
	// ServerBaseURL is the root of the water-results REST API.
	ServerBaseURL string
	// DatabasePath is the SQLite file holding the local store.
	DatabasePath string
	// BlobDirName is the subdirectory (under the user cache dir) where
	// staged images live until they are pushed.
	BlobDirName string
	// RequestTimeout bounds every single HTTP call.
	RequestTimeout time.Duration
	// SyncInterval is how often the background sync fires.
	SyncInterval time.Duration
	// BackoffMin is the first retry delay of a failed sync attempt.
	BackoffMin time.Duration
	// SyncMaxRuntime bounds one sync attempt, retries included.
	SyncMaxRuntime time.Duration
	// ProbeAddr is the host:port the connectivity monitor dials.
	ProbeAddr string
	// ProbeInterval is how often the connectivity monitor probes.
	ProbeInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "https://wincal-one.vercel.app"
	c.DatabasePath = "wincal.db"
	c.BlobDirName = "wincal-images"
	c.RequestTimeout = 30 * time.Second
	c.SyncInterval = 15 * time.Second
	c.BackoffMin = 10 * time.Second
	c.SyncMaxRuntime = 2 * time.Minute
	c.ProbeAddr = "1.1.1.1:53"
	c.ProbeInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
