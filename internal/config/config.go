package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/guardian/internal/syncq"
)

// Config holds runtime settings for the Guardian CLI.
type Config struct {
	// DBPath is the SQLite database file. ":memory:" keeps everything in RAM.
	DBPath string
	// SyncEndpointAddr is host:port of the remote sync gRPC endpoint.
	SyncEndpointAddr string
	// OpTimeout bounds every single store operation.
	OpTimeout time.Duration
	// SyncTimeout bounds a single outbound sync call.
	SyncTimeout time.Duration
	// SyncInterval is how often `watch` replays the offline queue.
	SyncInterval time.Duration

	QueuePolicy     syncq.Policy
	QueueMaxRetries uint64
	QueueBackoff    time.Duration

	ResponderCacheTTL time.Duration

	Log LogConfig
	S3  S3Config
}

type LogConfig struct {
	Backend string
	Level   string
	Format  string
	File    string
}

// S3Config points evidence backups at an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "guardian.db"
	c.SyncEndpointAddr = "127.0.0.1:50051"
	c.OpTimeout = 5 * time.Second
	c.SyncTimeout = 3 * time.Second
	c.SyncInterval = 30 * time.Second
	c.QueuePolicy = syncq.PolicyClearAll
	c.QueueMaxRetries = 3
	c.QueueBackoff = 200 * time.Millisecond
	c.ResponderCacheTTL = time.Minute
	c.Log = LogConfig{Backend: "slog", Level: "info"}
	c.S3 = S3Config{
		Endpoint: "http://127.0.0.1:9000/",
		Region:   "us-east-1",
		Bucket:   "evidence",
	}
}

// Validate checks values that would otherwise fail late and obscurely.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if c.OpTimeout <= 0 {
		return fmt.Errorf("op timeout must be positive, got %v", c.OpTimeout)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %v", c.SyncInterval)
	}
	switch c.QueuePolicy {
	case syncq.PolicyClearAll, syncq.PolicyRetainFailed:
	default:
		return fmt.Errorf("unknown queue policy %q", c.QueuePolicy)
	}
	return nil
}

// Load constructs a Config, applies defaults, then overlays values from a
// config file (if -c/-config is present) and command-line flags found in
// args. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
