package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/guardian/internal/flagx"
	"github.com/dmitrijs2005/guardian/internal/syncq"
	"github.com/dmitrijs2005/guardian/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding the config file. Zero
// values mean "not set" and leave the corresponding default untouched.
type FileConfig struct {
	DBPath            string         `json:"db_path" yaml:"db_path"`
	SyncEndpointAddr  string         `json:"sync_endpoint_addr" yaml:"sync_endpoint_addr"`
	OpTimeout         timex.Duration `json:"op_timeout" yaml:"op_timeout"`
	SyncTimeout       timex.Duration `json:"sync_timeout" yaml:"sync_timeout"`
	SyncInterval      timex.Duration `json:"sync_interval" yaml:"sync_interval"`
	QueuePolicy       string         `json:"queue_policy" yaml:"queue_policy"`
	QueueMaxRetries   uint64         `json:"queue_max_retries" yaml:"queue_max_retries"`
	QueueBackoff      timex.Duration `json:"queue_backoff" yaml:"queue_backoff"`
	ResponderCacheTTL timex.Duration `json:"responder_cache_ttl" yaml:"responder_cache_ttl"`

	LogBackend string `json:"log_backend" yaml:"log_backend"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
	LogFormat  string `json:"log_format" yaml:"log_format"`
	LogFile    string `json:"log_file" yaml:"log_file"`

	S3Endpoint  string `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3Region    string `json:"s3_region" yaml:"s3_region"`
	S3Bucket    string `json:"s3_bucket" yaml:"s3_bucket"`
	S3AccessKey string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key" yaml:"s3_secret_key"`
}

// parseFile overlays cfg with values from the file named by -c/-config.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.SyncEndpointAddr, fc.SyncEndpointAddr)
	setDuration(&cfg.OpTimeout, fc.OpTimeout)
	setDuration(&cfg.SyncTimeout, fc.SyncTimeout)
	setDuration(&cfg.SyncInterval, fc.SyncInterval)
	if fc.QueuePolicy != "" {
		cfg.QueuePolicy = syncq.Policy(fc.QueuePolicy)
	}
	if fc.QueueMaxRetries != 0 {
		cfg.QueueMaxRetries = fc.QueueMaxRetries
	}
	setDuration(&cfg.QueueBackoff, fc.QueueBackoff)
	setDuration(&cfg.ResponderCacheTTL, fc.ResponderCacheTTL)

	setString(&cfg.Log.Backend, fc.LogBackend)
	setString(&cfg.Log.Level, fc.LogLevel)
	setString(&cfg.Log.Format, fc.LogFormat)
	setString(&cfg.Log.File, fc.LogFile)

	setString(&cfg.S3.Endpoint, fc.S3Endpoint)
	setString(&cfg.S3.Region, fc.S3Region)
	setString(&cfg.S3.Bucket, fc.S3Bucket)
	setString(&cfg.S3.AccessKey, fc.S3AccessKey)
	setString(&cfg.S3.SecretKey, fc.S3SecretKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
