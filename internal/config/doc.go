// Package config loads runtime configuration for the Guardian CLI.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml/.yml are YAML, anything else is JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # Supported flags
//
//	-d, --db string         SQLite database path
//	-a, --addr string       address:port of the sync gRPC endpoint
//	-t, --timeout int       store operation timeout (seconds)
//	-i, --interval int      offline queue replay interval (seconds)
//	-l, --log-level string  log level
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "db_path": "data/guardian.db",
//	  "sync_endpoint_addr": "127.0.0.1:50051",
//	  "op_timeout": "5s",
//	  "queue_policy": "retain_failed",
//	  "log_backend": "zap"
//	}
package config
