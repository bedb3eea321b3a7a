package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/guardian/internal/flagx"
)

// configFlags are the flags owned by the config loader. The command tree
// declares the same names so it accepts them, but values come from here.
var configFlags = []string{
	"-d", "--db", "-a", "--addr", "-t", "--timeout",
	"-i", "--interval", "-l", "--log-level",
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short and long forms):
//
//	-d, --db string         SQLite database path
//	-a, --addr string       address and port of the sync server
//	-t, --timeout int       store operation timeout (in seconds)
//	-i, --interval int      offline queue replay interval (in seconds)
//	-l, --log-level string  log level (debug|info|warn|error)
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, configFlags)

	fs := flag.NewFlagSet("guardian", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.SyncEndpointAddr, "a", cfg.SyncEndpointAddr, "address and port of the sync server")
	fs.StringVar(&cfg.SyncEndpointAddr, "addr", cfg.SyncEndpointAddr, "address and port of the sync server")
	opTimeout := fs.Int("t", int(cfg.OpTimeout.Seconds()), "store operation timeout (in seconds)")
	fs.IntVar(opTimeout, "timeout", *opTimeout, "store operation timeout (in seconds)")
	syncInterval := fs.Int("i", int(cfg.SyncInterval.Seconds()), "offline queue replay interval (in seconds)")
	fs.IntVar(syncInterval, "interval", *syncInterval, "offline queue replay interval (in seconds)")
	fs.StringVar(&cfg.Log.Level, "l", cfg.Log.Level, "log level")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t", "timeout":
			cfg.OpTimeout = time.Duration(*opTimeout) * time.Second
		case "i", "interval":
			cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
		}
	})
	return nil
}
