package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile       = flag.String("log-file", "", "Write logs to this file")
	flagWorkers       = flag.Int("workers", 0, "Concurrent decodes for batch commands")
	flagMaxFileBytes  = flag.Int64("max-file-bytes", 0, "Refuse asset files larger than this")
	flagAllowTrailing = flag.Bool("allow-trailing", false, "Accept bytes after the last section")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWorkers > 0 {
		cfg.Pipeline.Workers = *flagWorkers
	}
	if *flagMaxFileBytes > 0 {
		cfg.Decode.MaxFileBytes = *flagMaxFileBytes
	}
	if *flagAllowTrailing {
		cfg.Decode.AllowTrailingData = true
	}
}
