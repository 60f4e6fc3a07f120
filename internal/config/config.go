// Package config handles asset tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Decode   DecodeConfig   `yaml:"decode"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	JSON       bool   `yaml:"json"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DecodeConfig bounds what the loader accepts from disk.
type DecodeConfig struct {
	MaxFileBytes      int64 `yaml:"max_file_bytes"` // files larger than this are refused unread
	AllowTrailingData bool  `yaml:"allow_trailing_data"`
}

// PipelineConfig holds batch processing settings.
type PipelineConfig struct {
	Workers   int    `yaml:"workers"`   // concurrent decodes in batch commands
	Extension string `yaml:"extension"` // asset file extension matched when walking directories
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Decode: DecodeConfig{
			MaxFileBytes:      256 << 20,
			AllowTrailingData: false,
		},
		Pipeline: PipelineConfig{
			Workers:   4,
			Extension: ".mga",
		},
	}
}
