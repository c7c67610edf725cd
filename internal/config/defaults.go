package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values. The analysis parameters mirror the original 23S/5S run.
const (
	DefaultOutputDir = "./q2-workspace"

	DefaultMode           = "paired"
	DefaultManifestFormat = "csv_legacy"
	DefaultDelimiter      = "_"

	// DADA2 defaults
	DefaultTruncLenF = 260
	DefaultTruncLenR = 220
	DefaultThreads   = 8

	// Classifier defaults
	DefaultConfidence = 0.7

	// Container defaults
	DefaultRuntime     = "docker"
	DefaultImage       = "quay.io/qiime2/core:2023.5"
	DefaultPullTimeout = 30 * time.Minute

	// Cache defaults
	DefaultCacheEnabled = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".q2run"
	}
	return filepath.Join(home, ".q2run")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "q2run.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Mode: DefaultMode,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
		},
		Manifest: ManifestConfig{
			Format:    DefaultManifestFormat,
			Delimiter: DefaultDelimiter,
		},
		Denoise: DenoiseConfig{
			TruncLenF: DefaultTruncLenF,
			TruncLenR: DefaultTruncLenR,
			Threads:   DefaultThreads,
		},
		Classifier: ClassifierConfig{
			Confidence: DefaultConfidence,
		},
		Container: ContainerConfig{
			Runtime:     DefaultRuntime,
			Image:       DefaultImage,
			PullTimeout: DefaultPullTimeout,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
