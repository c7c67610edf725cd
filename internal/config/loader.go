package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	v := viper.GetViper()
	return loadFrom(v)
}

// LoadWithViper loads configuration on a fresh viper instance and returns it,
// which keeps tests independent of global flag bindings.
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := loadFrom(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("q2run")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (Q2RUN_*)
	v.SetEnvPrefix("Q2RUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.directory", "")
	v.SetDefault("input.mode", DefaultMode)

	v.SetDefault("output.directory", DefaultOutputDir)

	v.SetDefault("manifest.format", DefaultManifestFormat)
	v.SetDefault("manifest.delimiter", DefaultDelimiter)
	v.SetDefault("manifest.strict_sample_ids", false)

	v.SetDefault("denoise.trunc_len_f", DefaultTruncLenF)
	v.SetDefault("denoise.trunc_len_r", DefaultTruncLenR)
	v.SetDefault("denoise.trim_left_f", 0)
	v.SetDefault("denoise.trim_left_r", 0)
	v.SetDefault("denoise.threads", DefaultThreads)

	v.SetDefault("classifier.confidence", DefaultConfidence)

	v.SetDefault("container.runtime", DefaultRuntime)
	v.SetDefault("container.image", DefaultImage)
	v.SetDefault("container.pull_timeout", DefaultPullTimeout)

	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.directory", CacheDir())

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}

// EnsureCacheDir creates the cache directory if it doesn't exist
func EnsureCacheDir() error {
	return os.MkdirAll(CacheDir(), 0755)
}
