package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration. Every parameter here was
// a hardcoded literal in the original analysis scripts; the script values
// are kept as defaults.
type Config struct {
	Input      InputConfig      `mapstructure:"input" yaml:"input"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Manifest   ManifestConfig   `mapstructure:"manifest" yaml:"manifest"`
	Denoise    DenoiseConfig    `mapstructure:"denoise" yaml:"denoise"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Container  ContainerConfig  `mapstructure:"container" yaml:"container"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// InputConfig locates the sequencing data.
type InputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Mode      string `mapstructure:"mode" yaml:"mode"` // paired or single
}

// OutputConfig locates the workspace the pipeline writes into.
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// ManifestConfig controls manifest generation.
type ManifestConfig struct {
	Format          string `mapstructure:"format" yaml:"format"` // csv_legacy or tsv_v2
	Delimiter       string `mapstructure:"delimiter" yaml:"delimiter"`
	StrictSampleIDs bool   `mapstructure:"strict_sample_ids" yaml:"strict_sample_ids"`
}

// DenoiseConfig carries the DADA2 parameters.
type DenoiseConfig struct {
	TruncLenF int `mapstructure:"trunc_len_f" yaml:"trunc_len_f"`
	TruncLenR int `mapstructure:"trunc_len_r" yaml:"trunc_len_r"`
	TrimLeftF int `mapstructure:"trim_left_f" yaml:"trim_left_f"`
	TrimLeftR int `mapstructure:"trim_left_r" yaml:"trim_left_r"`
	Threads   int `mapstructure:"threads" yaml:"threads"`
}

// ClassifierConfig carries the taxonomic classification parameters.
// ReferenceReads and ReferenceTaxonomy are toolkit artifacts used to train a
// naive-Bayes classifier; Prebuilt, when set, points at an already trained
// classifier and skips training entirely.
type ClassifierConfig struct {
	ReferenceReads    string  `mapstructure:"reference_reads" yaml:"reference_reads"`
	ReferenceTaxonomy string  `mapstructure:"reference_taxonomy" yaml:"reference_taxonomy"`
	Prebuilt          string  `mapstructure:"prebuilt" yaml:"prebuilt"`
	PrimerF           string  `mapstructure:"primer_f" yaml:"primer_f"`
	PrimerR           string  `mapstructure:"primer_r" yaml:"primer_r"`
	Confidence        float64 `mapstructure:"confidence" yaml:"confidence"`
}

// ContainerConfig describes the toolkit execution environment.
type ContainerConfig struct {
	Runtime     string        `mapstructure:"runtime" yaml:"runtime"` // docker or podman
	Image       string        `mapstructure:"image" yaml:"image"`
	PullTimeout time.Duration `mapstructure:"pull_timeout" yaml:"pull_timeout"`
}

// CacheConfig controls the trained-classifier cache.
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate normalizes out-of-range values and rejects unknown enum values.
func (c *Config) Validate() error {
	switch c.Input.Mode {
	case "paired", "single":
	case "":
		c.Input.Mode = DefaultMode
	default:
		return fmt.Errorf("invalid input.mode %q (want paired or single)", c.Input.Mode)
	}

	switch c.Manifest.Format {
	case "csv_legacy", "tsv_v2":
	case "":
		c.Manifest.Format = DefaultManifestFormat
	default:
		return fmt.Errorf("invalid manifest.format %q (want csv_legacy or tsv_v2)", c.Manifest.Format)
	}
	if c.Manifest.Delimiter == "" {
		c.Manifest.Delimiter = DefaultDelimiter
	}

	if c.Denoise.TruncLenF < 0 {
		c.Denoise.TruncLenF = DefaultTruncLenF
	}
	if c.Denoise.TruncLenR < 0 {
		c.Denoise.TruncLenR = DefaultTruncLenR
	}
	if c.Denoise.TrimLeftF < 0 {
		c.Denoise.TrimLeftF = 0
	}
	if c.Denoise.TrimLeftR < 0 {
		c.Denoise.TrimLeftR = 0
	}
	if c.Denoise.Threads < 1 {
		c.Denoise.Threads = DefaultThreads
	}

	if c.Classifier.Confidence <= 0 || c.Classifier.Confidence > 1 {
		c.Classifier.Confidence = DefaultConfidence
	}

	switch c.Container.Runtime {
	case "docker", "podman":
	case "":
		c.Container.Runtime = DefaultRuntime
	default:
		return fmt.Errorf("invalid container.runtime %q (want docker or podman)", c.Container.Runtime)
	}
	if c.Container.Image == "" {
		c.Container.Image = DefaultImage
	}
	if c.Container.PullTimeout < time.Minute {
		c.Container.PullTimeout = DefaultPullTimeout
	}

	return nil
}
