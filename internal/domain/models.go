package domain

import "time"

// Direction is the read direction of a sequencing file.
type Direction string

const (
	Forward Direction = "forward"
	Reverse Direction = "reverse"
)

// IsValid reports whether d is one of the two known directions.
func (d Direction) IsValid() bool {
	return d == Forward || d == Reverse
}

// SampleRecord associates one read file with its sample and direction.
// FilePath is always absolute.
type SampleRecord struct {
	SampleID  string    `json:"sample_id"`
	FilePath  string    `json:"file_path"`
	Direction Direction `json:"direction"`
}

// ReadStats summarizes the records of a single read file.
type ReadStats struct {
	SampleID  string    `json:"sample_id"`
	FilePath  string    `json:"file_path"`
	Direction Direction `json:"direction"`
	Records   int       `json:"records"`
	MinLen    int       `json:"min_len"`
	MaxLen    int       `json:"max_len"`
	TotalLen  int64     `json:"total_len"`
}

// MeanLen returns the mean read length, or 0 for an empty file.
func (s ReadStats) MeanLen() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.TotalLen) / float64(s.Records)
}

// StageResult records the outcome of one pipeline stage.
type StageResult struct {
	Stage     string        `json:"stage" yaml:"stage"`
	Skipped   bool          `json:"skipped" yaml:"skipped"`
	CacheHit  bool          `json:"cache_hit,omitempty" yaml:"cache_hit,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Artifacts []string      `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	LogPath   string        `json:"log_path,omitempty" yaml:"log_path,omitempty"`
}
