package cache

import (
	"context"
	"time"
)

// Cache stores small values by key. The pipeline uses it to remember where
// trained classifier artifacts live, keyed by their training-input
// fingerprints.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Has(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry is the stored record for a trained classifier.
type Entry struct {
	ClassifierPath string    `json:"classifier_path"`
	CreatedAt      time.Time `json:"created_at"`
}

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		Logger:    false,
	}
}
