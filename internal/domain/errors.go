package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrDirectoryNotFound indicates the input directory is missing or unreadable
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrNoMatchingFiles indicates no files matched the naming convention
	ErrNoMatchingFiles = errors.New("no files matching the naming convention")

	// ErrAmbiguousSampleID indicates a filename lacks the sample-id delimiter
	ErrAmbiguousSampleID = errors.New("ambiguous sample id")

	// ErrDuplicateSample indicates two files map to the same (sample-id, direction) pair
	ErrDuplicateSample = errors.New("duplicate sample")

	// ErrUnpairedSample indicates a paired-end sample is missing one mate
	ErrUnpairedSample = errors.New("unpaired sample")

	// ErrWriteFailed indicates writing an output file failed
	ErrWriteFailed = errors.New("write failed")

	// ErrRuntimeNotFound indicates the container runtime binary is not on PATH
	ErrRuntimeNotFound = errors.New("container runtime not found")

	// ErrImageUnavailable indicates the toolkit image could not be pulled
	ErrImageUnavailable = errors.New("toolkit image unavailable")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")
)

// StageError represents a failed pipeline stage. LogPath points at the
// captured toolkit output for the stage, when one was written.
type StageError struct {
	Stage   string
	LogPath string
	Err     error
}

func (e *StageError) Error() string {
	if e.LogPath != "" {
		return fmt.Sprintf("stage %s failed (log: %s): %v", e.Stage, e.LogPath, e.Err)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError
func NewStageError(stage, logPath string, err error) *StageError {
	return &StageError{
		Stage:   stage,
		LogPath: logPath,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried. Only transient
// container-runtime failures (image pulls) qualify; stage executions are
// never retried because the filesystem inputs do not change between attempts.
func IsRetryable(err error) bool {
	var retryable *RetryableError
	return errors.As(err, &retryable)
}
