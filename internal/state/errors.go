package state

import "errors"

var (
	// ErrStateNotFound indicates no state file exists for the workspace
	ErrStateNotFound = errors.New("state file not found")

	// ErrStateCorrupted indicates the state file could not be parsed
	ErrStateCorrupted = errors.New("state file corrupted")

	// ErrVersionMismatch indicates the state file schema is unsupported
	ErrVersionMismatch = errors.New("state version mismatch")
)
