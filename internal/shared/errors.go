package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Provider errors
	ErrProviderUnavailable = fmt.Errorf("provider unavailable")
	ErrNoProviders         = fmt.Errorf("no providers configured")
	ErrTimeout             = fmt.Errorf("operation timed out")

	// Resolution errors
	ErrValidationRejected = fmt.Errorf("content failed validation")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrLyricsNotFound     = fmt.Errorf("lyrics not found")

	// Storage errors
	ErrStoreUnavailable  = fmt.Errorf("local store unavailable")
	ErrPersistenceFailed = fmt.Errorf("failed to persist record")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
