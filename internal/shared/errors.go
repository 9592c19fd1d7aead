package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed  = fmt.Errorf("authorization failed")
	ErrAuthExpired = fmt.Errorf("authorization expired")
	ErrTimeout     = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Input validation errors
	ErrMalformedID     = fmt.Errorf("malformed identifier")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Local I/O errors
	ErrCacheIO = fmt.Errorf("token cache unusable")
)
