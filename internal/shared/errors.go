package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrMalformedReply = fmt.Errorf("malformed API response")
	ErrUserNotFound   = fmt.Errorf("user not found")

	// Download engine errors
	ErrDownloadFailed     = fmt.Errorf("download failed")
	ErrUnsupportedContent = fmt.Errorf("unsupported content type")

	// Image upload errors
	ErrUnsupportedImage = fmt.Errorf("unsupported image format")
)
