// Package constants provides shared constants used throughout the trialscope codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to registry APIs
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// FetchPageDelay is the fixed delay between paginated registry API requests
	FetchPageDelay = 1 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Fetch constants control paginated registry API access
const (
	// FetchPageSize is the number of studies requested per API page (API max is 1000)
	FetchPageSize = 1000

	// FetchCacheTTL is how long fetched API pages stay in the in-process cache
	FetchCacheTTL = 15 * time.Minute
)

// Aggregation constants
const (
	// UnknownBucket is the synthetic group that absorbs records with an
	// absent aggregation key so bucket counts always sum to the input size.
	UnknownBucket = "Unknown"

	// DefaultTopSponsors is how many leading sponsors reports cover per registry
	DefaultTopSponsors = 5

	// DefaultRecentTrials is how many most recent trials are listed per top sponsor
	DefaultRecentTrials = 5
)

// Chart constants define fixed output dimensions for rendered PNG charts
const (
	// ChartWidth is the pixel width of rendered charts
	ChartWidth = 1200

	// ChartHeight is the pixel height of rendered charts
	ChartHeight = 800
)
