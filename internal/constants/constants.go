package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations such as asset downloads.
	ExtendedHTTPTimeout = 45 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// LowRetryMax is used for operations that should retry fewer times.
	LowRetryMax = 3

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 5

	// SmallBufferSize is used for smaller buffers.
	SmallBufferSize = 10
)

// Pagination limits. The platform only accepts 10, 25, 50, or 100 as
// page sizes on cursor-paged endpoints.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 100

	// SmallPageSize is the smallest accepted page size.
	SmallPageSize = 10

	// StandardPageSize is a middle-ground page size.
	StandardPageSize = 50
)

// Cache defaults.
const (
	// DefaultCacheSize is the default maximum number of cached responses.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default time-to-live for cached responses.
	DefaultCacheTTL = 1 * time.Minute
)

// Circuit breaker defaults.
const (
	CircuitBreakerThreshold        = 5
	CircuitBreakerTimeout          = 30 * time.Second
	CircuitBreakerSuccessThreshold = 2
)

// Circuit breaker states.
const (
	StatusOpen     = "open"
	StatusHalfOpen = "half-open"
)

// Headers.
const (
	// CSRFTokenHeader carries the cross-site request forgery token
	// required on every mutating API call.
	CSRFTokenHeader = "X-Csrf-Token"

	// SecurityCookieName is the authentication cookie name.
	SecurityCookieName = ".ROBLOSECURITY"

	// DefaultUserAgent identifies the client to the platform.
	DefaultUserAgent = "rbx-client/1.0 (+https://github.com/bloxkit/rbx-client)"
)
