// Copyright (c) 2026 GameShelf. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session cookie configuration.
  - Caching: Debounce windows and cache-key taxonomy.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "gameshelf-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// SessionCookieName is the name of the cookie that stores the signed session token.
	SessionCookieName = "gameshelf_session"

	// SessionCookiePath scopes the session cookie to the whole site so that
	// both the API and the page shell can read authentication state.
	SessionCookiePath = "/"

	// DefaultSessionTTL is how long an issued session remains valid.
	DefaultSessionTTL = 30 * 24 * time.Hour
)

// # Caching & Debouncing

const (
	// CompletedCacheDebounce is the batching window for completed-list resorts.
	// Bursts of catalogue mutations inside this window collapse into one resort.
	CompletedCacheDebounce = 50 * time.Millisecond

	// URLWriteDebounce is the batching window for query-string writes driven
	// by filter changes.
	URLWriteDebounce = 300 * time.Millisecond

	// ViewOffloadTimeout bounds the optional background filtering path before
	// it falls back to synchronous computation.
	ViewOffloadTimeout = 10 * time.Second

	// ViewSecondaryCacheSize bounds the auxiliary FIFO view cache.
	ViewSecondaryCacheSize = 10
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
)

// # Redis Keys (Cache Taxonomy)

const (
	// RedisKeyGames is the key holding the full persisted games document.
	RedisKeyGames = "catalog:games"
)
