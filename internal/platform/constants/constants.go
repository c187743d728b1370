// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and cookie configuration.
  - Access Control: The restriction settings singleton identity and defaults.

Using this package keeps magic strings and magic numbers out of business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "contactflow-api"
	AppVersion = "2.0.0-dev"
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
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "contactflow.app"

	// RefreshTokenCookieName is the name of the cookie that stores the refresh token.
	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath is the scoped path for the refresh token cookie.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # Access Control

const (
	// RestrictionSettingsID is the fixed well-known id of the singleton
	// IP restriction settings row. Exactly one exists per deployment.
	RestrictionSettingsID = "ipRestrictions"

	// SessionPurgeSchedule is the cron expression for the expired-session
	// cleanup job.
	SessionPurgeSchedule = "@hourly"
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
	FieldData        = "data"
	FieldError       = "error"
	FieldCode        = "code"
	FieldMessage     = "message"
	FieldStatus      = "status"
	FieldAddress     = "address"
	FieldDescription = "description"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSettings = "access:settings:"
)
