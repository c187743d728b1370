// Copyright (c) 2026 ContactFlow. All rights reserved.

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// Using a private, unexported key type prevents collisions with third-party
// packages that also store per-request values in the context.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser is the context key for the authenticated token claims.
	KeyUser key = "user"

	// KeyProfile is the context key for the revalidated user profile,
	// injected by the route guard after the status check.
	KeyProfile key = "profile"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
