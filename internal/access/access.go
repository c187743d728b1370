// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package access enforces who may reach protected content.

It combines two independent questions into one gate:

  - Session: Is the caller an authenticated, Active account? Token claims
    alone are not trusted; the profile status is re-read from the store on
    every protected request.
  - Restriction: Does the caller's network origin fall inside the
    Admin-managed IPv4 allow-list, when enforcement is enabled?

Architecture:

  - Decide: Pure decision kernel over the two resolved states (guard.go).
  - Resolver: Evaluates the restriction question for one caller (resolver.go).
  - Guard: HTTP middleware that resolves both states and maps the decision
    onto status codes (middleware.go).

Admins are exempt from the network restriction unconditionally; the exemption
is evaluated before any origin lookup so an Admin can always reach the
settings screen to fix a bad allow-list.
*/
package access

import (
	"context"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/ctxkey"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
)

// # Profile Context

// WithProfile returns a new context carrying the guard-revalidated profile.
func WithProfile(ctx context.Context, profile *auth.User) context.Context {
	return context.WithValue(ctx, ctxkey.KeyProfile, profile)
}

// GetProfile retrieves the revalidated profile stored by the guard.
// Returns nil when the request did not pass through the guard.
func GetProfile(ctx context.Context) *auth.User {
	profile, ok := ctx.Value(ctxkey.KeyProfile).(*auth.User)
	if !ok {
		return nil
	}
	return profile
}
