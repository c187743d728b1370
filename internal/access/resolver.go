// Copyright (c) 2026 ContactFlow. All rights reserved.

package access

import (
	"context"
	"log/slog"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/ipnet"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/settings"
)

// OriginFunc resolves the caller's network origin. A returned error means
// the origin could not be determined at all.
type OriginFunc func(ctx context.Context) (string, error)

// Resolver evaluates the network restriction question for one caller.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a restriction [Resolver].
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

/*
ShouldRestrict reports whether the caller must be blocked by the IP
restriction feature.

Description: The rules apply in a fixed order:

 1. Admins are exempt, checked before any origin lookup.
 2. Enforcement disabled, or an empty allow-list, restricts nobody.
 3. The origin lookup runs only when enforcement could actually block.
 4. A resolved origin is restricted exactly when it is outside the list.
 5. A failed lookup restricts nobody. The feature is an office convenience
    fence, not the authentication boundary; an outage in the lookup chain
    must not lock every user out.

Parameters:
  - ctx: context.Context
  - role: sec.UserRole (the caller's role, empty for anonymous)
  - config: *settings.Settings
  - lookup: OriginFunc

Returns:
  - bool: true when the caller must be blocked
*/
func (resolver *Resolver) ShouldRestrict(ctx context.Context, role sec.UserRole, config *settings.Settings, lookup OriginFunc) bool {

	// 1. Admin exemption, before any lookup.
	if role.CanAdminister() {
		return false
	}

	// 2. Nothing to enforce.
	if config == nil || !config.Enabled || len(config.AllowedRanges) == 0 {
		return false
	}

	// 3. Resolve the caller's origin.
	callerOrigin, err := lookup(ctx)
	if err != nil {
		// 5. Fail open.
		resolver.logger.Warn("origin_lookup_failed", slog.Any("error", err))
		return false
	}

	// 4. Outside the allow-list means restricted.
	return !ipnet.IsAllowed(callerOrigin, config.AllowedRanges)
}
