// Copyright (c) 2026 ContactFlow. All rights reserved.

package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/ctxutil"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/origin"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/respond"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/settings"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
)

// SettingsLoader is the slice of the settings service the guard needs.
type SettingsLoader interface {
	Load(ctx context.Context) (*settings.Settings, error)
}

// Guard is the HTTP adapter around the access decision kernel.
//
// It resolves both kernel inputs to definitive states before deciding, so
// DecisionPending never reaches a response writer. The decision is
// re-evaluated on every request; nothing about a caller is cached between
// requests beyond the short-lived settings cache.
type Guard struct {
	users    auth.UserRepository
	sessions auth.SessionRepository
	settings SettingsLoader
	resolver *Resolver
	remote   []origin.Provider
	logger   *slog.Logger
}

// NewGuard constructs the route [Guard].
//
// remote is the chain of HTTP origin providers used when the request itself
// carries no public address.
func NewGuard(
	users auth.UserRepository,
	sessions auth.SessionRepository,
	settingsLoader SettingsLoader,
	resolver *Resolver,
	remote []origin.Provider,
	logger *slog.Logger,
) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		users:    users,
		sessions: sessions,
		settings: settingsLoader,
		resolver: resolver,
		remote:   remote,
		logger:   logger,
	}
}

/*
Protect gates a route subtree behind the full access decision.

Description: Runs after token authentication. The token's claims are only a
hint; the profile status is re-read from the store and a non-Active profile
is demoted to anonymous with its sessions revoked, so a stale JWT can never
outlive a deactivation. The restriction state is then resolved through the
settings and the origin chain, and the kernel decision is mapped onto HTTP:

  - Allow: the revalidated profile is attached to the context and the
    request proceeds.
  - RedirectLogin: 401.
  - RedirectRestricted: 403 with the RESTRICTED code so clients can route
    to their restricted notice instead of a generic forbidden screen.
*/
func (guard *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		sessionState, profile := guard.resolveSession(ctx)

		var role sec.UserRole
		if profile != nil {
			role = profile.Role
		}
		restrictionState := guard.resolveRestriction(ctx, request, role)

		switch Decide(sessionState, restrictionState) {
		case DecisionAllow:
			next.ServeHTTP(writer, request.WithContext(WithProfile(ctx, profile)))

		case DecisionRedirectLogin:
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))

		case DecisionRedirectRestricted:
			respond.Error(writer, request, apperr.Restricted("Access from your current network location is restricted"))

		default:
			// Both states are resolved above; a pending decision here is a bug.
			respond.Error(writer, request, apperr.Internal(nil))
		}
	})
}

// resolveSession turns token claims into a definitive session state.
func (guard *Guard) resolveSession(ctx context.Context) (SessionState, *auth.User) {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil {
		return SessionAnonymous, nil
	}

	profile, err := guard.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return SessionAnonymous, nil
	}

	if profile.Status != auth.StatusActive {
		// The token outlived a deactivation or deletion. Kill the refresh
		// sessions too so the caller cannot mint a fresh token.
		if err := guard.sessions.RevokeAll(ctx, profile.ID); err != nil {
			guard.logger.Warn("guard_session_revoke_failed",
				slog.String("user_id", profile.ID),
				slog.Any("error", err),
			)
		}
		return SessionAnonymous, nil
	}

	return SessionAuthenticated, profile
}

// resolveRestriction turns settings plus origin into a definitive
// restriction state. Settings load failures resolve to clear; the
// restriction feature never becomes an outage amplifier.
func (guard *Guard) resolveRestriction(ctx context.Context, request *http.Request, role sec.UserRole) RestrictionState {
	config, err := guard.settings.Load(ctx)
	if err != nil {
		guard.logger.Warn("guard_settings_load_failed", slog.Any("error", err))
		return RestrictionClear
	}

	if guard.resolver.ShouldRestrict(ctx, role, config, guard.originLookup(request)) {
		return RestrictionRestricted
	}

	return RestrictionClear
}

// originLookup builds the per-request origin chain: request-derived sources
// first, then the remote HTTP providers.
func (guard *Guard) originLookup(request *http.Request) OriginFunc {
	return func(ctx context.Context) (string, error) {
		providers := append(origin.FromRequest(request), guard.remote...)
		return origin.FirstSuccess(ctx, providers)
	}
}
