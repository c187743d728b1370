// Copyright (c) 2026 ContactFlow. All rights reserved.

package access

// # Decision Kernel

// SessionState is the resolved authentication state of a caller.
type SessionState int

const (
	// SessionUnknown means the session has not been resolved yet.
	SessionUnknown SessionState = iota

	// SessionAnonymous means no valid, Active identity is attached.
	SessionAnonymous

	// SessionAuthenticated means a revalidated Active profile is attached.
	SessionAuthenticated
)

// RestrictionState is the resolved network restriction state of a caller.
type RestrictionState int

const (
	// RestrictionUnknown means the restriction has not been resolved yet.
	RestrictionUnknown RestrictionState = iota

	// RestrictionClear means the caller is not restricted.
	RestrictionClear

	// RestrictionRestricted means the caller's origin is outside the
	// allow-list while enforcement is enabled.
	RestrictionRestricted
)

// Decision is the outcome of the access gate for one request.
type Decision int

const (
	// DecisionPending means at least one input is unresolved. No content
	// and no redirect may be served in this state.
	DecisionPending Decision = iota

	// DecisionRedirectLogin sends an anonymous caller to authentication.
	DecisionRedirectLogin

	// DecisionRedirectRestricted sends an authenticated but restricted
	// caller to the restricted notice.
	DecisionRedirectRestricted

	// DecisionAllow grants access to the protected content.
	DecisionAllow
)

// String returns a log-friendly name for the decision.
func (d Decision) String() string {
	switch d {
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectRestricted:
		return "redirect_restricted"
	case DecisionAllow:
		return "allow"
	default:
		return "pending"
	}
}

// Decide maps the two resolved states onto an access decision.
//
// The kernel is pure and total: every state pair has exactly one outcome.
//   - Either input unresolved: Pending.
//   - Anonymous: login, regardless of the restriction state.
//   - Authenticated and restricted: the restricted notice.
//   - Otherwise: allow.
func Decide(session SessionState, restriction RestrictionState) Decision {
	if session == SessionUnknown || restriction == RestrictionUnknown {
		return DecisionPending
	}

	if session == SessionAnonymous {
		return DecisionRedirectLogin
	}

	if restriction == RestrictionRestricted {
		return DecisionRedirectRestricted
	}

	return DecisionAllow
}
