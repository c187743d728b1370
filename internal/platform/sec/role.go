// Copyright (c) 2026 ContactFlow. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Roles are stored as a single flat tag on the profile; the hierarchy below
// is derived, never persisted.
type UserRole string

const (
	// Full system access: user management, IP restriction settings, bulk deletes
	RoleAdmin UserRole = "Admin"

	// Can create, update, and delete contacts
	RoleEdit UserRole = "Edit"

	// Default role: read-only access to the directory
	RoleView UserRole = "View"
)

// IsValid reports whether the role is one of the three known tags.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEdit, RoleView:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleEdit:
		return 20
	case RoleView:
		return 10
	default:
		return 0
	}
}

// # Permission Predicates

// These gate feature affordances on every surface. They are enforced
// server-side through the RequireRole middleware; the flags returned here
// also ship to the client so the UI can hide what a role cannot do.

// CanView reports whether the role may read the contact directory.
// Any valid role can.
func (r UserRole) CanView() bool {
	return r.IsValid()
}

// CanEdit reports whether the role may create, update, or delete contacts.
func (r UserRole) CanEdit() bool {
	return r == RoleEdit || r == RoleAdmin
}

// CanAdminister reports whether the role may manage accounts and
// IP restriction settings.
func (r UserRole) CanAdminister() bool {
	return r == RoleAdmin
}
