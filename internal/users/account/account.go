// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package account implements Admin-side user administration.

It covers the provisioning lifecycle of directory members: listing, creation,
role changes, password resets, deactivation, and logical deletion.

# Architecture

  - Domain: This package depends on the auth package for the User entity and
    its repositories; accounts and identities are the same rows.
  - Security: Every endpoint is Admin-gated at the route layer. Lifecycle
    transitions revoke the affected user's sessions.

# Lifecycle Rules

Deletion never removes a row; it transitions the account to the Deleted
status. Creating a user whose email belongs to a Deleted account reactivates
that SAME record with the new name, role, and password. The directory
therefore has at most one account per email across its entire history.
*/
package account

import "github.com/Vogit1234/contact-flow-v2/internal/users/auth"

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldName        = "name"
	FieldRole        = "role"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldMessage     = "message"
)

// UserSummary is the transport view of an account in Admin listings.
type UserSummary struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// summarize maps a domain user onto its listing view.
func summarize(user *auth.User) UserSummary {
	return UserSummary{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
		Status: string(user.Status),
	}
}
