// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the logic for
authentication and session lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Account Status

Accounts are never physically removed. A profile carries a Status that gates
every authenticated interaction:

  - Active: Full access per role.
  - Inactive: Deactivated by an Admin. Login is refused with an explicit
    message and existing sessions are revoked.
  - Deleted: Logically deleted. Login fails exactly like a wrong password so
    the state is not observable from outside, and re-creating the email
    reactivates the same record.
*/
package auth

import (
	"time"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
)

// # Domain Entities

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
	StatusDeleted  UserStatus = "Deleted"
)

// User represents a member of the contact directory.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	Status       UserStatus   `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldName            = "name"
	FieldRole            = "role"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
