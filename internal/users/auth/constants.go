// Copyright (c) 2026 ContactFlow. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a session/refresh token remains valid.
	// Long-lived (30 days) to provide a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
)

// # Client-Safe Messages

const (
	// MessageInvalidCredentials is the single message for every credential
	// failure, including logins against logically deleted accounts, so that
	// account existence and deletion state cannot be probed.
	MessageInvalidCredentials = "Invalid login credentials"

	// MessageAccountDeactivated is shown when an Inactive account attempts
	// to log in. Deactivation is an administrative action the user is meant
	// to learn about, unlike deletion.
	MessageAccountDeactivated = "Your account has been deactivated. Please contact your administrator."
)
