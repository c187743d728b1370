// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package auth implements the core identity and access management system.

It handles credential verification, account status gating, and session
lifecycle management via JWT and refresh tokens.

Architecture:

  - Service: Orchestrates business logic (Login, Refresh, ChangePassword).
  - Repository: Abstracted interfaces for Postgres (Users, Sessions).
  - Security: Leverages bcrypt hashes and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, status
// gating, or login logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
gates on account status, and initializes a new session with rotated security
tokens.

Status gating happens AFTER the password check so that a correct password
against a Deleted account and a wrong password are indistinguishable:
  - Inactive: sessions are revoked and the explicit deactivation message is
    returned.
  - Deleted: sessions are revoked and the generic credential failure is
    returned. Deletion is not observable from outside.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized(MessageInvalidCredentials)
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(MessageInvalidCredentials)
	}

	// Status gate. Any lingering sessions for a non-Active account are dead weight.
	switch user.Status {
	case StatusActive:
	case StatusInactive:
		_ = service.sessionRepository.RevokeAll(context, user.ID)
		return nil, apperr.Unauthorized(MessageAccountDeactivated)
	default:
		_ = service.sessionRepository.RevokeAll(context, user.ID)
		return nil, apperr.Unauthorized(MessageInvalidCredentials)
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

/*
Logout permanently revokes the user's active session.

Description: Ensures that a tracked refresh token can never be used again.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Hash the refresh token
	tokenHash := sec.HashToken(refreshToken)

	// Find the session by token hash
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) session is already gone or invalid, we consider logout successful (idempotent operation).
	if err != nil {
		return nil
	}

	// If (err == nil) Revoke the session
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), re-validates the account status, and issues a
fresh pair of rotated tokens. A session whose account has gone non-Active
since login is terminated here.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	// Status revalidation: a deactivated or deleted account cannot rotate
	// its way back into a live session.
	if user.Status != StatusActive {
		_ = service.sessionRepository.RevokeAll(context, user.ID)
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Generate a fresh Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	// Generate a fresh Refresh Token for the rotation
	newRefreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_secure_token_failed: %w", err)
	}

	// Persist the new session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	newSession := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(newRefreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, newSession); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password and then rotates all OTHER refresh
sessions to ensure high security across devices.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - currentRefreshToken: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security Side Effect: Revoke all other sessions to force re-login on other devices
	tokenHash := sec.HashToken(currentRefreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err == nil {
		_ = service.sessionRepository.RevokeOthers(context, userID, session.ID)
	}

	return nil
}

// # Maintenance

/*
PurgeExpiredSessions removes sessions past their expiration.

Description: Invoked on a schedule from the server entrypoint.

Parameters:
  - context: context.Context

Returns:
  - err: Cleanup failures
*/
func (service *Service) PurgeExpiredSessions(context context.Context) error {
	if err := service.sessionRepository.DeleteExpired(context); err != nil {
		return fmt.Errorf("auth_service_purge_sessions_failed: %w", err)
	}
	return nil
}
