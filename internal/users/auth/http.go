// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from credential
verification to session rotation.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/middleware"
	requestutil "github.com/Vogit1234/contact-flow-v2/internal/platform/request"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/respond"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session entry points only. Account provisioning
// is an Admin operation and lives in the account package.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /login   : Authenticates and returns a JWT.
//   - POST /refresh : Rotates the refresh session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and account status, generates JWT access
tokens, and injects a secure refresh token cookie into the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Access token and User profile
  - 401: ErrUnauthorized: Invalid credentials or deactivated account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(request.Context(), cookie.Value)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token cookie,
re-checking the account status, and issuing a fresh access token and an
updated refresh token.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: ErrUnauthorized: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		cookie.Value,
		request.UserAgent(),
		getClientIP(request),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Description: Verifies the current password and security context before
applying a new password.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: Session invalid or authentication required
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing active session cookie"))
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		claims.UserID,
		input.CurrentPassword,
		input.NewPassword,
		cookie.Value,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

// setRefreshCookie injects the rotated refresh token into the response.
func setRefreshCookie(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// getClientIP tries to extract the real IP address of a user over proxy environments.
func getClientIP(request *http.Request) string {

	ip := request.Header.Get(constants.HeaderXRealIP)
	if ip == "" {
		ip = request.Header.Get(constants.HeaderXForwardedFor)
	}

	if ip == "" {
		ip = request.RemoteAddr
	}
	return ip
}
