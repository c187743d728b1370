// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package apperr defines the centralized error handling framework for ContactFlow.

It bridges low-level storage and service errors with the HTTP responses the
API is allowed to show to clients.

Architecture:

  - AppError: A struct carrying a machine-readable code and a client-safe message.
  - Mapping: Explicit mapping from AppError to standard HTTP status codes.
  - Hygiene: Internal causes are logged server-side and never serialized.

Every error that leaves a service layer should be wrapped as an [AppError] to
keep API responses consistent and non-leaking.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the ContactFlow API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to
// clients. Credential failures in particular must stay generic so that the
// API never reveals whether an email address is registered.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "RESTRICTED").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Restricted creates a 403 [AppError] with a distinct code so clients can
// route the user to the restricted-access page rather than the login page.
func Restricted(msg string) *AppError {
	return &AppError{
		Code:       "RESTRICTED",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	appError := As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
