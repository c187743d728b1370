// Copyright (c) 2026 ContactFlow. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/Vogit1234/contact-flow-v2/internal/platform/request"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/respond"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/validate"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
)

// Handler implements the HTTP layer for Admin user administration.
//
// # Security
//
// The whole subtree is mounted behind RequireAuth, the access guard, and
// RequireRole(Admin); the handler itself only does transport work.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the user administration endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Directory
	router.Get("/", handler.list)
	router.Post("/", handler.create)

	// Per-account operations. Lifecycle operations key on email because the
	// email is the account's identity across deletion and reactivation.
	router.Patch("/{id}/role", handler.updateRole)
	router.Post("/{id}/deactivate", handler.deactivate)
	router.Put("/{email}/password", handler.setPassword)
	router.Delete("/{email}", handler.delete)

	return router
}

// # Request Payloads

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type setPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

/*
GET /api/v1/admin/users.

Description: Lists all non-deleted accounts ordered by email ascending.

Response:
  - 200: []UserSummary: Directory accounts
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

/*
POST /api/v1/admin/users.

Description: Provisions a new account, or reactivates a previously deleted
account carrying the same email.

Request:
  - body: createUserRequest (Email, Name, Role, Password)

Response:
  - 201: User: Created or reactivated account
  - 400: ErrInvalidJSON/Validation: Bad input
  - 409: ErrConflict: Email already in use by a live account
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldName, input.Name).
		Required(FieldRole, input.Role).
		OneOf(FieldRole, input.Role, string(sec.RoleView), string(sec.RoleEdit), string(sec.RoleAdmin)).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, auth.MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Email:    input.Email,
		Name:     input.Name,
		Role:     sec.UserRole(input.Role),
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
PATCH /api/v1/admin/users/{id}/role.

Description: Changes an account's role.

Request:
  - id: string (UUID)
  - body: updateRoleRequest (Role)

Response:
  - 200: User: Updated account
  - 400: Validation: Unknown role
  - 404: ErrNotFound: No live account with this id
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldRole, input.Role).
		OneOf(FieldRole, input.Role, string(sec.RoleView), string(sec.RoleEdit), string(sec.RoleAdmin))

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateRole(request.Context(), userID, sec.UserRole(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PUT /api/v1/admin/users/{email}/password.

Description: Administrative password reset. Revokes every session of the
affected account.

Request:
  - email: string
  - body: setPasswordRequest (NewPassword)

Response:
  - 200: Success: Password replaced
  - 400: Validation: Weak password
  - 404: ErrNotFound: No live account with this email
*/
func (handler *Handler) setPassword(writer http.ResponseWriter, request *http.Request) {
	email := requestutil.Param(request, "email")

	var input setPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, auth.MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.SetPassword(request.Context(), email, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

/*
POST /api/v1/admin/users/{id}/deactivate.

Description: Suspends an account and revokes its sessions.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Account deactivated
  - 404: ErrNotFound: No account with this id
*/
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")

	if err := handler.accountService.Deactivate(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/admin/users/{email}.

Description: Logically deletes an account. The row is retained; re-creating
the email reactivates it.

Request:
  - email: string

Response:
  - 204: No Content: Account deleted (idempotent)
  - 404: ErrNotFound: No account with this email
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	email := requestutil.Param(request, "email")

	if err := handler.accountService.Delete(request.Context(), email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
