// Copyright (c) 2026 ContactFlow. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
	"github.com/Vogit1234/contact-flow-v2/pkg/uuid"
)

// # Service Layer

// Service orchestrates Admin-side account administration.
//
// It enforces the lifecycle rules: at most one account per email ever, with
// deletion and reactivation expressed as status transitions on that account.
type Service struct {
	userRepository    auth.UserRepository
	sessionRepository auth.SessionRepository
	logger            *slog.Logger
}

// NewService constructs a new account [Service] with its repository dependencies.
func NewService(
	userRepo auth.UserRepository,
	sessionRepo auth.SessionRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		logger:            logger,
	}
}

// # Directory Listing

/*
List returns all non-deleted accounts, ordered by email ascending.

Description: Deleted accounts exist as rows but are invisible to the
directory; they reappear, reactivated, if their email is re-created.

Parameters:
  - context: context.Context

Returns:
  - []UserSummary: Transport-ready account views
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context) ([]UserSummary, error) {
	users, err := service.userRepository.List(context, auth.StatusDeleted)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_failed: %w", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, summarize(user))
	}

	return summaries, nil
}

// # Provisioning

// CreateInput holds the data required to provision a directory member.
type CreateInput struct {
	Email    string
	Name     string
	Role     sec.UserRole
	Password string
}

/*
Create provisions a new account, or reactivates a deleted one.

Description: The email is the account's identity across its whole history.
Three cases:

  - No account with the email: a new record is created.
  - A Deleted account with the email: that SAME record transitions back to
    Active, taking the new name, role, and password. No duplicate is ever
    created.
  - An Active or Inactive account with the email: Conflict.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: The created or reactivated account
  - error: Conflict, validation, or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	if !input.Role.IsValid() {
		return nil, apperr.ValidationError("Invalid role", apperr.FieldError{
			Field:   FieldRole,
			Message: fmt.Sprintf("%q is not a recognized role", input.Role),
		})
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	existing, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		if existing.Status != auth.StatusDeleted {
			return nil, apperr.Conflict("A user with this email already exists")
		}
		return service.reactivate(context, existing, input, hashedPassword)
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("account_service_create_lookup_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         input.Role,
		Status:       auth.StatusActive,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("user_account_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// reactivate brings a Deleted account back to life in place.
func (service *Service) reactivate(context context.Context, user *auth.User, input CreateInput, hashedPassword string) (*auth.User, error) {
	user.Name = input.Name
	user.Role = input.Role
	user.Status = auth.StatusActive

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_reactivate_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return nil, fmt.Errorf("account_service_reactivate_password_failed: %w", err)
	}

	service.logger.Info("user_account_reactivated",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// # Role & Credential Management

/*
UpdateRole changes an account's role.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.UserRole

Returns:
  - *auth.User: The updated account
  - error: Validation, not found, or storage failures
*/
func (service *Service) UpdateRole(context context.Context, userID string, role sec.UserRole) (*auth.User, error) {
	if !role.IsValid() {
		return nil, apperr.ValidationError("Invalid role", apperr.FieldError{
			Field:   FieldRole,
			Message: fmt.Sprintf("%q is not a recognized role", role),
		})
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == auth.StatusDeleted {
		return nil, apperr.NotFound("User")
	}

	user.Role = role
	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_role_failed: %w", err)
	}

	service.logger.Info("user_role_updated",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)

	return user, nil
}

/*
SetPassword replaces an account's password by email.

Description: Administrative password reset. Every session of the affected
account is revoked so the new credential takes effect everywhere at once.

Parameters:
  - context: context.Context
  - email: string
  - newPassword: string

Returns:
  - error: Not found or storage failures
*/
func (service *Service) SetPassword(context context.Context, email, newPassword string) error {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return err
	}
	if user.Status == auth.StatusDeleted {
		return apperr.NotFound("User")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_set_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("account_service_set_password_failed: %w", err)
	}

	_ = service.sessionRepository.RevokeAll(context, user.ID)

	service.logger.Info("user_password_reset", slog.String("user_id", user.ID))

	return nil
}

// # Lifecycle Transitions

/*
Deactivate suspends an account.

Description: The account transitions to Inactive and every session is
revoked. The user sees the explicit deactivation message on their next
login attempt.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Not found or storage failures
*/
func (service *Service) Deactivate(context context.Context, userID string) error {
	if err := service.userRepository.SetStatus(context, userID, auth.StatusInactive); err != nil {
		return err
	}

	_ = service.sessionRepository.RevokeAll(context, userID)

	service.logger.Warn("user_account_deactivated", slog.String("user_id", userID))

	return nil
}

/*
Delete logically deletes an account by email.

Description: The row transitions to the Deleted status and stays in place;
re-creating the email later reactivates it. Every session is revoked and
login behaves exactly like a wrong password from here on.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Not found or storage failures
*/
func (service *Service) Delete(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return err
	}
	if user.Status == auth.StatusDeleted {
		// Already deleted; nothing to do (idempotent operation).
		return nil
	}

	if err := service.userRepository.SetStatus(context, user.ID, auth.StatusDeleted); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	_ = service.sessionRepository.RevokeAll(context, user.ID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", user.ID))

	return nil
}
