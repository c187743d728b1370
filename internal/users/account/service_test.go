// Copyright (c) 2026 ContactFlow. All rights reserved.

package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
)

// # Test Fakes

type fakeUsers struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUsers(users ...*auth.User) *fakeUsers {
	repo := &fakeUsers{users: map[string]*auth.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUsers) List(_ context.Context, exclude ...auth.UserStatus) ([]*auth.User, error) {
	var out []*auth.User
	for _, user := range r.users {
		excluded := false
		for _, status := range exclude {
			if user.Status == status {
				excluded = true
			}
		}
		if !excluded {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUsers) Create(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUsers) Update(_ context.Context, user *auth.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUsers) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (r *fakeUsers) SetStatus(_ context.Context, userID string, status auth.UserStatus) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Status = status
	return nil
}

type fakeSessions struct {
	revokedAll []string
}

func (r *fakeSessions) Create(context.Context, *auth.Session) error { return nil }
func (r *fakeSessions) FindByTokenHash(context.Context, string) (*auth.Session, error) {
	return nil, apperr.NotFound("Session")
}
func (r *fakeSessions) Revoke(context.Context, string) error { return nil }
func (r *fakeSessions) RevokeAll(_ context.Context, userID string) error {
	r.revokedAll = append(r.revokedAll, userID)
	return nil
}
func (r *fakeSessions) RevokeOthers(context.Context, string, string) error { return nil }
func (r *fakeSessions) DeleteExpired(context.Context) error                { return nil }

// # Provisioning

/*
TestCreateProvisionsNewAccount verifies the plain creation path: a fresh
email yields an Active account with a hashed password.
*/
func TestCreateProvisionsNewAccount(t *testing.T) {
	users := newFakeUsers()
	service := NewService(users, &fakeSessions{}, nil)

	user, err := service.Create(context.Background(), CreateInput{
		Email:    "bob@example.com",
		Name:     "Bob",
		Role:     sec.RoleView,
		Password: "secret-pw",
	})
	require.NoError(t, err)

	assert.Equal(t, auth.StatusActive, user.Status)
	assert.NotEqual(t, "secret-pw", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("secret-pw", user.PasswordHash))
	assert.Len(t, users.users, 1)
}

/*
TestCreateRejectsLiveDuplicate verifies that an email held by an Active or
Inactive account cannot be provisioned again.
*/
func TestCreateRejectsLiveDuplicate(t *testing.T) {
	for _, status := range []auth.UserStatus{auth.StatusActive, auth.StatusInactive} {
		existing := &auth.User{ID: "u1", Email: "bob@example.com", Status: status}
		service := NewService(newFakeUsers(existing), &fakeSessions{}, nil)

		_, err := service.Create(context.Background(), CreateInput{
			Email:    "bob@example.com",
			Name:     "Bob",
			Role:     sec.RoleView,
			Password: "secret-pw",
		})
		require.Error(t, err, "status %s", status)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "CONFLICT", appErr.Code, "status %s", status)
	}
}

/*
TestCreateReactivatesDeletedAccount verifies the reactivation rule: creating
an email that belongs to a Deleted account revives that SAME record with the
new name, role, and password, and never produces a second row.
*/
func TestCreateReactivatesDeletedAccount(t *testing.T) {
	existing := &auth.User{
		ID:     "u1",
		Email:  "bob@example.com",
		Name:   "Old Bob",
		Role:   sec.RoleAdmin,
		Status: auth.StatusDeleted,
	}
	users := newFakeUsers(existing)
	service := NewService(users, &fakeSessions{}, nil)

	user, err := service.Create(context.Background(), CreateInput{
		Email:    "bob@example.com",
		Name:     "New Bob",
		Role:     sec.RoleEdit,
		Password: "fresh-pw",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID, "reactivation must reuse the record")
	assert.Equal(t, "New Bob", user.Name)
	assert.Equal(t, sec.RoleEdit, user.Role)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.True(t, sec.CheckPasswordHash("fresh-pw", users.users["u1"].PasswordHash))
	assert.Len(t, users.users, 1, "no duplicate row may appear")
}

/*
TestCreateRejectsUnknownRole verifies role validation at the service layer.
*/
func TestCreateRejectsUnknownRole(t *testing.T) {
	service := NewService(newFakeUsers(), &fakeSessions{}, nil)

	_, err := service.Create(context.Background(), CreateInput{
		Email:    "bob@example.com",
		Name:     "Bob",
		Role:     "Owner",
		Password: "secret-pw",
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// # Listing

/*
TestListExcludesDeleted verifies that Deleted accounts are invisible to the
directory listing.
*/
func TestListExcludesDeleted(t *testing.T) {
	service := NewService(newFakeUsers(
		&auth.User{ID: "u1", Email: "a@example.com", Status: auth.StatusActive},
		&auth.User{ID: "u2", Email: "b@example.com", Status: auth.StatusDeleted},
		&auth.User{ID: "u3", Email: "c@example.com", Status: auth.StatusInactive},
	), &fakeSessions{}, nil)

	users, err := service.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, users, 2)
	for _, user := range users {
		assert.NotEqual(t, "b@example.com", user.Email)
	}
}

// # Lifecycle

/*
TestDeactivateRevokesSessions verifies the Inactive transition and the
session revocation side effect.
*/
func TestDeactivateRevokesSessions(t *testing.T) {
	users := newFakeUsers(&auth.User{ID: "u1", Email: "a@example.com", Status: auth.StatusActive})
	sessions := &fakeSessions{}
	service := NewService(users, sessions, nil)

	require.NoError(t, service.Deactivate(context.Background(), "u1"))

	assert.Equal(t, auth.StatusInactive, users.users["u1"].Status)
	assert.Equal(t, []string{"u1"}, sessions.revokedAll)
}

/*
TestDeleteRetainsRow verifies that deletion is a status transition: the row
survives with the Deleted status and sessions are revoked. A repeat delete
is a no-op.
*/
func TestDeleteRetainsRow(t *testing.T) {
	users := newFakeUsers(&auth.User{ID: "u1", Email: "a@example.com", Status: auth.StatusActive})
	sessions := &fakeSessions{}
	service := NewService(users, sessions, nil)

	require.NoError(t, service.Delete(context.Background(), "a@example.com"))

	require.Contains(t, users.users, "u1", "the row must be retained")
	assert.Equal(t, auth.StatusDeleted, users.users["u1"].Status)
	assert.Equal(t, []string{"u1"}, sessions.revokedAll)

	// Idempotent second delete.
	require.NoError(t, service.Delete(context.Background(), "a@example.com"))
	assert.Equal(t, []string{"u1"}, sessions.revokedAll)
}

// # Credentials

/*
TestSetPasswordRevokesSessions verifies the administrative password reset
and its global revocation side effect.
*/
func TestSetPasswordRevokesSessions(t *testing.T) {
	users := newFakeUsers(&auth.User{ID: "u1", Email: "a@example.com", Status: auth.StatusActive})
	sessions := &fakeSessions{}
	service := NewService(users, sessions, nil)

	require.NoError(t, service.SetPassword(context.Background(), "a@example.com", "brand-new-pw"))

	assert.True(t, sec.CheckPasswordHash("brand-new-pw", users.users["u1"].PasswordHash))
	assert.Equal(t, []string{"u1"}, sessions.revokedAll)
}

/*
TestSetPasswordHidesDeletedAccounts verifies that a Deleted account cannot
receive a password reset.
*/
func TestSetPasswordHidesDeletedAccounts(t *testing.T) {
	users := newFakeUsers(&auth.User{ID: "u1", Email: "a@example.com", Status: auth.StatusDeleted})
	service := NewService(users, &fakeSessions{}, nil)

	err := service.SetPassword(context.Background(), "a@example.com", "brand-new-pw")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestUpdateRole verifies role changes on live accounts and rejection for
deleted ones.
*/
func TestUpdateRole(t *testing.T) {
	users := newFakeUsers(
		&auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleView, Status: auth.StatusActive},
		&auth.User{ID: "u2", Email: "b@example.com", Role: sec.RoleView, Status: auth.StatusDeleted},
	)
	service := NewService(users, &fakeSessions{}, nil)

	user, err := service.UpdateRole(context.Background(), "u1", sec.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)

	_, err = service.UpdateRole(context.Background(), "u2", sec.RoleEdit)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
