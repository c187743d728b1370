// Copyright (c) 2026 ContactFlow. All rights reserved.

package access

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/ctxutil"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/origin"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/settings"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
)

// # Test Fakes

type stubUsers struct {
	profile *auth.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	if s.profile != nil && s.profile.ID == id {
		return s.profile, nil
	}
	return nil, apperr.NotFound("User")
}

func (s *stubUsers) FindByEmail(context.Context, string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

func (s *stubUsers) List(context.Context, ...auth.UserStatus) ([]*auth.User, error) {
	return nil, nil
}

func (s *stubUsers) Create(context.Context, *auth.User) error { return nil }
func (s *stubUsers) Update(context.Context, *auth.User) error { return nil }
func (s *stubUsers) UpdatePassword(context.Context, string, string) error { return nil }
func (s *stubUsers) SetStatus(context.Context, string, auth.UserStatus) error {
	return nil
}

type stubSessions struct {
	revokedAll []string
}

func (s *stubSessions) Create(context.Context, *auth.Session) error { return nil }
func (s *stubSessions) FindByTokenHash(context.Context, string) (*auth.Session, error) {
	return nil, apperr.NotFound("Session")
}
func (s *stubSessions) Revoke(context.Context, string) error { return nil }
func (s *stubSessions) RevokeAll(_ context.Context, userID string) error {
	s.revokedAll = append(s.revokedAll, userID)
	return nil
}
func (s *stubSessions) RevokeOthers(context.Context, string, string) error { return nil }
func (s *stubSessions) DeleteExpired(context.Context) error { return nil }

type stubSettings struct {
	config *settings.Settings
	err    error
}

func (s *stubSettings) Load(context.Context) (*settings.Settings, error) {
	return s.config, s.err
}

// # Harness

type guardHarness struct {
	users    *stubUsers
	sessions *stubSessions
	loader   *stubSettings
	handler  http.Handler
	reached  bool
}

func newGuardHarness(profile *auth.User, config *settings.Settings) *guardHarness {
	harness := &guardHarness{
		users:    &stubUsers{profile: profile},
		sessions: &stubSessions{},
		loader:   &stubSettings{config: config},
	}

	guard := NewGuard(harness.users, harness.sessions, harness.loader, NewResolver(nil), nil, nil)

	harness.handler = guard.Protect(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		harness.reached = true
		writer.WriteHeader(http.StatusOK)
	}))

	return harness
}

func (h *guardHarness) do(claims *sec.AuthClaims, clientIP string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	if clientIP != "" {
		request.Header.Set("X-Real-IP", clientIP)
	}
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, request)
	return recorder
}

func claimsFor(user *auth.User) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: user.ID, Email: user.Email, Role: string(user.Role)}
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Code
}

// # Tests

/*
TestGuardRejectsAnonymous verifies that a request with no claims gets 401
and never reaches the protected handler.
*/
func TestGuardRejectsAnonymous(t *testing.T) {
	harness := newGuardHarness(nil, settings.DefaultSettings("system"))

	recorder := harness.do(nil, "203.0.113.7")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, harness.reached)
}

/*
TestGuardAllowsActiveUser verifies the happy path: an Active user with
enforcement disabled reaches the handler.
*/
func TestGuardAllowsActiveUser(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleView, Status: auth.StatusActive}
	harness := newGuardHarness(user, settings.DefaultSettings("system"))

	recorder := harness.do(claimsFor(user), "203.0.113.7")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, harness.reached)
}

/*
TestGuardDemotesNonActiveProfile verifies that a valid token belonging to a
deactivated account is demoted to anonymous: 401, handler unreached, and the
account's refresh sessions revoked. A stale JWT cannot outlive deactivation.
*/
func TestGuardDemotesNonActiveProfile(t *testing.T) {
	for _, status := range []auth.UserStatus{auth.StatusInactive, auth.StatusDeleted} {
		user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleEdit, Status: status}
		harness := newGuardHarness(user, settings.DefaultSettings("system"))

		recorder := harness.do(claimsFor(user), "203.0.113.7")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, "status %s", status)
		assert.False(t, harness.reached, "status %s", status)
		assert.Equal(t, []string{"u1"}, harness.sessions.revokedAll, "status %s", status)
	}
}

/*
TestGuardRestrictsOutsideOrigin verifies that a non-admin caller from outside
the allow-list gets 403 with the RESTRICTED code.
*/
func TestGuardRestrictsOutsideOrigin(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleEdit, Status: auth.StatusActive}
	config := &settings.Settings{Enabled: true, AllowedRanges: []string{"203.0.113.0/24"}}
	harness := newGuardHarness(user, config)

	recorder := harness.do(claimsFor(user), "198.51.100.9")

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "RESTRICTED", errorCode(t, recorder))
	assert.False(t, harness.reached)
}

/*
TestGuardAllowsInsideOrigin verifies that a caller inside the allow-list
passes while enforcement is on.
*/
func TestGuardAllowsInsideOrigin(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleView, Status: auth.StatusActive}
	config := &settings.Settings{Enabled: true, AllowedRanges: []string{"203.0.113.0/24"}}
	harness := newGuardHarness(user, config)

	recorder := harness.do(claimsFor(user), "203.0.113.7")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, harness.reached)
}

/*
TestGuardExemptsAdmin verifies that an Admin from outside the allow-list is
still allowed while enforcement is on.
*/
func TestGuardExemptsAdmin(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleAdmin, Status: auth.StatusActive}
	config := &settings.Settings{Enabled: true, AllowedRanges: []string{"203.0.113.0/24"}}
	harness := newGuardHarness(user, config)

	recorder := harness.do(claimsFor(user), "198.51.100.9")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, harness.reached)
}

/*
TestGuardFailsOpenOnLookupExhaustion verifies that when no origin source
yields a public address and no remote providers are configured, the caller
is not restricted.
*/
func TestGuardFailsOpenOnLookupExhaustion(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleView, Status: auth.StatusActive}
	config := &settings.Settings{Enabled: true, AllowedRanges: []string{"203.0.113.0/24"}}
	harness := newGuardHarness(user, config)

	// Private header only; RemoteAddr from httptest is private as well.
	recorder := harness.do(claimsFor(user), "192.168.1.5")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, harness.reached)
}

/*
TestGuardFailsOpenOnSettingsFailure verifies that a settings load failure
never blocks an authenticated caller.
*/
func TestGuardFailsOpenOnSettingsFailure(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleView, Status: auth.StatusActive}
	harness := newGuardHarness(user, nil)
	harness.loader.err = errors.New("settings store down")

	recorder := harness.do(claimsFor(user), "198.51.100.9")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, harness.reached)
}

/*
TestGuardUsesRemoteProviders verifies that a request carrying only private
addresses falls through to the remote provider chain and is judged by the
address that chain returns.
*/
func TestGuardUsesRemoteProviders(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleView, Status: auth.StatusActive}
	config := &settings.Settings{Enabled: true, AllowedRanges: []string{"203.0.113.0/24"}}

	harness := &guardHarness{
		users:    &stubUsers{profile: user},
		sessions: &stubSessions{},
		loader:   &stubSettings{config: config},
	}

	remote := []origin.Provider{{
		Name:   "fake-echo",
		Lookup: func(context.Context) (string, error) { return "198.51.100.9", nil },
	}}

	guard := NewGuard(harness.users, harness.sessions, harness.loader, NewResolver(nil), remote, nil)
	harness.handler = guard.Protect(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		harness.reached = true
	}))

	recorder := harness.do(claimsFor(user), "192.168.1.5")

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "RESTRICTED", errorCode(t, recorder))
	assert.False(t, harness.reached)
}

/*
TestGuardAttachesProfile verifies that the revalidated profile is available
to downstream handlers.
*/
func TestGuardAttachesProfile(t *testing.T) {
	user := &auth.User{ID: "u1", Email: "a@example.com", Role: sec.RoleEdit, Status: auth.StatusActive}

	users := &stubUsers{profile: user}
	loader := &stubSettings{config: settings.DefaultSettings("system")}
	guard := NewGuard(users, &stubSessions{}, loader, NewResolver(nil), nil, nil)

	var seen *auth.User
	handler := guard.Protect(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = GetProfile(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claimsFor(user)))
	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
	assert.Equal(t, sec.RoleEdit, seen.Role)
}
