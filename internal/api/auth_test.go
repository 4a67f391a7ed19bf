package api_test

import (
	"net/http"
	"testing"

	"team_scheduler/internal/api"
	"team_scheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "Alice@Example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.ProfileResponse
	decode(t, w, &resp)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "alice@example.com", resp.Email) // Email is lowercased
	assert.Equal(t, domain.RoleEmployee, resp.Role)  // Registration never grants another role
	assert.NotZero(t, resp.ID)

	// Password hash must never leak into the response body
	assert.NotContains(t, w.Body.String(), "password")

	// The stored credential is a hash, not the plaintext
	var stored domain.User
	require.NoError(t, env.db.First(&stored, resp.ID).Error)
	assert.NotEqual(t, "supersecret", stored.Password)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "a@b.com", "password": "supersecret"}},
		{"missing email", map[string]string{"name": "A", "password": "supersecret"}},
		{"missing password", map[string]string{"name": "A", "email": "a@b.com"}},
		{"bad email", map[string]string{"name": "A", "email": "not-an-email", "password": "supersecret"}},
		{"short password", map[string]string{"name": "A", "email": "a@b.com", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "Bob", "bob@example.com", "password123", domain.RoleEmployee)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Bobby",
		"email":    "bob@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Carol", "carol@example.com", "password123", domain.RoleManager)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.AuthResponse
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, domain.RoleManager, resp.User.Role)

	// The returned token must authenticate protected endpoints
	w = env.do(t, http.MethodGet, "/api/users/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "Dave", "dave@example.com", "password123", domain.RoleEmployee)

	// Wrong password
	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "dave@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown account
	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/leaves"},
		{http.MethodPost, "/api/leaves"},
		{http.MethodPatch, "/api/leaves/1/status"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodPut, "/api/users/me"},
	} {
		// No token at all
		w := env.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without token", route.method, route.path)

		// Garbage token
		w = env.do(t, route.method, route.path, "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s with bad token", route.method, route.path)
	}
}
