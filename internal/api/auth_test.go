package api

import (
	"net/http"
	"testing"

	"banking_api/internal/config"
	"banking_api/internal/domain"
	"banking_api/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username: "Alice123",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Username is stored lowercase
	var user domain.User
	require.NoError(t, s.db.Where("username = ?", "alice123").First(&user).Error)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "supersecret", user.Password)

	// Login is case-insensitive on the username
	w = s.request(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Username: "ALICE123",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp AuthResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)

	// The token carries the user ID
	claims, err := utils.ParseJWT(resp.Token, s.cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{"username too short", "ab", "supersecret", "Username must be 3-30 alphanumeric characters"},
		{"username not alphanumeric", "alice!", "supersecret", "Username must be 3-30 alphanumeric characters"},
		{"password too short", "alice123", "short", "Password must be 8-72 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.request(t, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
				Username: tt.username,
				Password: tt.password,
			}, "")
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w))
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestServer(t)
	req := RegisterRequest{Username: "bob", Password: "supersecret"}

	w := s.request(t, http.MethodPost, "/api/v1/auth/register", req, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.request(t, http.MethodPost, "/api/v1/auth/register", req, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", errorMessage(t, w))
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	w := s.request(t, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username: "carol",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Wrong password and unknown user answer identically
	w = s.request(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "carol", Password: "wrongwrong"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, w))

	w = s.request(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "nobody", Password: "whatever1"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, w))
}

func TestRegisterAdmin(t *testing.T) {
	s := newTestServer(t)

	// Missing setup key
	w := s.request(t, http.MethodPost, "/api/v1/auth/register-admin", RegisterRequest{
		Username: "root1",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	// Correct setup key
	w = s.requestWithHeader(t, http.MethodPost, "/api/v1/auth/register-admin", RegisterRequest{
		Username: "root1",
		Password: "supersecret",
	}, "X-Admin-Setup-Key", s.cfg.AdminSetupKey)
	require.Equal(t, http.StatusCreated, w.Code)

	var user domain.User
	require.NoError(t, s.db.Where("username = ?", "root1").First(&user).Error)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestRegisterAdminDisabledWithoutKey(t *testing.T) {
	s := newTestServer(t)
	// A router configured with no setup key rejects every attempt
	router := NewRouter(s.db, nil, s.engine, &config.Config{JWTSecret: s.cfg.JWTSecret})
	s.router = router

	w := s.requestWithHeader(t, http.MethodPost, "/api/v1/auth/register-admin", RegisterRequest{
		Username: "root2",
		Password: "supersecret",
	}, "X-Admin-Setup-Key", "")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/api/v1/auth/me", nil, s.token)
	require.Equal(t, http.StatusOK, w.Code)
	var user domain.User
	decodeBody(t, w, &user)
	assert.Equal(t, s.userID, user.ID)
	assert.Equal(t, "tester", user.Username)
	// The password hash never serializes
	assert.NotContains(t, w.Body.String(), "password")

	// No token
	w = s.request(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token whose user row no longer exists
	require.NoError(t, s.db.Delete(&domain.User{}, s.userID).Error)
	w = s.request(t, http.MethodGet, "/api/v1/auth/me", nil, s.token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/api/v1/accounts", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/accounts", nil, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A token signed with another secret is rejected
	forged, err := utils.GenerateJWT(s.userID, "other-secret")
	require.NoError(t, err)
	w = s.request(t, http.MethodGet, "/api/v1/accounts", nil, forged)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
