package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfstack/catalog/pkg/auth"
	"github.com/shelfstack/catalog/pkg/storage"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotZero(t, resp.User.ID)

	// The issued token must carry the new identity
	claims, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name    string
		body    map[string]string
		wantMsg string
	}{
		{
			name:    "username too short",
			body:    map[string]string{"username": "ab", "email": "a@b.com", "password": "password123"},
			wantMsg: "Username must be at least 3 characters",
		},
		{
			name:    "missing email",
			body:    map[string]string{"username": "alice", "password": "password123"},
			wantMsg: "Valid email is required",
		},
		{
			name:    "email without at sign",
			body:    map[string]string{"username": "alice", "email": "not-an-email", "password": "password123"},
			wantMsg: "Valid email is required",
		},
		{
			name:    "password too short",
			body:    map[string]string{"username": "alice", "email": "a@b.com", "password": "short"},
			wantMsg: "Password must be at least 6 characters",
		},
		{
			name:    "username checked before email",
			body:    map[string]string{"username": "ab", "email": "bad", "password": "x"},
			wantMsg: "Username must be at least 3 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.registerUser(t, "alice")

	tests := []struct {
		name string
		body map[string]string
	}{
		{
			name: "duplicate username",
			body: map[string]string{"username": "alice", "email": "other@example.com", "password": "password123"},
		},
		{
			name: "duplicate email",
			body: map[string]string{"username": "alice2", "email": "alice@example.com", "password": "password123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Username or email already exists", errorMessage(t, rec))
		})
	}
}

func TestRegister_StoreConflictRace(t *testing.T) {
	env := newTestEnv(t, nil)

	// Pre-check passes but the store reports a conflict, as happens when
	// two identical registrations race.
	env.users.createErr = fmt.Errorf("insert: %w", storage.ErrConflict)

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username or email already exists", errorMessage(t, rec))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	userID, _ := env.registerUser(t, "alice")

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Message string `json:"message"`
			Token   string `json:"token"`
			User    struct {
				ID int64 `json:"id"`
			} `json:"user"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Login successful", resp.Message)
		assert.Equal(t, userID, resp.User.ID)

		claims, err := env.tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "nobody",
			"password": "password123",
		})
		// Indistinguishable from a wrong password
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Username and password are required", errorMessage(t, rec))
	})
}

func TestLogout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := newTestEnv(t, auth.NewTokenDenylist(client))
	_, token := env.registerUser(t, "alice")

	// Token works before logout
	rec := env.do(t, http.MethodGet, "/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Logged out successfully", resp.Message)

	// Revoked token is rejected like any invalid token
	rec = env.do(t, http.MethodGet, "/products", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid or expired token", errorMessage(t, rec))
}

func TestLogout_WithoutDenylist(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.registerUser(t, "alice")

	rec := env.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Without a denylist the token stays valid until expiry
	rec = env.do(t, http.MethodGet, "/products", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_RequiresToken(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token required", errorMessage(t, rec))
}
