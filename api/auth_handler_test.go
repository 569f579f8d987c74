package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
	}{
		{
			name: "valid registration",
			body: map[string]any{
				"username": "amal",
				"email":    "amal@example.com",
				"password": "secret123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "username too short",
			body: map[string]any{
				"username": "ab",
				"email":    "ab@example.com",
				"password": "secret123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			body: map[string]any{
				"username": "basim",
				"email":    "basim@example.com",
				"password": "12345",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			body: map[string]any{
				"username": "carim",
				"email":    "not-an-email",
				"password": "secret123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing fields",
			body: map[string]any{
				"username": "dalia",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			body: map[string]any{
				"username": "amal",
				"email":    "other@example.com",
				"password": "secret123",
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := env.request(t, http.MethodPost, "/register", tc.body, uuid.Nil)
			assert.Equal(t, tc.expectedStatus, recorder.Code)

			if tc.expectedStatus == http.StatusCreated {
				cookies := recorder.Result().Cookies()
				require.NotEmpty(t, cookies)
				assert.Equal(t, sessionCookieName, cookies[0].Name)
				assert.NotEmpty(t, cookies[0].Value)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "amal")

	t.Run("by username", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/login", map[string]string{
			"username": "amal",
			"password": "password123",
		}, uuid.Nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("by email", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/login", map[string]string{
			"username": user.Email,
			"password": "password123",
		}, uuid.Nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/login", map[string]string{
			"username": "amal",
			"password": "nope",
		}, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/login", map[string]string{
			"username": "ghost",
			"password": "password123",
		}, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestGetCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "amal")

	t.Run("with session", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, "/me", nil, user.ID)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		}
		decodeBody(t, recorder, &response)
		assert.Equal(t, "amal", response.User.Username)
	})

	t.Run("without session", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, "/me", nil, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("stale session for deleted user", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, "/me", nil, uuid.New())
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestCheckSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "amal")

	t.Run("anonymous", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, "/check-session", nil, uuid.Nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response map[string]any
		decodeBody(t, recorder, &response)
		assert.Equal(t, false, response["logged_in"])
	})

	t.Run("logged in", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, "/check-session", nil, user.ID)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response map[string]any
		decodeBody(t, recorder, &response)
		assert.Equal(t, true, response["logged_in"])
		assert.Equal(t, user.ID.String(), response["user_id"])
	})
}
