package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func putJSON(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSignup(t *testing.T) {
	_, app, _ := newTestServer(t)

	t.Run("creates account and returns token", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/auth/signup", map[string]string{
			"username": "newauthor",
			"email":    "newauthor@example.com",
			"password": "SecurePass12!@",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "newauthor", body.User.Username)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/auth/signup", map[string]string{
			"username": "othername",
			"email":    "newauthor@example.com",
			"password": "SecurePass12!@",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/auth/signup", map[string]string{
			"username": "weakling",
			"email":    "weakling@example.com",
			"password": "short",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad username rejected", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/auth/signup", map[string]string{
			"username": "-bad-",
			"email":    "bad@example.com",
			"password": "SecurePass12!@",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	_, app, db := newTestServer(t)
	seedUser(t, db, "resident", false)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/auth/login", map[string]string{
			"email":    "resident@example.com",
			"password": "SecurePass12!@",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/auth/login", map[string]string{
			"email":    "resident@example.com",
			"password": "WrongPass12!@",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "SecurePass12!@",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	s, app, db := newTestServer(t)
	user := seedUser(t, db, "tokenuser", false)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", authHeader(t, s, user.ID, user.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Username string `json:"username"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "tokenuser", body.Username)
	})
}
