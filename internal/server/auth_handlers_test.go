package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)
	app.Post("/api/auth/login", s.Login)
	app.Post("/api/auth/logout", s.Logout)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, app, req)
}

func TestSignupAndLogin(t *testing.T) {
	s, _ := newTestServer(t)
	app := newAuthApp(s)

	signup := map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "Sup3rSecret!",
	}

	t.Run("Signup", func(t *testing.T) {
		resp := postJSON(t, app, "/api/auth/signup", signup)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result struct {
			Token string `json:"token"`
			User  struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "Ada", result.User.Name)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		resp := postJSON(t, app, "/api/auth/signup", signup)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("MissingFields", func(t *testing.T) {
		resp := postJSON(t, app, "/api/auth/signup", map[string]string{"email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("LoginSuccess", func(t *testing.T) {
		resp := postJSON(t, app, "/api/auth/login", map[string]string{
			"email":    "ada@example.com",
			"password": "Sup3rSecret!",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.NotEmpty(t, result.Token)
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		resp := postJSON(t, app, "/api/auth/login", map[string]string{
			"email":    "ada@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("LoginUnknownEmail", func(t *testing.T) {
		resp := postJSON(t, app, "/api/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "whatever",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestLogout(t *testing.T) {
	s, _ := newTestServer(t)
	app := newAuthApp(s)

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := s.generateToken(1, "Ada")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("GarbageToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestAuthRequired(t *testing.T) {
	s, _ := newTestServer(t)

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})

	t.Run("NoToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("BearerToken", func(t *testing.T) {
		token, err := s.generateToken(42, "Ada")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := doRequest(t, app, req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			UserID uint `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, uint(42), result.UserID)
	})

	t.Run("QueryToken", func(t *testing.T) {
		token, err := s.generateToken(7, "Bob")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := &Server{config: s.config}
		otherCfg := *s.config
		otherCfg.JWTSecret = "different-secret"
		other.config = &otherCfg

		token, err := other.generateToken(1, "Eve")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
