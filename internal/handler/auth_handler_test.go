package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/middleware"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:     "handler-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}
	verifier, err := service.NewStaticCredentialVerifier(cfg)
	require.NoError(t, err)
	return service.NewAuthService(cfg, verifier, nil)
}

func topLevelKeys(t *testing.T, body []byte) map[string]json.RawMessage {
	t.Helper()
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &keys), string(body))
	return keys
}

// The SPA reads token, user and valid straight off the response body.
func TestAuthBodiesAtTopLevel(t *testing.T) {
	auth := newAuthService(t)
	h := NewAuthHandler(auth, zerolog.Nop())
	r := newEngine()
	r.POST("/login", h.Login)
	r.GET("/verify-token", middleware.RequireJWT(auth), h.VerifyToken)

	w := call(t, r, http.MethodPost, "/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	keys := topLevelKeys(t, w.Body.Bytes())
	assert.Contains(t, keys, "token")
	assert.Contains(t, keys, "user")
	assert.NotContains(t, keys, "data")

	var token string
	require.NoError(t, json.Unmarshal(keys["token"], &token))

	req := httptest.NewRequest(http.MethodGet, "/verify-token", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	keys = topLevelKeys(t, w.Body.Bytes())
	assert.JSONEq(t, "true", string(keys["valid"]))
	assert.Contains(t, keys, "user")
	assert.NotContains(t, keys, "data")
}

func TestLoginHandler(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:     "handler-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}
	verifier, err := service.NewStaticCredentialVerifier(cfg)
	require.NoError(t, err)
	auth := service.NewAuthService(cfg, verifier, nil)
	h := NewAuthHandler(auth, zerolog.Nop())

	r := newEngine()
	r.POST("/login", h.Login)

	w := call(t, r, http.MethodPost, "/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decodeBody(t, w, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "admin", body.User.Username)

	claims, err := auth.ValidateToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	w = call(t, r, http.MethodPost, "/login", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrInvalidCredentials, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodPost, "/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w, nil).Fields, "password")
}
