package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}
}

func newAuthService(t *testing.T) (*AuthService, *memKV) {
	t.Helper()
	cfg := testAuthConfig()
	verifier, err := NewStaticCredentialVerifier(cfg)
	require.NoError(t, err)
	kv := newMemKV()
	return NewAuthService(cfg, verifier, kv), kv
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	token, user, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.User{Username: "admin", Role: model.RoleAdmin}, *user)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, _, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "root", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStaticVerifierAcceptsConfiguredHash(t *testing.T) {
	cfg := testAuthConfig()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3creto"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg.AdminPassHash = string(hash)

	v, err := NewStaticCredentialVerifier(cfg)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "admin", "s3creto")
	assert.NoError(t, err)
	_, err = v.Verify(context.Background(), "admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	cfg.AdminPassHash = "not-a-hash"
	_, err = NewStaticCredentialVerifier(cfg)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc, _ := newAuthService(t)
	issued := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(model.User{Username: "admin", Role: model.RoleAdmin})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenInvalid(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Username:         "admin",
		Role:             model.RoleAdmin,
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevoke(t *testing.T) {
	svc, kv := newAuthService(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.CheckRevoked(ctx, claims))
	require.NoError(t, svc.Revoke(ctx, claims))
	assert.ErrorIs(t, svc.CheckRevoked(ctx, claims), ErrTokenRevoked)

	ttl := kv.ttls[config.CacheKey.RevokedTokenKey(claims.ID)]
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}
