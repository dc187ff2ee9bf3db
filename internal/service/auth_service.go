package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// User returns the principal carried by the token.
func (c *Claims) User() model.User {
	return model.User{Username: c.Username, Role: c.Role}
}

// CredentialVerifier checks a username/password pair and returns the
// matching user.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*model.User, error)
}

// StaticCredentialVerifier accepts a single configured administrator.
type StaticCredentialVerifier struct {
	username string
	hash     []byte
}

// NewStaticCredentialVerifier builds the verifier from configuration. When no
// password hash is configured the plain ADMIN_PASSWORD is hashed once here.
func NewStaticCredentialVerifier(cfg *config.Config) (*StaticCredentialVerifier, error) {
	hash := []byte(cfg.AdminPassHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
	}
	return &StaticCredentialVerifier{username: cfg.AdminUsername, hash: hash}, nil
}

// Verify implements CredentialVerifier.
func (v *StaticCredentialVerifier) Verify(_ context.Context, username, password string) (*model.User, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passErr := bcrypt.CompareHashAndPassword(v.hash, []byte(password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}
	return &model.User{Username: v.username, Role: model.RoleAdmin}, nil
}

// AuthService handles login, JWT issuance and token revocation.
type AuthService struct {
	cfg      *config.Config
	verifier CredentialVerifier
	revoked  KeyValueStore
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, verifier CredentialVerifier, revoked KeyValueStore) *AuthService {
	return &AuthService{cfg: cfg, verifier: verifier, revoked: revoked, now: time.Now}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// Login verifies the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.GenerateToken(*user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateToken creates a signed HS256 JWT for user.
func (s *AuthService) GenerateToken(user model.User) (string, error) {
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Username: user.Username,
		Role:     user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims. Expired
// tokens yield ErrTokenExpired, every other failure ErrTokenInvalid.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// CheckRevoked returns ErrTokenRevoked when the token was logged out.
func (s *AuthService) CheckRevoked(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return nil
	}
	revoked, err := s.revoked.Exists(ctx, config.CacheKey.RevokedTokenKey(claims.ID))
	if err != nil {
		return fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

// Revoke marks the token as logged out until it would have expired anyway.
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return ErrTokenInvalid
	}
	ttl := s.cfg.JWTExpiry
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Set(ctx, config.CacheKey.RevokedTokenKey(claims.ID), true, ttl)
}
