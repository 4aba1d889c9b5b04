// Package auth covers the credential mechanics: password hashing and the
// access/refresh token pair.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
)

// Token types carried in the token_type claim. A refresh token is never
// accepted where an access token is expected, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Verification failures are reported distinctly so the HTTP layer can tell
// an expired token apart from a forged or malformed one.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService mints and verifies the token pair. Access and refresh tokens
// are signed with separate secrets. There is no revocation list: a token is
// valid until its natural expiry.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a TokenService.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GenerateTokenPair mints an access and a refresh token for a user.
func (s *TokenService) GenerateTokenPair(user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = s.generate(user, TokenTypeAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.generate(user, TokenTypeRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// GenerateAccessToken mints a fresh access token only, used by the refresh flow.
func (s *TokenService) GenerateAccessToken(user *models.User) (string, error) {
	return s.generate(user, TokenTypeAccess, s.accessSecret, s.accessTTL)
}

func (s *TokenService) generate(user *models.User, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken validates signature, expiry and token type of an access
// token. Expired tokens return ErrTokenExpired; every other failure returns
// ErrTokenInvalid.
func (s *TokenService) VerifyAccessToken(tokenString string) (*models.JwtCustomClaims, error) {
	return s.verify(tokenString, TokenTypeAccess, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*models.JwtCustomClaims, error) {
	return s.verify(tokenString, TokenTypeRefresh, s.refreshSecret)
}

func (s *TokenService) verify(tokenString, tokenType string, secret []byte) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.TokenType != tokenType {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
