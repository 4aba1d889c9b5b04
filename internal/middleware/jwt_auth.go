package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
	"github.com/nayeem-dv/socialdeck/backend/internal/auth"
	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
)

const userContextKey = "user"

// JWTAuthMiddleware checks for a valid bearer access token and loads the
// referenced active user onto the request context. Expired tokens are
// rejected distinctly from invalid ones.
func JWTAuthMiddleware(tokens *auth.TokenService, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := BearerToken(c)
			if err != nil {
				return err
			}

			claims, err := tokens.VerifyAccessToken(tokenString)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return apperrors.Unauthorized("Token expired")
				}
				return apperrors.Unauthorized("Invalid token")
			}

			user, err := users.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return apperrors.Unauthorized("Account not found or deactivated")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.Unauthorized("Missing Authorization header")
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperrors.Unauthorized("Invalid Authorization header format")
	}
	return parts[1], nil
}

// CurrentUser returns the authenticated user placed on the context by
// JWTAuthMiddleware, or nil outside the protected group.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
