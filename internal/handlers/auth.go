package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
	"github.com/nayeem-dv/socialdeck/backend/internal/auth"
	"github.com/nayeem-dv/socialdeck/backend/internal/middleware"
	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
	"github.com/nayeem-dv/socialdeck/backend/pkg/config"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles registration, login and token lifecycle requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenService
	cfg            *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
		cfg:            cfg,
	}
}

// RegisterUserAuthRoutes registers the credential routes under /api/users
func (h *AuthHandler) RegisterUserAuthRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/users", h.Register)
	g.POST("/users/login", h.Login)
	g.POST("/users/refresh-token", h.RefreshToken)
	g.PUT("/users/change-password", h.ChangePassword, authRequired)
}

// RegisterSessionRoutes registers session inspection routes under /api/auth
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/status", h.Status)
	g.GET("/logout", h.Logout)
}

// Register handles local user registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	// Friendly conflicts before the unique indexes catch them
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return apperrors.Conflict("Email already in use")
	}
	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return apperrors.Conflict("Username already taken")
	}

	hashedPassword, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		return apperrors.Internal(err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		IsActive:  true,
	}

	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return err
	}

	accessToken, refreshToken, err := h.tokens.GenerateTokenPair(user)
	if err != nil {
		return apperrors.Internal(err)
	}

	return respondWithTokens(c, http.StatusCreated, "User registered successfully", user, accessToken, refreshToken)
}

// Login authenticates by email or username plus password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		// Same response whether the account is missing, inactive or the
		// password mismatches.
		return apperrors.Unauthorized("Invalid credentials")
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return apperrors.Unauthorized("Invalid credentials")
	}

	if err := h.userRepository.TouchLastLogin(ctx, user.ID.Hex()); err != nil {
		return apperrors.Internal(err)
	}

	accessToken, refreshToken, err := h.tokens.GenerateTokenPair(user)
	if err != nil {
		return apperrors.Internal(err)
	}

	return respondWithTokens(c, http.StatusOK, "Login successful", user, accessToken, refreshToken)
}

// ChangePassword re-verifies the current password before re-hashing
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if user.Password == "" {
		return apperrors.Validation("Account has no password set; it uses OAuth sign-in")
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.Unauthorized("Current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return apperrors.Validation("New password must differ from the current password")
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword, h.cfg.BcryptCost)
	if err != nil {
		return apperrors.Internal(err)
	}

	user.Password = hashedPassword
	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return err
	}

	return respondSuccess(c, http.StatusOK, "Password changed successfully", nil)
}

// RefreshToken mints a new access token from a valid refresh token
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claims, err := h.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return apperrors.Unauthorized("Refresh token expired")
		}
		return apperrors.Unauthorized("Invalid refresh token")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return apperrors.Unauthorized("Account not found or deactivated")
	}

	accessToken, err := h.tokens.GenerateAccessToken(user)
	if err != nil {
		return apperrors.Internal(err)
	}

	return respondSuccess(c, http.StatusOK, "Access token refreshed", echo.Map{"accessToken": accessToken})
}

// Status reports whether the caller presented a valid access token
func (h *AuthHandler) Status(c echo.Context) error {
	tokenString, err := middleware.BearerToken(c)
	if err != nil {
		return respondSuccess(c, http.StatusOK, "Not authenticated", echo.Map{"authenticated": false})
	}

	claims, err := h.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return respondSuccess(c, http.StatusOK, "Not authenticated", echo.Map{"authenticated": false})
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondSuccess(c, http.StatusOK, "Not authenticated", echo.Map{"authenticated": false})
	}

	return respondSuccess(c, http.StatusOK, "Authenticated", echo.Map{
		"authenticated": true,
		"user":          user,
	})
}

// Logout clears the refresh cookie. Issued tokens stay valid until their
// natural expiry; there is no revocation list.
func (h *AuthHandler) Logout(c echo.Context) error {
	clearRefreshCookie(c)
	return respondSuccess(c, http.StatusOK, "Logged out", nil)
}

func respondWithTokens(c echo.Context, status int, message string, user *models.User, accessToken, refreshToken string) error {
	setRefreshCookie(c, refreshToken)
	return respondSuccess(c, status, message, echo.Map{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func setRefreshCookie(c echo.Context, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/api",
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
}

func clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
