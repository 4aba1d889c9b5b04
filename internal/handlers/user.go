package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
	"github.com/nayeem-dv/socialdeck/backend/internal/middleware"
	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.GET("/users/profile", h.GetProfile, authRequired)
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id", h.UpdateUser, authRequired)
	g.DELETE("/users/:id", h.DeleteUser, authRequired)
}

// GetProfile retrieves the authenticated user's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return respondSuccess(c, http.StatusOK, "Profile retrieved", echo.Map{"user": user})
}

// GetUser retrieves a user's public profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return err
	}
	return respondSuccess(c, http.StatusOK, "User retrieved", echo.Map{"user": publicProfile(user)})
}

// UpdateUser updates a profile. Only the owner may update.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	current := middleware.CurrentUser(c)
	if current.ID.Hex() != c.Param("id") {
		return apperrors.Forbidden("You are not authorized to update this profile")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.FirstName != "" {
		current.FirstName = req.FirstName
	}
	if req.LastName != "" {
		current.LastName = req.LastName
	}
	if req.ProfilePicture != "" {
		current.ProfilePicture = req.ProfilePicture
	}
	if req.Bio != "" {
		current.Bio = req.Bio
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), current); err != nil {
		return err
	}

	return respondSuccess(c, http.StatusOK, "Profile updated", echo.Map{"user": current})
}

// DeleteUser soft-deletes the account. Only the owner may delete.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	current := middleware.CurrentUser(c)
	if current.ID.Hex() != c.Param("id") {
		return apperrors.Forbidden("You are not authorized to delete this profile")
	}

	if err := h.userRepository.DeactivateUser(c.Request().Context(), current.ID.Hex()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return err
	}

	return respondSuccess(c, http.StatusOK, "Account deactivated", nil)
}

// publicProfile strips fields other users should not see.
func publicProfile(user *models.User) echo.Map {
	return echo.Map{
		"id":             user.ID,
		"username":       user.Username,
		"firstName":      user.FirstName,
		"lastName":       user.LastName,
		"profilePicture": user.ProfilePicture,
		"bio":            user.Bio,
		"createdAt":      user.CreatedAt,
	}
}
