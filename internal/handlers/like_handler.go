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

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/likes/toggle", h.ToggleLike, authRequired)
	g.GET("/likes/post/:postId", h.GetLikesByPost)
	g.GET("/likes/check/:targetType/:targetId", h.CheckLike, authRequired)
}

// ToggleLike flips the authenticated user's like on a post or comment
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	like, action, err := h.likeRepository.ToggleLike(
		c.Request().Context(), user.ID.Hex(), models.TargetType(req.TargetType), req.TargetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Target not found")
		}
		return err
	}

	return respondSuccess(c, http.StatusOK, "Like toggled", echo.Map{
		"like":   like,
		"action": action,
	})
}

// GetLikesByPost lists active likes on a post
func (h *LikeHandler) GetLikesByPost(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, c.Param("postId"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Post not found")
		}
		return err
	}

	page, limit := parsePagination(c)
	likes, total, err := h.likeRepository.ListLikesByTarget(ctx, models.TargetPost, post.ID.Hex(), page, limit)
	if err != nil {
		return err
	}

	return respondList(c, "Likes retrieved", "likes", likes, models.NewPagination(page, limit, total))
}

// CheckLike reports whether the authenticated user currently likes a target
func (h *LikeHandler) CheckLike(c echo.Context) error {
	user := middleware.CurrentUser(c)

	targetType := models.TargetType(c.Param("targetType"))
	if !targetType.Valid() {
		return apperrors.Validation("targetType must be post or comment")
	}

	like, err := h.likeRepository.GetLike(c.Request().Context(), user.ID.Hex(), targetType, c.Param("targetId"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondSuccess(c, http.StatusOK, "Like status retrieved", echo.Map{"liked": false})
		}
		return err
	}

	return respondSuccess(c, http.StatusOK, "Like status retrieved", echo.Map{
		"liked": like.IsActive,
		"like":  like,
	})
}
