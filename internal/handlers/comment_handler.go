package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
	"github.com/nayeem-dv/socialdeck/backend/internal/middleware"
	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/comments", h.CreateComment, authRequired)
	g.GET("/comments/post/:postId", h.GetCommentsByPost)
	g.PUT("/comments/:id", h.UpdateComment, authRequired)
	g.DELETE("/comments/:id", h.DeleteComment, authRequired)
}

// CreateComment creates a comment on an active post and bumps the post's
// comment counter
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Post not found")
		}
		return err
	}

	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: req.Content,
	}

	// One level of threading only: the parent must be a top-level comment
	// on the same post.
	if req.ParentCommentID != "" {
		parent, err := h.commentRepository.GetCommentByID(ctx, req.ParentCommentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NotFound("Parent comment not found")
			}
			return err
		}
		if parent.PostID != post.ID {
			return apperrors.Validation("Parent comment belongs to a different post")
		}
		if parent.ParentCommentID != nil {
			return apperrors.Validation("Replies to replies are not supported")
		}
		parentID := parent.ID
		comment.ParentCommentID = &parentID
	}

	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return err
	}

	if err := h.postRepository.AdjustCommentsCount(ctx, post.ID.Hex(), 1); err != nil {
		// The comment exists but the counter write failed; the periodic
		// recount repairs this.
		log.Printf("Failed to increment comment counter for post %s: %v", post.ID.Hex(), err)
	}

	return respondSuccess(c, http.StatusCreated, "Comment created", echo.Map{"comment": comment})
}

// GetCommentsByPost lists active comments for a post, oldest first
func (h *CommentHandler) GetCommentsByPost(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, c.Param("postId"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Post not found")
		}
		return err
	}

	page, limit := parsePagination(c)
	comments, total, err := h.commentRepository.ListCommentsByPost(ctx, post.ID.Hex(), page, limit)
	if err != nil {
		return err
	}

	return respondList(c, "Comments retrieved", "comments", comments, models.NewPagination(page, limit, total))
}

// UpdateComment edits a comment's content and sets the edited flag. Only the
// owner may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Comment not found")
		}
		return err
	}
	if comment.UserID != user.ID {
		return apperrors.Forbidden("You are not authorized to update this comment")
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(ctx, comment); err != nil {
		return err
	}

	return respondSuccess(c, http.StatusOK, "Comment updated", echo.Map{"comment": comment})
}

// DeleteComment soft-deletes a comment and decrements the parent post's
// comment counter. Only the owner may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user := middleware.CurrentUser(c)

	ctx := c.Request().Context()

	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Comment not found")
		}
		return err
	}
	if comment.UserID != user.ID {
		return apperrors.Forbidden("You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeactivateComment(ctx, comment.ID.Hex()); err != nil {
		return err
	}

	if err := h.postRepository.AdjustCommentsCount(ctx, comment.PostID.Hex(), -1); err != nil {
		log.Printf("Failed to decrement comment counter for post %s: %v", comment.PostID.Hex(), err)
	}

	return respondSuccess(c, http.StatusOK, "Comment deleted", nil)
}
