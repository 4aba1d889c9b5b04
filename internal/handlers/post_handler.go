package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
	"github.com/nayeem-dv/socialdeck/backend/internal/middleware"
	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post-related routes. Reads are public;
// mutations require authentication.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, authRequired)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/feed/recent", h.RecentFeed)
	g.GET("/posts/user/:userId", h.GetPostsByUser)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost, authRequired)
	g.DELETE("/posts/:id", h.DeletePost, authRequired)
}

// CreatePost creates a new post owned by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Content == "" && req.ImageURL == "" {
		return apperrors.Validation("Post must contain text content or an image")
	}

	post := &models.Post{
		UserID:   user.ID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	}
	post.ResolveContentType()

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return err
	}

	return respondSuccess(c, http.StatusCreated, "Post created", echo.Map{"post": post})
}

// GetPost retrieves a single active post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Post not found")
		}
		return err
	}
	return respondSuccess(c, http.StatusOK, "Post retrieved", echo.Map{"post": post})
}

// GetPosts lists posts with pagination, allow-listed sorting and an optional
// tag filter
func (h *PostHandler) GetPosts(c echo.Context) error {
	opts, err := h.listOptions(c)
	if err != nil {
		return err
	}
	return h.list(c, opts, "Posts retrieved")
}

// GetPostsByUser lists a single user's posts
func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	opts, err := h.listOptions(c)
	if err != nil {
		return err
	}
	opts.UserID = c.Param("userId")
	return h.list(c, opts, "Posts retrieved")
}

// RecentFeed lists the newest posts
func (h *PostHandler) RecentFeed(c echo.Context) error {
	page, limit := parsePagination(c)
	opts := repositories.PostListOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	return h.list(c, opts, "Recent feed retrieved")
}

// SearchPosts does a case-insensitive substring match across content and tags
func (h *PostHandler) SearchPosts(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return apperrors.Validation("Search query 'q' is required")
	}

	page, limit := parsePagination(c)
	opts := repositories.PostListOptions{
		Page:   page,
		Limit:  limit,
		Search: query,
	}
	return h.list(c, opts, "Search results retrieved")
}

// UpdatePost updates an existing post. Only whitelisted fields are merged
// and only the owner may update.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Post not found")
		}
		return err
	}
	if post.UserID != user.ID {
		return apperrors.Forbidden("You are not authorized to update this post")
	}

	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if post.Content == "" && post.ImageURL == "" {
		return apperrors.Validation("Post must contain text content or an image")
	}
	post.ResolveContentType()

	if err := h.postRepository.UpdatePost(c.Request().Context(), post); err != nil {
		return err
	}

	return respondSuccess(c, http.StatusOK, "Post updated", echo.Map{"post": post})
}

// DeletePost soft-deletes a post. Only the owner may delete. Comments are
// left in place.
func (h *PostHandler) DeletePost(c echo.Context) error {
	user := middleware.CurrentUser(c)

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Post not found")
		}
		return err
	}
	if post.UserID != user.ID {
		return apperrors.Forbidden("You are not authorized to delete this post")
	}

	if err := h.postRepository.DeactivatePost(c.Request().Context(), post.ID.Hex()); err != nil {
		return err
	}

	return respondSuccess(c, http.StatusOK, "Post deleted", nil)
}

func (h *PostHandler) listOptions(c echo.Context) (repositories.PostListOptions, error) {
	page, limit := parsePagination(c)
	opts := repositories.PostListOptions{Page: page, Limit: limit}

	if sortBy := c.QueryParam("sortBy"); sortBy != "" {
		bsonKey, ok := models.PostSortFields[sortBy]
		if !ok {
			return opts, apperrors.Validation("sortBy must be one of: createdAt, updatedAt, likesCount, commentsCount")
		}
		opts.SortBy = bsonKey
	}
	switch sortOrder := c.QueryParam("sortOrder"); sortOrder {
	case "", "asc", "desc":
		opts.SortOrder = sortOrder
	default:
		return opts, apperrors.Validation("sortOrder must be asc or desc")
	}

	if tags := c.QueryParam("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}
	return opts, nil
}

func (h *PostHandler) list(c echo.Context, opts repositories.PostListOptions, message string) error {
	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), opts)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return err
	}
	return respondList(c, message, "posts", posts, models.NewPagination(opts.Page, opts.Limit, total))
}
