package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/respond"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func respondSuccess(c echo.Context, status int, message string, data interface{}) error {
	return respond.Success(c, status, message, data)
}

func respondList(c echo.Context, message, key string, items interface{}, p models.Pagination) error {
	return respond.List(c, message, key, items, p)
}

// parsePagination reads page/limit query params with clamped defaults.
func parsePagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
