package handlers

import (
	"strconv"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// parsePagination reads page and limit query params, clamping them to
// sane bounds so a bad client cannot request page 0 or 10k rows.
func parsePagination(c *fiber.Ctx) (page, limit, offset int) {
	page = parsePositiveInt(c.Query("page"), 1)
	limit = parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
