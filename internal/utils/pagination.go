package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/constants"
)

// PaginationParams is a page request after clamping
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetPaginationParams reads page and limit from the query string. A limit
// above maxLimit is clamped to it; a missing or non-positive limit falls
// back to the default page size.
func GetPaginationParams(c *gin.Context, maxLimit int) PaginationParams {
	if maxLimit < constants.MinPageSize {
		maxLimit = constants.MaxPageSize
	}
	defaultLimit := min(constants.DefaultPageSize, maxLimit)

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < constants.MinPageSize {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages is the number of pages needed for total rows
func (p PaginationParams) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// HasMore reports whether rows remain after this page
func (p PaginationParams) HasMore(total int64) bool {
	return int64(p.Offset+p.Limit) < total
}
