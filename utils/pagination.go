package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageParams reads ?page= and ?limit= with sane bounds. Lists are fetched in
// full and sliced in memory, so limit is capped to keep responses small.
func PageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
