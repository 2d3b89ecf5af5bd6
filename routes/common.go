package routes

import (
	"github.com/gin-gonic/gin"

	"event-marketplace-server/services"
)

// respondError maps any service error to the {error, message} envelope with
// its HTTP status. Unexpected errors surface their raw message as a 500.
func respondError(c *gin.Context, err error) {
	appErr := services.AsAppError(err)
	c.JSON(appErr.HTTPStatus, gin.H{
		"error":   string(appErr.Code),
		"message": appErr.Message,
	})
}

// respondList is the envelope for paginated list endpoints.
func respondList(c *gin.Context, message string, data interface{}, page, limit, total int) {
	c.JSON(200, gin.H{
		"message": message,
		"data":    data,
		"page":    page,
		"limit":   limit,
		"total":   total,
	})
}
