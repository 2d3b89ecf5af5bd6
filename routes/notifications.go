package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/services"
	"event-marketplace-server/utils"
)

// NotificationHandler exposes the user's notification feed.
type NotificationHandler struct {
	notifier *services.Notifier
}

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(router *gin.RouterGroup, notifier *services.Notifier) {
	h := &NotificationHandler{notifier: notifier}

	router.GET("", h.list)
	router.GET("/unread-count", h.unreadCount)
	router.PATCH("/:id/read", h.markRead)
	router.PATCH("/read-all", h.markAllRead)
}

func (h *NotificationHandler) list(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, limit := utils.PageParams(c)

	notifications, total, err := h.notifier.List(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Notifications fetched", notifications, page, limit, total)
}

func (h *NotificationHandler) unreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	count, err := h.notifier.UnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Unread count fetched",
		"data":    gin.H{"unread_count": count},
	})
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	userID := c.GetUint("user_id")
	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid notification id"})
		return
	}

	if svcErr := h.notifier.MarkRead(userID, uint(notificationID)); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read",
		"data":    gin.H{"id": notificationID},
	})
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	updated, err := h.notifier.MarkAllRead(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"data":    gin.H{"updated_count": updated},
	})
}
