package websocket

import (
	"github.com/gin-gonic/gin"

	"event-marketplace-server/models"
)

// NotificationHandler exposes the realtime notification socket.
type NotificationHandler struct {
	hub *Hub
}

func NewNotificationHandler(hub *Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// Handle upgrades an authenticated request to a WebSocket connection.
// Runs behind WebSocketAuthMiddleware, which puts the user in the context.
func (h *NotificationHandler) Handle(c *gin.Context) {
	userID := c.GetUint("user_id")
	role, _ := c.Get("role")

	userRole := ""
	if r, ok := role.(models.UserRole); ok {
		userRole = string(r)
	}

	ServeWebSocket(h.hub, c.Writer, c.Request, userID, userRole)
}
