package services

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"event-marketplace-server/models"
)

// RealtimePublisher pushes an event to a connected user. Implemented by the
// websocket hub; a nil publisher simply skips the push.
type RealtimePublisher interface {
	Push(userID uint, event string, payload interface{})
}

// Notifier creates durable notification rows and pushes a best-effort
// realtime copy. Every method swallows its own failures: a notification must
// never abort the operation that triggered it.
type Notifier struct {
	db        *gorm.DB
	publisher RealtimePublisher
}

func NewNotifier(db *gorm.DB, publisher RealtimePublisher) *Notifier {
	return &Notifier{db: db, publisher: publisher}
}

// Notify writes one notification and pushes it if the user is connected.
func (n *Notifier) Notify(userID uint, ntype, title, message string, data map[string]interface{}) {
	notification := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		Data:    encodePayload(data),
	}

	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("⚠️ Failed to create %s notification for user %d: %v", ntype, userID, err)
		return
	}

	if n.publisher != nil {
		n.publisher.Push(userID, ntype, notification)
	}
}

// NotifyMany fans one event out to many users in a single batched insert.
func (n *Notifier) NotifyMany(userIDs []uint, ntype, title, message string, data map[string]interface{}) {
	if len(userIDs) == 0 {
		return
	}

	payload := encodePayload(data)
	notifications := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, models.Notification{
			UserID:  id,
			Type:    ntype,
			Title:   title,
			Message: message,
			Data:    payload,
		})
	}

	if err := n.db.Create(&notifications).Error; err != nil {
		log.Printf("⚠️ Failed to fan out %s notification to %d users: %v", ntype, len(userIDs), err)
		return
	}

	if n.publisher != nil {
		for _, notification := range notifications {
			n.publisher.Push(notification.UserID, ntype, notification)
		}
	}
}

// List returns the user's notifications, newest first, paginated in memory.
func (n *Notifier) List(userID uint, page, limit int) ([]models.Notification, int, error) {
	var notifications []models.Notification
	if err := n.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, ErrInternal("Failed to fetch notifications", err)
	}

	total := len(notifications)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return notifications[start:end], total, nil
}

// MarkRead marks a single notification as read; only the recipient may do so.
func (n *Notifier) MarkRead(userID, notificationID uint) error {
	var notification models.Notification
	if err := n.db.First(&notification, notificationID).Error; err != nil {
		return ErrNotFound("Notification %d not found", notificationID)
	}
	if notification.UserID != userID {
		return ErrForbidden("You can only update your own notifications")
	}
	if notification.Read {
		return nil
	}

	now := time.Now()
	if err := n.db.Model(&notification).Updates(map[string]interface{}{
		"read":    true,
		"read_at": &now,
	}).Error; err != nil {
		return ErrInternal("Failed to mark notification as read", err)
	}
	return nil
}

// MarkAllRead marks every unread notification as read and returns how many
// rows changed; a second call in a row returns 0.
func (n *Notifier) MarkAllRead(userID uint) (int64, error) {
	now := time.Now()
	result := n.db.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	if result.Error != nil {
		return 0, ErrInternal("Failed to mark notifications as read", result.Error)
	}
	return result.RowsAffected, nil
}

// UnreadCount returns the number of unread notifications.
func (n *Notifier) UnreadCount(userID uint) (int64, error) {
	var count int64
	if err := n.db.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, ErrInternal("Failed to count notifications", err)
	}
	return count, nil
}

func encodePayload(data map[string]interface{}) string {
	if len(data) == 0 {
		return ""
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		log.Printf("⚠️ Failed to encode notification payload: %v", err)
		return ""
	}
	return string(encoded)
}
