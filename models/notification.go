package models

import (
	"time"
)

// Notification is the durable record of an event addressed to a user.
// Realtime push is a latency optimization on top of it, never a replacement.
type Notification struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"not null;index"`
	Type      string     `json:"type" gorm:"size:50;not null"` // new_booking_request, booking_confirmed, booking_declined, new_bid_request, new_bid, bid_accepted, bid_rejected, bid_request_deleted, application_approved, system
	Title     string     `json:"title" gorm:"size:200;not null"`
	Message   string     `json:"message" gorm:"type:text;not null"`
	Data      string     `json:"data" gorm:"type:text"` // JSON payload
	Read      bool       `json:"read" gorm:"default:false"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ReadAt    *time.Time `json:"read_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
