package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusDeclined   BookingStatus = "declined"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that occupy a time slot for
// collision purposes.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

type Booking struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	CustomerID   uint          `json:"customer_id" gorm:"not null;index"`
	ProviderID   uint          `json:"provider_id" gorm:"not null;index"`
	ServiceID    uint          `json:"service_id" gorm:"not null;index"`
	EventName    string        `json:"event_name" gorm:"size:200"`
	EventType    string        `json:"event_type" gorm:"size:100"`
	EventDate    string        `json:"event_date" gorm:"size:20;not null"` // calendar date, YYYY-MM-DD
	EventTime    string        `json:"event_time" gorm:"size:20"`          // HH:MM, empty means whole day
	Location     string        `json:"location" gorm:"size:500;not null"`
	Budget       float64       `json:"budget" gorm:"type:decimal(10,2);not null"`
	GuestCount   int           `json:"guest_count"`
	Requirements string        `json:"requirements" gorm:"type:text"`
	Price        float64       `json:"price" gorm:"type:decimal(10,2)"`
	Status       BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Notes        *string       `json:"notes" gorm:"size:1000"`

	// Best-effort enrichment captured at creation time
	ServiceName     string `json:"service_name" gorm:"size:200"`
	ServiceCategory string `json:"service_category" gorm:"size:100"`
	ProviderName    string `json:"provider_name" gorm:"size:255"`
	ProviderRole    string `json:"provider_role" gorm:"size:20"`

	// Set when the booking was created by accepting a bid, so the
	// reconciliation job can tell repaired and original bookings apart.
	BidRequestID *uint `json:"bid_request_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// NormalizedTime reduces the stored event time to HH:MM; an empty result
// means the booking claims the whole day.
func (b *Booking) NormalizedTime() string {
	return NormalizeEventTime(b.EventTime)
}

// NormalizeEventTime truncates a time string to its HH:MM prefix.
func NormalizeEventTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// BookingCreate represents the request structure for a direct booking
type BookingCreate struct {
	ServiceID    uint    `json:"service_id"`
	ProviderID   uint    `json:"provider_id"`
	EventName    string  `json:"event_name"`
	EventType    string  `json:"event_type"`
	EventDate    string  `json:"event_date"`
	EventTime    string  `json:"event_time"`
	Location     string  `json:"location"`
	Budget       float64 `json:"budget"`
	GuestCount   int     `json:"guest_count"`
	Requirements string  `json:"requirements"`
}
