package models

import (
	"time"
)

type BidRequestStatus string

const (
	BidRequestStatusOpen    BidRequestStatus = "open"
	BidRequestStatusClosed  BidRequestStatus = "closed"
	BidRequestStatusAwarded BidRequestStatus = "awarded"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

// BidRequest is a customer's open call for providers to propose pricing
// for an event.
type BidRequest struct {
	ID                  uint             `json:"id" gorm:"primaryKey"`
	CustomerID          uint             `json:"customer_id" gorm:"not null;index"`
	EventName           string           `json:"event_name" gorm:"size:200;not null"`
	EventType           string           `json:"event_type" gorm:"size:100;not null"`
	EventDate           string           `json:"event_date" gorm:"size:20;not null"`
	Location            string           `json:"location" gorm:"size:500;not null"`
	Budget              *float64         `json:"budget" gorm:"type:decimal(10,2)"`
	GuestCount          int              `json:"guest_count"`
	Requirements        string           `json:"requirements" gorm:"type:text"`
	ServicesNeeded      []string         `json:"services_needed" gorm:"serializer:json"`
	PreferredCategories []string         `json:"preferred_categories" gorm:"serializer:json"`
	NeedWholeTeam       bool             `json:"need_whole_team"`
	Status              BidRequestStatus `json:"status" gorm:"type:varchar(20);default:'open'"`
	CreatedAt           time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time        `json:"updated_at" gorm:"autoUpdateTime"`

	Bids []Bid `json:"bids" gorm:"foreignKey:BidRequestID"`
}

// TableName specifies the table name for the BidRequest model
func (BidRequest) TableName() string {
	return "bid_requests"
}

// AcceptedBid returns the accepted bid, if any.
func (r *BidRequest) AcceptedBid() *Bid {
	for i := range r.Bids {
		if r.Bids[i].Status == BidStatusAccepted {
			return &r.Bids[i]
		}
	}
	return nil
}

// HasBidFrom reports whether the provider already submitted a bid.
func (r *BidRequest) HasBidFrom(providerID uint) bool {
	for i := range r.Bids {
		if r.Bids[i].ProviderID == providerID {
			return true
		}
	}
	return false
}

// Bid is a provider's proposal on a bid request. BidID is the external
// identifier derived from the provider and submission time; the numeric
// primary key is internal.
type Bid struct {
	ID                 uint      `json:"-" gorm:"primaryKey"`
	BidRequestID       uint      `json:"bid_request_id" gorm:"not null;index"`
	BidID              string    `json:"bid_id" gorm:"size:100;not null;index"`
	ProviderID         uint      `json:"provider_id" gorm:"not null;index"`
	ProviderName       string    `json:"provider_name" gorm:"size:255"`
	ProviderRole       string    `json:"provider_role" gorm:"size:20"`
	Price              float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Description        string    `json:"description" gorm:"type:text;not null"`
	EstimatedTime      string    `json:"estimated_time" gorm:"size:100"`
	AdditionalServices string    `json:"additional_services" gorm:"type:text"`
	Status             BidStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	SubmittedAt        time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Bid model
func (Bid) TableName() string {
	return "bids"
}

// BidRequestCreate represents the request structure for opening a bid request
type BidRequestCreate struct {
	EventName           string   `json:"event_name"`
	EventType           string   `json:"event_type"`
	EventDate           string   `json:"event_date"`
	Location            string   `json:"location"`
	Budget              *float64 `json:"budget"`
	GuestCount          int      `json:"guest_count"`
	Requirements        string   `json:"requirements"`
	ServicesNeeded      []string `json:"services_needed"`
	PreferredCategories []string `json:"preferred_categories"`
	NeedWholeTeam       bool     `json:"need_whole_team"`
}

// BidCreate represents the request structure for submitting a bid
type BidCreate struct {
	Price              float64 `json:"price"`
	Description        string  `json:"description"`
	EstimatedTime      string  `json:"estimated_time"`
	AdditionalServices string  `json:"additional_services"`
}
