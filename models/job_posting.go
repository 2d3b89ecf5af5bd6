package models

import (
	"time"
)

type JobPostingStatus string

const (
	JobPostingStatusActive JobPostingStatus = "active"
	JobPostingStatusClosed JobPostingStatus = "closed"
)

// JobPosting is a freelancer-visible job derived from a bid request that
// does not need a whole team. PosterID is the id of whoever opened the
// triggering request, usually a customer. The unique BidRequestID keeps
// backfill idempotent.
type JobPosting struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	PosterID     uint             `json:"poster_id" gorm:"not null;index"`
	Title        string           `json:"title" gorm:"size:200;not null"`
	Description  string           `json:"description" gorm:"type:text"`
	Category     string           `json:"category" gorm:"size:100"`
	Location     string           `json:"location" gorm:"size:500"`
	HourlyRate   *float64         `json:"hourly_rate" gorm:"type:decimal(10,2)"`
	Duration     string           `json:"duration" gorm:"size:100"`
	Requirements string           `json:"requirements" gorm:"type:text"`
	StartDate    string           `json:"start_date" gorm:"size:20"`
	EndDate      string           `json:"end_date" gorm:"size:20"`
	Status       JobPostingStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	BidRequestID *uint            `json:"bid_request_id" gorm:"uniqueIndex"`
	CreatedAt    time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the JobPosting model
func (JobPosting) TableName() string {
	return "job_postings"
}
