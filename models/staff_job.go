package models

import (
	"time"
)

type StaffJobStatus string

const (
	StaffJobStatusActive StaffJobStatus = "active"
	StaffJobStatusClosed StaffJobStatus = "closed"
)

type StaffApplicationStatus string

const (
	ApplicationStatusPending     StaffApplicationStatus = "pending"
	ApplicationStatusApproved    StaffApplicationStatus = "approved"
	ApplicationStatusDisapproved StaffApplicationStatus = "disapproved"
)

// StaffJob is a provider's call for event staff with a fixed number of spots.
type StaffJob struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	ProviderID    uint           `json:"provider_id" gorm:"not null;index"`
	JobName       string         `json:"job_name" gorm:"size:200;not null"`
	DateTime      time.Time      `json:"date_time" gorm:"not null"`
	EndDateTime   *time.Time     `json:"end_date_time"`
	Pay           float64        `json:"pay" gorm:"type:decimal(10,2);not null"`
	SpotsNeeded   int            `json:"spots_needed" gorm:"not null"`
	SpotsApplied  int            `json:"spots_applied" gorm:"default:0"`
	SpotsApproved int            `json:"spots_approved" gorm:"default:0"`
	Status        StaffJobStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the StaffJob model
func (StaffJob) TableName() string {
	return "staff_jobs"
}

// HasOpenSpots reports whether more applications can still be approved
func (j *StaffJob) HasOpenSpots() bool {
	return j.SpotsApproved < j.SpotsNeeded
}

// StaffApplication records a jobseeker applying to a staff job; one per
// jobseeker per job.
type StaffApplication struct {
	ID          uint                   `json:"id" gorm:"primaryKey"`
	JobID       uint                   `json:"job_id" gorm:"not null;index"`
	JobseekerID uint                   `json:"jobseeker_id" gorm:"not null;index"`
	ProviderID  uint                   `json:"provider_id" gorm:"not null;index"`
	Status      StaffApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	AppliedAt   time.Time              `json:"applied_at" gorm:"autoCreateTime"`

	Job StaffJob `json:"job,omitempty" gorm:"foreignKey:JobID"`
}

// TableName specifies the table name for the StaffApplication model
func (StaffApplication) TableName() string {
	return "staff_applications"
}

// StaffJobCreate represents the request structure for posting a staff job
type StaffJobCreate struct {
	JobName     string  `json:"job_name"`
	DateTime    string  `json:"date_time"`     // RFC3339
	EndDateTime string  `json:"end_date_time"` // RFC3339, optional
	Pay         float64 `json:"pay"`
	SpotsNeeded int     `json:"spots_needed"`
}
