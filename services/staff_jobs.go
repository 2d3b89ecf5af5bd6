package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"event-marketplace-server/models"
)

// StaffJobService owns staff job postings and jobseeker applications.
type StaffJobService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewStaffJobService(db *gorm.DB, notifier *Notifier) *StaffJobService {
	return &StaffJobService{db: db, notifier: notifier}
}

// Post publishes a staff job with 1 to 100 spots at a future date.
func (s *StaffJobService) Post(providerID uint, input models.StaffJobCreate) (*models.StaffJob, error) {
	var missing []string
	if input.JobName == "" {
		missing = append(missing, "job_name")
	}
	if input.DateTime == "" {
		missing = append(missing, "date_time")
	}
	if len(missing) > 0 {
		return nil, ErrValidation("Missing required fields: %s", strings.Join(missing, ", "))
	}

	dateTime, err := time.Parse(time.RFC3339, input.DateTime)
	if err != nil {
		return nil, ErrValidation("date_time must be a valid RFC3339 timestamp")
	}
	if !dateTime.After(time.Now()) {
		return nil, ErrValidation("date_time must be in the future")
	}
	var endDateTime *time.Time
	if input.EndDateTime != "" {
		end, err := time.Parse(time.RFC3339, input.EndDateTime)
		if err != nil {
			return nil, ErrValidation("end_date_time must be a valid RFC3339 timestamp")
		}
		endDateTime = &end
	}
	if input.Pay <= 0 {
		return nil, ErrValidation("pay must be positive")
	}
	if input.SpotsNeeded < 1 || input.SpotsNeeded > 100 {
		return nil, ErrValidation("spots_needed must be between 1 and 100")
	}

	job := models.StaffJob{
		ProviderID:  providerID,
		JobName:     input.JobName,
		DateTime:    dateTime,
		EndDateTime: endDateTime,
		Pay:         input.Pay,
		SpotsNeeded: input.SpotsNeeded,
		Status:      models.StaffJobStatusActive,
	}
	if err := s.db.Create(&job).Error; err != nil {
		return nil, ErrInternal("Failed to create staff job", err)
	}
	return &job, nil
}

// ListAvailable returns active future jobs that still have open spots.
func (s *StaffJobService) ListAvailable(page, limit int) ([]models.StaffJob, int, error) {
	var jobs []models.StaffJob
	if err := s.db.Where("status = ? AND date_time > ?", models.StaffJobStatusActive, time.Now()).
		Order("date_time ASC").Find(&jobs).Error; err != nil {
		return nil, 0, ErrInternal("Failed to fetch staff jobs", err)
	}

	open := jobs[:0]
	for _, job := range jobs {
		if job.HasOpenSpots() {
			open = append(open, job)
		}
	}

	total := len(open)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return open[start:end], total, nil
}

// ListMine returns the provider's own jobs.
func (s *StaffJobService) ListMine(providerID uint, page, limit int) ([]models.StaffJob, int, error) {
	var jobs []models.StaffJob
	if err := s.db.Where("provider_id = ?", providerID).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, 0, ErrInternal("Failed to fetch staff jobs", err)
	}
	total := len(jobs)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return jobs[start:end], total, nil
}

// Apply records a jobseeker's application; one per jobseeker per job.
func (s *StaffJobService) Apply(jobseekerID, jobID uint) (*models.StaffApplication, error) {
	var job models.StaffJob
	if err := s.db.First(&job, jobID).Error; err != nil {
		return nil, ErrNotFound("Staff job %d not found", jobID)
	}
	if job.Status != models.StaffJobStatusActive {
		return nil, ErrInvalidState("This job is no longer accepting applications")
	}

	var count int64
	if err := s.db.Model(&models.StaffApplication{}).
		Where("job_id = ? AND jobseeker_id = ?", jobID, jobseekerID).
		Count(&count).Error; err != nil {
		return nil, ErrInternal("Failed to check existing applications", err)
	}
	if count > 0 {
		return nil, ErrConflict("You have already applied to this job")
	}

	application := models.StaffApplication{
		JobID:       jobID,
		JobseekerID: jobseekerID,
		ProviderID:  job.ProviderID,
		Status:      models.ApplicationStatusPending,
	}
	if err := s.db.Create(&application).Error; err != nil {
		return nil, ErrInternal("Failed to create application", err)
	}

	if err := s.db.Model(&job).Update("spots_applied", gorm.Expr("spots_applied + 1")).Error; err != nil {
		log.Printf("⚠️ Failed to bump spots_applied for job %d: %v", jobID, err)
	}

	s.notifier.Notify(job.ProviderID, "new_application",
		"New Staff Application",
		fmt.Sprintf("A jobseeker applied to %s", job.JobName),
		map[string]interface{}{"job_id": jobID, "application_id": application.ID})

	return &application, nil
}

// Approve accepts an application while spots remain, bumping the approved
// counter and telling the applicant.
func (s *StaffJobService) Approve(providerID, applicationID uint) (*models.StaffApplication, error) {
	var application models.StaffApplication
	if err := s.db.Preload("Job").First(&application, applicationID).Error; err != nil {
		return nil, ErrNotFound("Application %d not found", applicationID)
	}
	if application.ProviderID != providerID {
		return nil, ErrForbidden("You can only approve applications for your own jobs")
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, ErrInvalidState("Application is already %s", application.Status)
	}
	if !application.Job.HasOpenSpots() {
		return nil, ErrInvalidState("All %d spots for this job are filled", application.Job.SpotsNeeded)
	}

	if err := s.db.Model(&application).Update("status", models.ApplicationStatusApproved).Error; err != nil {
		return nil, ErrInternal("Failed to approve application", err)
	}
	application.Status = models.ApplicationStatusApproved

	if err := s.db.Model(&application.Job).Update("spots_approved", gorm.Expr("spots_approved + 1")).Error; err != nil {
		log.Printf("⚠️ Failed to bump spots_approved for job %d: %v", application.JobID, err)
	}

	s.notifier.Notify(application.JobseekerID, "application_approved",
		"Application Approved",
		fmt.Sprintf("You were approved for %s", application.Job.JobName),
		map[string]interface{}{"job_id": application.JobID, "application_id": application.ID})

	return &application, nil
}

// Disapprove marks an application as disapproved; counters are untouched.
func (s *StaffJobService) Disapprove(providerID, applicationID uint) (*models.StaffApplication, error) {
	var application models.StaffApplication
	if err := s.db.First(&application, applicationID).Error; err != nil {
		return nil, ErrNotFound("Application %d not found", applicationID)
	}
	if application.ProviderID != providerID {
		return nil, ErrForbidden("You can only manage applications for your own jobs")
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, ErrInvalidState("Application is already %s", application.Status)
	}

	if err := s.db.Model(&application).Update("status", models.ApplicationStatusDisapproved).Error; err != nil {
		return nil, ErrInternal("Failed to disapprove application", err)
	}
	application.Status = models.ApplicationStatusDisapproved
	return &application, nil
}

// Delete removes a job and cascades to its applications with sequential,
// individually logged deletes.
func (s *StaffJobService) Delete(providerID, jobID uint) error {
	var job models.StaffJob
	if err := s.db.First(&job, jobID).Error; err != nil {
		return ErrNotFound("Staff job %d not found", jobID)
	}
	if job.ProviderID != providerID {
		return ErrForbidden("You can only delete your own jobs")
	}

	if err := s.db.Where("job_id = ?", jobID).Delete(&models.StaffApplication{}).Error; err != nil {
		log.Printf("❌ Failed to cascade-delete applications for job %d: %v", jobID, err)
		return ErrInternal("Failed to delete applications", err)
	}
	if err := s.db.Delete(&job).Error; err != nil {
		return ErrInternal("Failed to delete staff job", err)
	}
	log.Printf("🗑️ Staff job %d and its applications deleted", jobID)
	return nil
}
