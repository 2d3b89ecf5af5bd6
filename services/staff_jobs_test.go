package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"event-marketplace-server/models"
)

type staffFixture struct {
	db        *gorm.DB
	svc       *StaffJobService
	provider  *models.User
	jobseeker *models.User
}

func newStaffFixture(t *testing.T) *staffFixture {
	t.Helper()
	db := newTestDB(t)
	return &staffFixture{
		db:        db,
		svc:       NewStaffJobService(db, NewNotifier(db, nil)),
		provider:  createUser(t, db, "acme-events", models.RoleEventCompany, true, "wedding"),
		jobseeker: createUser(t, db, "sam", models.RoleJobseeker, true),
	}
}

func (f *staffFixture) validJob() models.StaffJobCreate {
	return models.StaffJobCreate{
		JobName:     "Wedding Waiter",
		DateTime:    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		Pay:         120,
		SpotsNeeded: 2,
	}
}

func TestPostStaffJob(t *testing.T) {
	f := newStaffFixture(t)

	job, err := f.svc.Post(f.provider.ID, f.validJob())
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if job.Status != models.StaffJobStatusActive {
		t.Errorf("status = %s, want active", job.Status)
	}
	if job.SpotsApplied != 0 || job.SpotsApproved != 0 {
		t.Errorf("counters should start at zero, got %d/%d", job.SpotsApplied, job.SpotsApproved)
	}
}

func TestPostStaffJobValidation(t *testing.T) {
	f := newStaffFixture(t)

	cases := []struct {
		name  string
		input models.StaffJobCreate
	}{
		{"missing name", models.StaffJobCreate{DateTime: time.Now().Add(time.Hour).Format(time.RFC3339), Pay: 1, SpotsNeeded: 1}},
		{"past date", models.StaffJobCreate{JobName: "x", DateTime: time.Now().Add(-time.Hour).Format(time.RFC3339), Pay: 1, SpotsNeeded: 1}},
		{"bad date", models.StaffJobCreate{JobName: "x", DateTime: "tomorrow", Pay: 1, SpotsNeeded: 1}},
		{"zero pay", models.StaffJobCreate{JobName: "x", DateTime: time.Now().Add(time.Hour).Format(time.RFC3339), Pay: 0, SpotsNeeded: 1}},
		{"zero spots", models.StaffJobCreate{JobName: "x", DateTime: time.Now().Add(time.Hour).Format(time.RFC3339), Pay: 1, SpotsNeeded: 0}},
		{"too many spots", models.StaffJobCreate{JobName: "x", DateTime: time.Now().Add(time.Hour).Format(time.RFC3339), Pay: 1, SpotsNeeded: 101}},
	}
	for _, tc := range cases {
		if _, err := f.svc.Post(f.provider.ID, tc.input); AsAppError(err).Code != CodeValidation {
			t.Errorf("%s: expected VALIDATION_ERROR", tc.name)
		}
	}
}

func TestApplyIncrementsOnce(t *testing.T) {
	f := newStaffFixture(t)
	job, _ := f.svc.Post(f.provider.ID, f.validJob())

	if _, err := f.svc.Apply(f.jobseeker.ID, job.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	_, err := f.svc.Apply(f.jobseeker.ID, job.ID)
	if e := appErr(t, err); e.Code != CodeConflict {
		t.Errorf("duplicate application code = %s, want CONFLICT", e.Code)
	}

	var reloaded models.StaffJob
	f.db.First(&reloaded, job.ID)
	if reloaded.SpotsApplied != 1 {
		t.Errorf("spots_applied = %d, want 1", reloaded.SpotsApplied)
	}
}

func TestApproveStopsAtCapacity(t *testing.T) {
	f := newStaffFixture(t)
	second := createUser(t, f.db, "pat", models.RoleJobseeker, true)

	input := f.validJob()
	input.SpotsNeeded = 1
	job, _ := f.svc.Post(f.provider.ID, input)

	appA, _ := f.svc.Apply(f.jobseeker.ID, job.ID)
	appB, _ := f.svc.Apply(second.ID, job.ID)

	if _, err := f.svc.Approve(f.provider.ID, appA.ID); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	if got := notificationsFor(t, f.db, f.jobseeker.ID, "application_approved"); len(got) != 1 {
		t.Errorf("applicant approval notifications = %d, want 1", len(got))
	}

	if _, err := f.svc.Approve(f.provider.ID, appB.ID); AsAppError(err).Code != CodeInvalidState {
		t.Error("approving past capacity should be INVALID_STATE")
	}

	var reloaded models.StaffJob
	f.db.First(&reloaded, job.ID)
	if reloaded.SpotsApproved != 1 {
		t.Errorf("spots_approved = %d, want 1", reloaded.SpotsApproved)
	}
}

func TestDisapproveLeavesCounters(t *testing.T) {
	f := newStaffFixture(t)
	job, _ := f.svc.Post(f.provider.ID, f.validJob())
	application, _ := f.svc.Apply(f.jobseeker.ID, job.ID)

	updated, err := f.svc.Disapprove(f.provider.ID, application.ID)
	if err != nil {
		t.Fatalf("Disapprove failed: %v", err)
	}
	if updated.Status != models.ApplicationStatusDisapproved {
		t.Errorf("status = %s, want disapproved", updated.Status)
	}

	var reloaded models.StaffJob
	f.db.First(&reloaded, job.ID)
	if reloaded.SpotsApproved != 0 {
		t.Errorf("spots_approved = %d, want 0", reloaded.SpotsApproved)
	}
}

func TestApproveOwnership(t *testing.T) {
	f := newStaffFixture(t)
	other := createUser(t, f.db, "rival-events", models.RoleEventCompany, true)
	job, _ := f.svc.Post(f.provider.ID, f.validJob())
	application, _ := f.svc.Apply(f.jobseeker.ID, job.ID)

	if _, err := f.svc.Approve(other.ID, application.ID); AsAppError(err).Code != CodeForbidden {
		t.Error("approving another provider's application should be FORBIDDEN")
	}
}

func TestDeleteJobCascades(t *testing.T) {
	f := newStaffFixture(t)
	job, _ := f.svc.Post(f.provider.ID, f.validJob())
	f.svc.Apply(f.jobseeker.ID, job.ID)

	if err := f.svc.Delete(f.provider.ID, job.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var applications int64
	f.db.Model(&models.StaffApplication{}).Where("job_id = ?", job.ID).Count(&applications)
	if applications != 0 {
		t.Errorf("applications after cascade delete = %d, want 0", applications)
	}
}

func TestListAvailableFiltersFullJobs(t *testing.T) {
	f := newStaffFixture(t)

	input := f.validJob()
	input.SpotsNeeded = 1
	job, _ := f.svc.Post(f.provider.ID, input)
	application, _ := f.svc.Apply(f.jobseeker.ID, job.ID)
	f.svc.Approve(f.provider.ID, application.ID)

	jobs, total, err := f.svc.ListAvailable(1, 20)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if total != 0 || len(jobs) != 0 {
		t.Errorf("full job should be hidden, got %d jobs", total)
	}
}
