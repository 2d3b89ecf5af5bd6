package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"event-marketplace-server/models"
)

type bookingFixture struct {
	db       *gorm.DB
	svc      *BookingService
	customer *models.User
	provider *models.User
	service  *models.Service
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := newTestDB(t)
	customer := createUser(t, db, "alice", models.RoleCustomer, true)
	provider := createUser(t, db, "bob-catering", models.RoleCaterer, true)
	service := createService(t, db, provider.ID, "Wedding Catering", "wedding")

	return &bookingFixture{
		db:       db,
		svc:      NewBookingService(db, NewNotifier(db, nil), nil, "proceed"),
		customer: customer,
		provider: provider,
		service:  service,
	}
}

func (f *bookingFixture) validBooking() models.BookingCreate {
	return models.BookingCreate{
		ServiceID:  f.service.ID,
		ProviderID: f.provider.ID,
		EventName:  "Summer Wedding",
		EventType:  "wedding",
		EventDate:  "2025-06-01",
		EventTime:  "14:00",
		Location:   "Riverside Hall",
		Budget:     1000,
		GuestCount: 80,
	}
}

func TestCreateDirectBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())
	if err != nil {
		t.Fatalf("CreateDirect failed: %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Errorf("status = %s, want pending", booking.Status)
	}
	if booking.ServiceName != "Wedding Catering" || booking.ProviderName != "bob-catering" {
		t.Errorf("enrichment missing: service=%q provider=%q", booking.ServiceName, booking.ProviderName)
	}

	got := notificationsFor(t, f.db, f.provider.ID, "new_booking_request")
	if len(got) != 1 {
		t.Errorf("provider notifications = %d, want 1", len(got))
	}
}

func TestCreateDirectBookingMissingFields(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateDirect(context.Background(), f.customer.ID, models.BookingCreate{})
	e := appErr(t, err)
	if e.Code != CodeValidation || e.HTTPStatus != http.StatusBadRequest {
		t.Errorf("got %s/%d, want VALIDATION_ERROR/400", e.Code, e.HTTPStatus)
	}
}

func TestCreateDirectBookingEnrichmentFailOpen(t *testing.T) {
	f := newBookingFixture(t)
	input := f.validBooking()
	input.ServiceID = 9999 // no such service

	booking, err := f.svc.CreateDirect(context.Background(), f.customer.ID, input)
	if err != nil {
		t.Fatalf("CreateDirect should proceed despite failed enrichment: %v", err)
	}
	if booking.ServiceName != "" {
		t.Errorf("service name = %q, want blank", booking.ServiceName)
	}
}

func TestBookingSlotConflict(t *testing.T) {
	f := newBookingFixture(t)
	other := createUser(t, f.db, "carla", models.RoleCustomer, true)

	if _, err := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := f.svc.CreateDirect(context.Background(), other.ID, f.validBooking())
	e := appErr(t, err)
	if e.Code != CodeConflict || e.HTTPStatus != http.StatusConflict {
		t.Errorf("got %s/%d, want CONFLICT/409", e.Code, e.HTTPStatus)
	}
}

func TestBookingWholeDayConflict(t *testing.T) {
	f := newBookingFixture(t)

	first := f.validBooking()
	first.EventTime = ""
	if _, err := f.svc.CreateDirect(context.Background(), f.customer.ID, first); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	second := f.validBooking()
	second.EventTime = ""
	if _, err := f.svc.CreateDirect(context.Background(), f.customer.ID, second); err == nil {
		t.Fatal("two whole-day bookings on the same date should conflict")
	}
}

func TestBookingDifferentTimeNoConflict(t *testing.T) {
	f := newBookingFixture(t)

	if _, err := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	second := f.validBooking()
	second.EventTime = "19:30:00" // normalizes to 19:30
	if _, err := f.svc.CreateDirect(context.Background(), f.customer.ID, second); err != nil {
		t.Fatalf("different time slot should not conflict: %v", err)
	}
}

func TestBookingInactiveStatusFreesSlot(t *testing.T) {
	f := newBookingFixture(t)

	first, err := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if err := f.db.Model(first).Update("status", models.BookingStatusCancelled).Error; err != nil {
		t.Fatalf("failed to cancel booking: %v", err)
	}

	if _, err := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking()); err != nil {
		t.Fatalf("cancelled booking should not block the slot: %v", err)
	}
}

func TestBookingRoundTrip(t *testing.T) {
	f := newBookingFixture(t)

	created, err := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())
	if err != nil {
		t.Fatalf("CreateDirect failed: %v", err)
	}

	fetched, err := f.svc.Get(f.customer.ID, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.CustomerID != created.CustomerID ||
		fetched.ProviderID != created.ProviderID ||
		fetched.ServiceID != created.ServiceID ||
		fetched.EventDate != created.EventDate ||
		fetched.Budget != created.Budget {
		t.Errorf("round trip mismatch: got %+v, want %+v", fetched, created)
	}
}

func TestProviderDeclineBooking(t *testing.T) {
	f := newBookingFixture(t)

	created, err := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())
	if err != nil {
		t.Fatalf("CreateDirect failed: %v", err)
	}

	updated, err := f.svc.Respond(f.provider.ID, created.ID, "declined", nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if updated.Status != models.BookingStatusDeclined {
		t.Errorf("status = %s, want declined", updated.Status)
	}

	got := notificationsFor(t, f.db, f.customer.ID, "booking_declined")
	if len(got) != 1 {
		t.Errorf("customer booking_declined notifications = %d, want 1", len(got))
	}
}

func TestProviderAcceptMapsToConfirmed(t *testing.T) {
	f := newBookingFixture(t)

	created, _ := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())
	updated, err := f.svc.Respond(f.provider.ID, created.ID, "accepted", nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if updated.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
}

func TestRespondChecks(t *testing.T) {
	f := newBookingFixture(t)
	created, _ := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())

	if _, err := f.svc.Respond(f.provider.ID, 9999, "accepted", nil); AsAppError(err).Code != CodeNotFound {
		t.Error("missing booking should be NOT_FOUND")
	}
	if _, err := f.svc.Respond(f.customer.ID, created.ID, "accepted", nil); AsAppError(err).Code != CodeForbidden {
		t.Error("non-owner provider should be FORBIDDEN")
	}
	if _, err := f.svc.Respond(f.provider.ID, created.ID, "maybe", nil); AsAppError(err).Code != CodeValidation {
		t.Error("unknown action should be VALIDATION_ERROR")
	}

	if _, err := f.svc.Respond(f.provider.ID, created.ID, "accepted", nil); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if _, err := f.svc.Respond(f.provider.ID, created.ID, "declined", nil); AsAppError(err).Code != CodeInvalidState {
		t.Error("responding twice should be INVALID_STATE")
	}
}

func TestUpdateStatusNotifiesOtherParty(t *testing.T) {
	f := newBookingFixture(t)
	created, _ := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())

	if _, err := f.svc.UpdateStatus(f.customer.ID, models.RoleCustomer, created.ID, models.BookingStatusCancelled, nil); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if got := notificationsFor(t, f.db, f.provider.ID, "booking_cancelled"); len(got) != 1 {
		t.Errorf("provider booking_cancelled notifications = %d, want 1", len(got))
	}
}

func TestUpdateStatusOwnership(t *testing.T) {
	f := newBookingFixture(t)
	stranger := createUser(t, f.db, "mallory", models.RoleCustomer, true)
	created, _ := f.svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())

	if _, err := f.svc.UpdateStatus(stranger.ID, models.RoleCustomer, created.ID, models.BookingStatusCancelled, nil); AsAppError(err).Code != CodeForbidden {
		t.Error("stranger customer should be FORBIDDEN")
	}
	if _, err := f.svc.UpdateStatus(stranger.ID, models.RoleCaterer, created.ID, models.BookingStatusCompleted, nil); AsAppError(err).Code != CodeForbidden {
		t.Error("stranger provider should be FORBIDDEN")
	}
	if _, err := f.svc.UpdateStatus(f.customer.ID, models.RoleCustomer, created.ID, models.BookingStatus("archived"), nil); AsAppError(err).Code != CodeValidation {
		t.Error("unknown status should be VALIDATION_ERROR")
	}
}

// recordingLocker captures acquired keys and can simulate a contended key.
type recordingLocker struct {
	keys []string
	busy string
}

func (l *recordingLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.keys = append(l.keys, key)
	if key == l.busy {
		return nil, ErrSlotBusy
	}
	return func() {}, nil
}

func TestCreateDirectLocksServiceAndProvider(t *testing.T) {
	f := newBookingFixture(t)
	locker := &recordingLocker{}
	svc := NewBookingService(f.db, NewNotifier(f.db, nil), locker, "proceed")

	if _, err := svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking()); err != nil {
		t.Fatalf("CreateDirect failed: %v", err)
	}

	want := []string{
		fmt.Sprintf("booking:service:%d:2025-06-01:14:00", f.service.ID),
		fmt.Sprintf("booking:provider:%d:2025-06-01:14:00", f.provider.ID),
	}
	if len(locker.keys) != len(want) {
		t.Fatalf("acquired keys = %v, want %v", locker.keys, want)
	}
	for i, key := range want {
		if locker.keys[i] != key {
			t.Errorf("key[%d] = %q, want %q", i, locker.keys[i], key)
		}
	}
}

func TestCreateDirectProviderLockContention(t *testing.T) {
	f := newBookingFixture(t)
	locker := &recordingLocker{
		busy: fmt.Sprintf("booking:provider:%d:2025-06-01:14:00", f.provider.ID),
	}
	svc := NewBookingService(f.db, NewNotifier(f.db, nil), locker, "proceed")

	_, err := svc.CreateDirect(context.Background(), f.customer.ID, f.validBooking())
	e := appErr(t, err)
	if e.Code != CodeConflict || e.HTTPStatus != http.StatusConflict {
		t.Errorf("contended provider slot = %s/%d, want CONFLICT/409", e.Code, e.HTTPStatus)
	}

	var count int64
	f.db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Errorf("bookings = %d, want 0 when the provider slot is contended", count)
	}
}
