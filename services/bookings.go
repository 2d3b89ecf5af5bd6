package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"event-marketplace-server/models"
)

// BookingService owns the direct-booking lifecycle: creation with the slot
// collision guard, the provider accept/decline step and the generic status
// transitions available to both parties.
type BookingService struct {
	db       *gorm.DB
	notifier *Notifier
	locks    SlotLocker
	failOpen bool
}

// NewBookingService wires the service. onLookupFailure is "proceed" or
// "reject" and decides what a failed collision-check read does.
func NewBookingService(db *gorm.DB, notifier *Notifier, locks SlotLocker, onLookupFailure string) *BookingService {
	if locks == nil {
		locks = NoopLocker{}
	}
	return &BookingService{
		db:       db,
		notifier: notifier,
		locks:    locks,
		failOpen: onLookupFailure != "reject",
	}
}

// CreateDirect books a service for a specific date and time slot. The slot
// must not already be claimed by an active booking for the same service or
// provider; an empty event time claims the whole day.
func (s *BookingService) CreateDirect(ctx context.Context, customerID uint, input models.BookingCreate) (*models.Booking, error) {
	var missing []string
	if input.ServiceID == 0 {
		missing = append(missing, "service_id")
	}
	if input.ProviderID == 0 {
		missing = append(missing, "provider_id")
	}
	if input.EventDate == "" {
		missing = append(missing, "event_date")
	}
	if input.Location == "" {
		missing = append(missing, "location")
	}
	if input.Budget <= 0 {
		missing = append(missing, "budget")
	}
	if len(missing) > 0 {
		return nil, ErrValidation("Missing required fields: %s", strings.Join(missing, ", "))
	}

	booking := models.Booking{
		CustomerID:   customerID,
		ProviderID:   input.ProviderID,
		ServiceID:    input.ServiceID,
		EventName:    input.EventName,
		EventType:    input.EventType,
		EventDate:    input.EventDate,
		EventTime:    models.NormalizeEventTime(input.EventTime),
		Location:     input.Location,
		Budget:       input.Budget,
		GuestCount:   input.GuestCount,
		Requirements: input.Requirements,
		Price:        input.Budget,
		Status:       models.BookingStatusPending,
	}

	// Best-effort enrichment; a failed lookup is logged and the booking
	// proceeds with blank enrichment fields.
	var service models.Service
	if err := s.db.First(&service, input.ServiceID).Error; err != nil {
		log.Printf("⚠️ Could not load service %d for booking enrichment: %v", input.ServiceID, err)
	} else {
		booking.ServiceName = service.Name
		booking.ServiceCategory = service.Category
	}
	var provider models.User
	if err := s.db.First(&provider, input.ProviderID).Error; err != nil {
		log.Printf("⚠️ Could not load provider %d for booking enrichment: %v", input.ProviderID, err)
	} else {
		booking.ProviderName = provider.FullName
		booking.ProviderRole = string(provider.Role)
	}

	// Serialize writers on both halves of the conflict domain: a slot is
	// contested per service and per provider, so one key alone would let two
	// bookings for the same provider through different services race. Keys are
	// always taken in the same order. Lock acquisition failure other than
	// contention is logged and ignored so Redis outages do not block bookings.
	slot := fmt.Sprintf("%s:%s", input.EventDate, booking.NormalizedTime())
	for _, lockKey := range []string{
		fmt.Sprintf("booking:service:%d:%s", input.ServiceID, slot),
		fmt.Sprintf("booking:provider:%d:%s", input.ProviderID, slot),
	} {
		release, err := s.locks.Acquire(ctx, lockKey)
		if err != nil {
			if errors.Is(err, ErrSlotBusy) {
				return nil, ErrConflict("This time slot is currently being booked by someone else")
			}
			log.Printf("⚠️ Slot lock unavailable for %s, proceeding unlocked: %v", lockKey, err)
			release = func() {}
		}
		defer release()
	}

	conflict, err := s.slotTaken(&booking)
	if err != nil {
		if !s.failOpen {
			return nil, ErrInternal("Could not verify slot availability", err)
		}
		log.Printf("⚠️ Collision check failed for booking on %s, proceeding fail-open: %v", input.EventDate, err)
	}
	if conflict {
		return nil, ErrConflict("This time slot is already booked")
	}

	if err := s.db.Create(&booking).Error; err != nil {
		return nil, ErrInternal("Failed to create booking", err)
	}

	s.notifier.Notify(booking.ProviderID, "new_booking_request",
		"New Booking Request",
		fmt.Sprintf("You have a new booking request for %s on %s", booking.ServiceName, booking.EventDate),
		map[string]interface{}{"booking_id": booking.ID, "event_date": booking.EventDate})

	return &booking, nil
}

// slotTaken loads every booking touching this service or provider and scans
// for an active one claiming the same date and normalized time. Two empty
// times on the same date collide as whole-day bookings.
func (s *BookingService) slotTaken(candidate *models.Booking) (bool, error) {
	var existing []models.Booking
	if err := s.db.Where("service_id = ? OR provider_id = ?", candidate.ServiceID, candidate.ProviderID).
		Find(&existing).Error; err != nil {
		return false, err
	}

	candidateTime := candidate.NormalizedTime()
	for i := range existing {
		other := &existing[i]
		if !isActiveStatus(other.Status) {
			continue
		}
		if other.ServiceID != candidate.ServiceID && other.ProviderID != candidate.ProviderID {
			continue
		}
		if other.EventDate != candidate.EventDate {
			continue
		}
		otherTime := other.NormalizedTime()
		if otherTime == candidateTime || (otherTime == "" && candidateTime == "") {
			return true, nil
		}
	}
	return false, nil
}

func isActiveStatus(status models.BookingStatus) bool {
	for _, active := range models.ActiveBookingStatuses {
		if status == active {
			return true
		}
	}
	return false
}

// Respond lets the owning provider accept or decline a pending booking.
func (s *BookingService) Respond(providerID, bookingID uint, action string, notes *string) (*models.Booking, error) {
	if action != "accepted" && action != "declined" {
		return nil, ErrValidation("Status must be 'accepted' or 'declined'")
	}

	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, ErrNotFound("Booking %d not found", bookingID)
	}
	if booking.ProviderID != providerID {
		return nil, ErrForbidden("You can only respond to your own bookings")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrInvalidState("Booking is %s, only pending bookings can be responded to", booking.Status)
	}

	newStatus := models.BookingStatusConfirmed
	if action == "declined" {
		newStatus = models.BookingStatusDeclined
	}

	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": time.Now(),
	}
	if notes != nil {
		updates["notes"] = notes
	}
	if err := s.db.Model(&booking).Updates(updates).Error; err != nil {
		return nil, ErrInternal("Failed to update booking status", err)
	}
	booking.Status = newStatus
	if notes != nil {
		booking.Notes = notes
	}

	title, message, ntype := bookingResponseMessage(newStatus, booking.EventDate)
	s.notifier.Notify(booking.CustomerID, ntype, title, message,
		map[string]interface{}{"booking_id": booking.ID, "status": string(newStatus)})

	return &booking, nil
}

func bookingResponseMessage(status models.BookingStatus, eventDate string) (string, string, string) {
	if status == models.BookingStatusConfirmed {
		return "Booking Confirmed",
			fmt.Sprintf("Your booking for %s has been confirmed by the provider", eventDate),
			"booking_confirmed"
	}
	return "Booking Declined",
		fmt.Sprintf("Your booking for %s has been declined by the provider", eventDate),
		"booking_declined"
}

// allowedTransitions for the generic status update endpoint.
var allowedTransitions = map[models.BookingStatus]bool{
	models.BookingStatusConfirmed:  true,
	models.BookingStatusInProgress: true,
	models.BookingStatusCompleted:  true,
	models.BookingStatusCancelled:  true,
}

// UpdateStatus is the generic transition available to both parties.
// Customers may only touch their own bookings; every other role is treated
// as the provider side.
func (s *BookingService) UpdateStatus(actorID uint, role models.UserRole, bookingID uint, status models.BookingStatus, notes *string) (*models.Booking, error) {
	if !allowedTransitions[status] {
		return nil, ErrValidation("Invalid status '%s'", status)
	}

	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, ErrNotFound("Booking %d not found", bookingID)
	}

	if role == models.RoleCustomer {
		if booking.CustomerID != actorID {
			return nil, ErrForbidden("You can only update your own bookings")
		}
	} else if booking.ProviderID != actorID {
		return nil, ErrForbidden("You can only update bookings assigned to you")
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if notes != nil {
		updates["notes"] = notes
	}
	if err := s.db.Model(&booking).Updates(updates).Error; err != nil {
		return nil, ErrInternal("Failed to update booking status", err)
	}
	booking.Status = status

	// Notify whichever party did not make the change
	recipient := booking.CustomerID
	if role == models.RoleCustomer {
		recipient = booking.ProviderID
	}
	s.notifier.Notify(recipient, "booking_"+string(status),
		"Booking Update",
		fmt.Sprintf("Booking for %s is now %s", booking.EventDate, status),
		map[string]interface{}{"booking_id": booking.ID, "status": string(status)})

	return &booking, nil
}

// Get returns a booking visible to either party.
func (s *BookingService) Get(actorID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, ErrNotFound("Booking %d not found", bookingID)
	}
	if booking.CustomerID != actorID && booking.ProviderID != actorID {
		return nil, ErrForbidden("You are not part of this booking")
	}
	return &booking, nil
}

// ListForCustomer returns the customer's bookings, newest first.
func (s *BookingService) ListForCustomer(customerID uint, page, limit int) ([]models.Booking, int, error) {
	return s.list("customer_id = ?", customerID, page, limit)
}

// ListForProvider returns the provider's bookings, newest first.
func (s *BookingService) ListForProvider(providerID uint, page, limit int) ([]models.Booking, int, error) {
	return s.list("provider_id = ?", providerID, page, limit)
}

func (s *BookingService) list(query string, id uint, page, limit int) ([]models.Booking, int, error) {
	var bookings []models.Booking
	if err := s.db.Where(query, id).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, 0, ErrInternal("Failed to fetch bookings", err)
	}

	total := len(bookings)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return bookings[start:end], total, nil
}
