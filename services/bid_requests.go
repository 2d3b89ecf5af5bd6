package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"event-marketplace-server/models"
)

// BidRequestService owns the bid-request lifecycle: creation with provider
// fan-out, bid submission, the accept/reject decision and deletion. The
// multi-row accept sequence is a fixed-order saga, not a transaction; a crash
// mid-sequence is repaired later by the reconciliation job.
type BidRequestService struct {
	db       *gorm.DB
	notifier *Notifier
	locks    SlotLocker
}

func NewBidRequestService(db *gorm.DB, notifier *Notifier, locks SlotLocker) *BidRequestService {
	if locks == nil {
		locks = NoopLocker{}
	}
	return &BidRequestService{db: db, notifier: notifier, locks: locks}
}

// Create opens a bid request. Matching providers are notified and, when the
// request targets freelancers rather than a whole team, a linked job posting
// is created for the freelancer job board.
func (s *BidRequestService) Create(customerID uint, input models.BidRequestCreate) (*models.BidRequest, error) {
	var missing []string
	if input.EventName == "" {
		missing = append(missing, "event_name")
	}
	if input.EventType == "" {
		missing = append(missing, "event_type")
	}
	if input.EventDate == "" {
		missing = append(missing, "event_date")
	}
	if input.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, ErrValidation("Missing required fields: %s", strings.Join(missing, ", "))
	}

	request := models.BidRequest{
		CustomerID:          customerID,
		EventName:           input.EventName,
		EventType:           input.EventType,
		EventDate:           input.EventDate,
		Location:            input.Location,
		Budget:              input.Budget,
		GuestCount:          input.GuestCount,
		Requirements:        input.Requirements,
		ServicesNeeded:      input.ServicesNeeded,
		PreferredCategories: input.PreferredCategories,
		NeedWholeTeam:       input.NeedWholeTeam,
		Status:              models.BidRequestStatusOpen,
		Bids:                []models.Bid{},
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, ErrInternal("Failed to create bid request", err)
	}

	// Side effects are best-effort; a failed fan-out or posting never fails
	// the created request.
	s.fanOut(&request)
	if !request.NeedWholeTeam {
		if err := s.ensureJobPosting(&request); err != nil {
			log.Printf("⚠️ Could not create job posting for bid request %d: %v", request.ID, err)
		}
	}

	return &request, nil
}

// fanOut notifies every matched provider about the new request in one
// batched write.
func (s *BidRequestService) fanOut(request *models.BidRequest) {
	providers, err := MatchProviders(s.db, request)
	if err != nil {
		log.Printf("⚠️ Provider matching failed for bid request %d: %v", request.ID, err)
		return
	}

	ids := make([]uint, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	s.notifier.NotifyMany(ids, "new_bid_request",
		"New Bid Request",
		fmt.Sprintf("A new %s event on %s is open for bids", request.EventType, request.EventDate),
		map[string]interface{}{"bid_request_id": request.ID, "event_type": request.EventType})

	log.Printf("📣 Bid request %d fanned out to %d providers", request.ID, len(ids))
}

// ensureJobPosting creates the freelancer-visible posting linked to the
// request. Keyed by bid_request_id so repeated backfills do not duplicate.
func (s *BidRequestService) ensureJobPosting(request *models.BidRequest) error {
	posting := models.JobPosting{
		PosterID:     request.CustomerID,
		Title:        request.EventName,
		Description:  request.Requirements,
		Category:     request.EventType,
		Location:     request.Location,
		HourlyRate:   request.Budget,
		Requirements: strings.Join(request.ServicesNeeded, ", "),
		StartDate:    request.EventDate,
		Status:       models.JobPostingStatusActive,
		BidRequestID: &request.ID,
	}
	return s.db.Where("bid_request_id = ?", request.ID).FirstOrCreate(&posting).Error
}

// SubmitBid appends a provider's bid to an open request, one per provider.
func (s *BidRequestService) SubmitBid(ctx context.Context, providerID uint, requestID uint, input models.BidCreate) (*models.Bid, error) {
	var missing []string
	if input.Price <= 0 {
		missing = append(missing, "price")
	}
	if input.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, ErrValidation("Missing required fields: %s", strings.Join(missing, ", "))
	}

	// Advisory lock per request+provider narrows the duplicate-bid race.
	release, err := s.locks.Acquire(ctx, fmt.Sprintf("bid:%d:%d", requestID, providerID))
	if err != nil {
		if errors.Is(err, ErrSlotBusy) {
			return nil, ErrDuplicateBid("Your bid is already being processed")
		}
		log.Printf("⚠️ Bid lock unavailable for request %d, proceeding unlocked: %v", requestID, err)
		release = func() {}
	}
	defer release()

	var request models.BidRequest
	if err := s.db.Preload("Bids").First(&request, requestID).Error; err != nil {
		return nil, ErrNotFound("Bid request %d not found", requestID)
	}
	if request.Status != models.BidRequestStatusOpen {
		return nil, ErrInvalidState("Bid request is %s, only open requests accept bids", request.Status)
	}
	if request.HasBidFrom(providerID) {
		return nil, ErrDuplicateBid("You have already submitted a bid on this request")
	}

	bid := models.Bid{
		BidRequestID:       requestID,
		BidID:              newBidID(providerID),
		ProviderID:         providerID,
		Price:              input.Price,
		Description:        input.Description,
		EstimatedTime:      input.EstimatedTime,
		AdditionalServices: input.AdditionalServices,
		Status:             models.BidStatusPending,
	}

	var provider models.User
	if err := s.db.First(&provider, providerID).Error; err != nil {
		log.Printf("⚠️ Could not load provider %d for bid enrichment: %v", providerID, err)
	} else {
		bid.ProviderName = provider.FullName
		bid.ProviderRole = string(provider.Role)
	}

	if err := s.db.Create(&bid).Error; err != nil {
		return nil, ErrInternal("Failed to submit bid", err)
	}

	s.notifier.Notify(request.CustomerID, "new_bid",
		"New Bid Received",
		fmt.Sprintf("%s placed a bid of %.2f on your %s request", bid.ProviderName, bid.Price, request.EventType),
		map[string]interface{}{"bid_request_id": requestID, "bid_id": bid.BidID})

	return &bid, nil
}

// newBidID derives the external bid id from the provider and submission time.
func newBidID(providerID uint) string {
	return fmt.Sprintf("%d-%d-%s", providerID, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// DecideBid accepts or rejects a bid on the customer's own request.
//
// Accepting runs a fixed-order write sequence: target bid, remaining pending
// bids, request status, then the mirrored booking. Each step is logged; the
// steps are individually committed, so a failure part-way leaves a state the
// reconciliation job can detect and finish.
func (s *BidRequestService) DecideBid(customerID, requestID uint, bidID, action string) (*models.Bid, error) {
	if action != "accept" && action != "reject" {
		return nil, ErrValidation("Action must be 'accept' or 'reject'")
	}

	var request models.BidRequest
	if err := s.db.Preload("Bids").First(&request, requestID).Error; err != nil {
		return nil, ErrNotFound("Bid request %d not found", requestID)
	}
	if request.CustomerID != customerID {
		return nil, ErrForbidden("You can only decide bids on your own requests")
	}

	var target *models.Bid
	for i := range request.Bids {
		if request.Bids[i].BidID == bidID {
			target = &request.Bids[i]
			break
		}
	}
	if target == nil {
		return nil, ErrNotFound("Bid %s not found on this request", bidID)
	}
	if target.Status != models.BidStatusPending {
		return nil, ErrInvalidState("Bid is already %s", target.Status)
	}

	if action == "reject" {
		if err := s.db.Model(target).Updates(map[string]interface{}{
			"status":     models.BidStatusRejected,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return nil, ErrInternal("Failed to reject bid", err)
		}
		target.Status = models.BidStatusRejected

		s.notifier.Notify(target.ProviderID, "bid_rejected",
			"Bid Not Selected",
			fmt.Sprintf("Your bid on the %s request was not selected", request.EventType),
			map[string]interface{}{"bid_request_id": requestID, "bid_id": bidID})
		return target, nil
	}

	if request.Status != models.BidRequestStatusOpen {
		return nil, ErrInvalidState("Bid request is already %s", request.Status)
	}

	// Step 1: mark the winning bid.
	if err := s.db.Model(target).Updates(map[string]interface{}{
		"status":     models.BidStatusAccepted,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, ErrInternal("Failed to accept bid", err)
	}
	target.Status = models.BidStatusAccepted
	log.Printf("🏆 Bid %s accepted on request %d", bidID, requestID)

	// Step 2: reject every other pending bid.
	if err := s.db.Model(&models.Bid{}).
		Where("bid_request_id = ? AND bid_id <> ? AND status = ?", requestID, bidID, models.BidStatusPending).
		Updates(map[string]interface{}{"status": models.BidStatusRejected, "updated_at": time.Now()}).Error; err != nil {
		log.Printf("❌ Failed to reject losing bids on request %d: %v", requestID, err)
		return nil, ErrInternal("Failed to update losing bids", err)
	}

	// Step 3: award the request.
	if err := s.db.Model(&request).Updates(map[string]interface{}{
		"status":     models.BidRequestStatusAwarded,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("❌ Failed to award request %d after accepting bid %s: %v", requestID, bidID, err)
		return nil, ErrInternal("Failed to award bid request", err)
	}
	request.Status = models.BidRequestStatusAwarded

	// Step 4: create the confirmed booking mirroring the winning bid.
	if _, err := s.CreateBookingForBid(&request, target); err != nil {
		// The request is awarded but the booking is missing; the
		// reconciliation job completes this state later.
		log.Printf("❌ Booking creation failed for awarded request %d: %v", requestID, err)
		return nil, ErrInternal("Bid accepted but booking creation failed", err)
	}

	s.notifier.Notify(target.ProviderID, "bid_accepted",
		"Bid Accepted",
		fmt.Sprintf("Your bid of %.2f on the %s request was accepted", target.Price, request.EventType),
		map[string]interface{}{"bid_request_id": requestID, "bid_id": bidID})

	return target, nil
}

// CreateBookingForBid materializes the confirmed booking for an accepted
// bid. Shared with the reconciliation job, which uses it to finish awarded
// requests whose booking write was lost.
func (s *BidRequestService) CreateBookingForBid(request *models.BidRequest, bid *models.Bid) (*models.Booking, error) {
	budget := bid.Price
	if request.Budget != nil {
		budget = *request.Budget
	}
	booking := models.Booking{
		CustomerID:   request.CustomerID,
		ProviderID:   bid.ProviderID,
		EventName:    request.EventName,
		EventType:    request.EventType,
		EventDate:    request.EventDate,
		Location:     request.Location,
		Budget:       budget,
		GuestCount:   request.GuestCount,
		Requirements: request.Requirements,
		Price:        bid.Price,
		Status:       models.BookingStatusConfirmed,
		ProviderName: bid.ProviderName,
		ProviderRole: bid.ProviderRole,
		BidRequestID: &request.ID,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// Delete removes the customer's own request unless a bid was already
// accepted. Providers with pending bids are told the request is gone.
func (s *BidRequestService) Delete(customerID, requestID uint) error {
	var request models.BidRequest
	if err := s.db.Preload("Bids").First(&request, requestID).Error; err != nil {
		return ErrNotFound("Bid request %d not found", requestID)
	}
	if request.CustomerID != customerID {
		return ErrForbidden("You can only delete your own requests")
	}
	if request.AcceptedBid() != nil {
		return ErrInvalidState("Cannot delete a request with an accepted bid")
	}

	var pendingBidders []uint
	for i := range request.Bids {
		if request.Bids[i].Status == models.BidStatusPending {
			pendingBidders = append(pendingBidders, request.Bids[i].ProviderID)
		}
	}

	// Sequential deletes, bids first so a crash leaves no orphaned bids.
	if err := s.db.Where("bid_request_id = ?", requestID).Delete(&models.Bid{}).Error; err != nil {
		return ErrInternal("Failed to delete bids", err)
	}
	if err := s.db.Delete(&request).Error; err != nil {
		return ErrInternal("Failed to delete bid request", err)
	}

	s.notifier.NotifyMany(pendingBidders, "bid_request_deleted",
		"Bid Request Withdrawn",
		fmt.Sprintf("The %s request you bid on was withdrawn by the customer", request.EventType),
		map[string]interface{}{"bid_request_id": requestID})

	return nil
}

// Get returns a request with bids; any authenticated user may view it.
func (s *BidRequestService) Get(requestID uint) (*models.BidRequest, error) {
	var request models.BidRequest
	if err := s.db.Preload("Bids").First(&request, requestID).Error; err != nil {
		return nil, ErrNotFound("Bid request %d not found", requestID)
	}
	return &request, nil
}

// ListMine returns the customer's requests with bids, newest first.
func (s *BidRequestService) ListMine(customerID uint, page, limit int) ([]models.BidRequest, int, error) {
	var requests []models.BidRequest
	if err := s.db.Preload("Bids").Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, 0, ErrInternal("Failed to fetch bid requests", err)
	}
	return paginateRequests(requests, page, limit)
}

// ListOpen returns open requests for providers to browse.
func (s *BidRequestService) ListOpen(page, limit int) ([]models.BidRequest, int, error) {
	var requests []models.BidRequest
	if err := s.db.Preload("Bids").Where("status = ?", models.BidRequestStatusOpen).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, 0, ErrInternal("Failed to fetch bid requests", err)
	}
	return paginateRequests(requests, page, limit)
}

func paginateRequests(requests []models.BidRequest, page, limit int) ([]models.BidRequest, int, error) {
	total := len(requests)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return requests[start:end], total, nil
}

// ListJobPostings returns active freelancer jobs, backfilling postings for
// any freelancer-targeted request that is missing one. Backfill is keyed by
// bid_request_id, so repeated calls never duplicate.
func (s *BidRequestService) ListJobPostings(page, limit int) ([]models.JobPosting, int, error) {
	s.backfillJobPostings()

	var postings []models.JobPosting
	if err := s.db.Where("status = ?", models.JobPostingStatusActive).
		Order("created_at DESC").Find(&postings).Error; err != nil {
		return nil, 0, ErrInternal("Failed to fetch job postings", err)
	}

	total := len(postings)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return postings[start:end], total, nil
}

func (s *BidRequestService) backfillJobPostings() {
	var requests []models.BidRequest
	if err := s.db.Where("need_whole_team = ? AND status = ?", false, models.BidRequestStatusOpen).
		Find(&requests).Error; err != nil {
		log.Printf("⚠️ Job posting backfill scan failed: %v", err)
		return
	}
	for i := range requests {
		if err := s.ensureJobPosting(&requests[i]); err != nil {
			log.Printf("⚠️ Job posting backfill failed for request %d: %v", requests[i].ID, err)
		}
	}
}
