package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"event-marketplace-server/models"
	"event-marketplace-server/services"
)

// ReconciliationJob repairs awarded bid requests that have no booking. The
// accept sequence commits its writes one by one, so a crash between awarding
// the request and creating the booking leaves an orphan; this job finds those
// orphans and finishes the sequence. Re-running it is safe because repairs
// are keyed by bid_request_id.
type ReconciliationJob struct {
	db       *gorm.DB
	bids     *services.BidRequestService
	interval time.Duration
	stopChan chan bool
}

// NewReconciliationJob creates a new reconciliation job
func NewReconciliationJob(db *gorm.DB, bids *services.BidRequestService) *ReconciliationJob {
	return &ReconciliationJob{
		db:       db,
		bids:     bids,
		interval: 5 * time.Minute,
		stopChan: make(chan bool),
	}
}

// Start begins the reconciliation job
func (j *ReconciliationJob) Start() {
	go j.run()
	log.Println("🚀 Reconciliation job started")
}

// Stop stops the reconciliation job
func (j *ReconciliationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Reconciliation job stopped")
}

func (j *ReconciliationJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RepairOrphanedAwards()
		case <-j.stopChan:
			return
		}
	}
}

// RepairOrphanedAwards finds awarded requests without a booking and creates
// the missing booking from the accepted bid. Returns how many were repaired.
func (j *ReconciliationJob) RepairOrphanedAwards() int {
	var awarded []models.BidRequest
	if err := j.db.Preload("Bids").Where("status = ?", models.BidRequestStatusAwarded).
		Find(&awarded).Error; err != nil {
		log.Printf("❌ Reconciliation scan failed: %v", err)
		return 0
	}

	repaired := 0
	for i := range awarded {
		request := &awarded[i]

		var count int64
		if err := j.db.Model(&models.Booking{}).
			Where("bid_request_id = ?", request.ID).
			Count(&count).Error; err != nil {
			log.Printf("❌ Reconciliation booking lookup failed for request %d: %v", request.ID, err)
			continue
		}
		if count > 0 {
			continue
		}

		accepted := request.AcceptedBid()
		if accepted == nil {
			// Awarded with no accepted bid is a different partial state;
			// flag it for manual review rather than guessing a winner.
			log.Printf("⚠️ Request %d is awarded but has no accepted bid, skipping", request.ID)
			continue
		}

		if _, err := j.bids.CreateBookingForBid(request, accepted); err != nil {
			log.Printf("❌ Reconciliation could not create booking for request %d: %v", request.ID, err)
			continue
		}
		log.Printf("🔧 Repaired awarded request %d: booking created for bid %s", request.ID, accepted.BidID)
		repaired++
	}
	return repaired
}
