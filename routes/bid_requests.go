package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/middleware"
	"event-marketplace-server/models"
	"event-marketplace-server/services"
	"event-marketplace-server/utils"
)

// BidRequestHandler owns the bid-request endpoints, including the
// freelancer job board derived from them.
type BidRequestHandler struct {
	svc *services.BidRequestService
}

// RegisterBidRequestRoutes registers all bid-request-related routes
func RegisterBidRequestRoutes(router *gin.RouterGroup, svc *services.BidRequestService) {
	h := &BidRequestHandler{svc: svc}

	router.POST("", middleware.RequireRole("bid_request.create"), h.create)
	router.GET("/my-requests", middleware.RequireRole("bid_request.create"), h.myRequests)
	router.GET("/open", middleware.RequireRole("bid_request.browse"), middleware.RequireApproved(), h.openRequests)
	router.GET("/:id", h.get)
	router.POST("/:id/bid", middleware.RequireRole("bid_request.bid"), middleware.RequireApproved(), h.submitBid)
	router.PATCH("/:id/bid/:bidId", middleware.RequireRole("bid_request.decide"), h.decideBid)
	router.DELETE("/:id", middleware.RequireRole("bid_request.delete"), h.delete)
}

// RegisterJobPostingRoutes registers the freelancer job board
func RegisterJobPostingRoutes(router *gin.RouterGroup, svc *services.BidRequestService) {
	h := &BidRequestHandler{svc: svc}
	router.GET("", middleware.RequireRole("job_posting.browse"), middleware.RequireApproved(), h.jobPostings)
}

func (h *BidRequestHandler) create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.BidRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	request, err := h.svc.Create(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bid request created",
		"data":    request,
	})
}

func (h *BidRequestHandler) myRequests(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, limit := utils.PageParams(c)

	requests, total, err := h.svc.ListMine(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Bid requests fetched", requests, page, limit, total)
}

func (h *BidRequestHandler) openRequests(c *gin.Context) {
	page, limit := utils.PageParams(c)

	requests, total, err := h.svc.ListOpen(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Open bid requests fetched", requests, page, limit, total)
}

func (h *BidRequestHandler) get(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid request id"})
		return
	}

	request, svcErr := h.svc.Get(uint(requestID))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bid request fetched", "data": request})
}

func (h *BidRequestHandler) submitBid(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid request id"})
		return
	}

	var req models.BidCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	bid, svcErr := h.svc.SubmitBid(c.Request.Context(), userID, uint(requestID), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bid submitted",
		"data":    bid,
	})
}

type decideBidRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *BidRequestHandler) decideBid(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid request id"})
		return
	}

	var req decideBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	bid, svcErr := h.svc.DecideBid(userID, uint(requestID), c.Param("bidId"), req.Action)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bid " + req.Action + "ed",
		"data":    bid,
	})
}

func (h *BidRequestHandler) delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid request id"})
		return
	}

	if svcErr := h.svc.Delete(userID, uint(requestID)); svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bid request deleted",
		"data":    gin.H{"id": requestID},
	})
}

func (h *BidRequestHandler) jobPostings(c *gin.Context) {
	page, limit := utils.PageParams(c)

	postings, total, err := h.svc.ListJobPostings(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Job postings fetched", postings, page, limit, total)
}
