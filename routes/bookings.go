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

// BookingHandler owns the direct-booking endpoints.
type BookingHandler struct {
	svc *services.BookingService
}

// RegisterBookingRoutes registers all booking-related routes
func RegisterBookingRoutes(router *gin.RouterGroup, svc *services.BookingService) {
	h := &BookingHandler{svc: svc}

	router.POST("/book-now", middleware.RequireRole("booking.create"), h.bookNow)
	router.GET("/my-bookings", middleware.RequireRole("booking.list_customer"), h.myBookings)
	router.GET("/provider", middleware.RequireRole("booking.list_provider"), h.providerBookings)
	router.GET("/:id", h.getBooking)
	router.PATCH("/:id/respond", middleware.RequireRole("booking.respond"), h.respond)
	router.PATCH("/:id/status", middleware.RequireRole("booking.update_status"), h.updateStatus)
}

func (h *BookingHandler) bookNow(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	booking, err := h.svc.CreateDirect(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking request created",
		"data":    booking,
	})
}

func (h *BookingHandler) myBookings(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, limit := utils.PageParams(c)

	bookings, total, err := h.svc.ListForCustomer(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Bookings fetched", bookings, page, limit, total)
}

func (h *BookingHandler) providerBookings(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, limit := utils.PageParams(c)

	bookings, total, err := h.svc.ListForProvider(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Bookings fetched", bookings, page, limit, total)
}

func (h *BookingHandler) getBooking(c *gin.Context) {
	userID := c.GetUint("user_id")
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid booking id"})
		return
	}

	booking, svcErr := h.svc.Get(userID, uint(bookingID))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking fetched", "data": booking})
}

type respondRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *BookingHandler) respond(c *gin.Context) {
	userID := c.GetUint("user_id")
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid booking id"})
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	booking, svcErr := h.svc.Respond(userID, uint(bookingID), req.Status, req.Notes)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated",
		"data":    gin.H{"booking_id": booking.ID, "status": booking.Status},
	})
}

type statusUpdateRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	userID := c.GetUint("user_id")
	role, _ := c.Get("role")
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid booking id"})
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	booking, svcErr := h.svc.UpdateStatus(userID, role.(models.UserRole), uint(bookingID),
		models.BookingStatus(req.Status), req.Notes)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated",
		"data":    booking,
	})
}
