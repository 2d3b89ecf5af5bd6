package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"event-marketplace-server/middleware"
	"event-marketplace-server/models"
	"event-marketplace-server/utils"
)

// ServiceHandler owns the service catalog endpoints.
type ServiceHandler struct {
	db *gorm.DB
}

// RegisterServiceRoutes registers the service catalog. Listing is public;
// publishing requires an approved provider.
func RegisterServiceRoutes(public, protected *gin.RouterGroup, db *gorm.DB) {
	h := &ServiceHandler{db: db}

	public.GET("", h.list)
	public.GET("/:id", h.get)
	protected.POST("", middleware.RequireRole("service.publish"), middleware.RequireApproved(), h.create)
}

func (h *ServiceHandler) list(c *gin.Context) {
	page, limit := utils.PageParams(c)

	query := h.db.Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var services []models.Service
	if err := query.Order("created_at DESC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR", "message": "Failed to fetch services"})
		return
	}

	total := len(services)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	respondList(c, "Services fetched", services[start:end], page, limit, total)
}

func (h *ServiceHandler) get(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid service id"})
		return
	}

	var service models.Service
	if err := h.db.First(&service, uint(serviceID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND", "message": "Service not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service fetched", "data": service})
}

func (h *ServiceHandler) create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.ServiceCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	service := models.Service{
		ProviderID:  userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		BasePrice:   req.BasePrice,
		IsActive:    true,
	}
	if err := h.db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR", "message": "Failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service published",
		"data":    service,
	})
}
