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

// StaffJobHandler owns staff job posting and application endpoints.
type StaffJobHandler struct {
	svc *services.StaffJobService
}

// RegisterStaffJobRoutes registers all staff-job-related routes
func RegisterStaffJobRoutes(router *gin.RouterGroup, svc *services.StaffJobService) {
	h := &StaffJobHandler{svc: svc}

	router.POST("", middleware.RequireRole("staff_job.post"), middleware.RequireApproved(), h.post)
	router.GET("/available", middleware.RequireRole("staff_job.browse"), h.available)
	router.GET("/mine", middleware.RequireRole("staff_job.manage"), h.mine)
	router.POST("/:id/apply", middleware.RequireRole("staff_job.apply"), h.apply)
	router.PATCH("/applications/:id/approve", middleware.RequireRole("staff_job.manage"), h.approve)
	router.PATCH("/applications/:id/disapprove", middleware.RequireRole("staff_job.manage"), h.disapprove)
	router.DELETE("/:id", middleware.RequireRole("staff_job.manage"), h.delete)
}

func (h *StaffJobHandler) post(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.StaffJobCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	job, err := h.svc.Post(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff job posted",
		"data":    job,
	})
}

func (h *StaffJobHandler) available(c *gin.Context) {
	page, limit := utils.PageParams(c)

	jobs, total, err := h.svc.ListAvailable(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Available staff jobs fetched", jobs, page, limit, total)
}

func (h *StaffJobHandler) mine(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, limit := utils.PageParams(c)

	jobs, total, err := h.svc.ListMine(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "Staff jobs fetched", jobs, page, limit, total)
}

func (h *StaffJobHandler) apply(c *gin.Context) {
	userID := c.GetUint("user_id")
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid job id"})
		return
	}

	application, svcErr := h.svc.Apply(userID, uint(jobID))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Application submitted",
		"data":    application,
	})
}

func (h *StaffJobHandler) approve(c *gin.Context) {
	h.decide(c, true)
}

func (h *StaffJobHandler) disapprove(c *gin.Context) {
	h.decide(c, false)
}

func (h *StaffJobHandler) decide(c *gin.Context, approve bool) {
	userID := c.GetUint("user_id")
	applicationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid application id"})
		return
	}

	var application *models.StaffApplication
	var svcErr error
	if approve {
		application, svcErr = h.svc.Approve(userID, uint(applicationID))
	} else {
		application, svcErr = h.svc.Disapprove(userID, uint(applicationID))
	}
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Application " + string(application.Status),
		"data":    application,
	})
}

func (h *StaffJobHandler) delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid job id"})
		return
	}

	if svcErr := h.svc.Delete(userID, uint(jobID)); svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff job deleted",
		"data":    gin.H{"id": jobID},
	})
}
