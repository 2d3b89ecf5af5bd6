package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/models"
)

// accessPolicy is the single role × action table consulted by RequireRole.
// Actions not listed here deny everyone, so new endpoints must be added
// explicitly.
var accessPolicy = map[string][]models.UserRole{
	"booking.create":        {models.RoleCustomer},
	"booking.respond":       toRoles(models.ProviderRoles),
	"booking.update_status": append(toRoles(models.ProviderRoles), models.RoleCustomer),
	"booking.list_customer": {models.RoleCustomer},
	"booking.list_provider": toRoles(models.ProviderRoles),
	"bid_request.create":    {models.RoleCustomer},
	"bid_request.bid":       toRoles(models.ProviderRoles),
	"bid_request.decide":    {models.RoleCustomer},
	"bid_request.delete":    {models.RoleCustomer},
	"bid_request.browse":    toRoles(models.ProviderRoles),
	"job_posting.browse":    {models.RoleFreelancer},
	"staff_job.post":        toRoles(models.ProviderRoles),
	"staff_job.browse":      {models.RoleJobseeker},
	"staff_job.apply":       {models.RoleJobseeker},
	"staff_job.manage":      toRoles(models.ProviderRoles),
	"service.publish":       toRoles(models.ProviderRoles),
}

func toRoles(roles []models.UserRole) []models.UserRole {
	out := make([]models.UserRole, len(roles))
	copy(out, roles)
	return out
}

// RequireRole gates a route on the policy table entry for the given action.
// Admins pass every gate. Must run after AuthMiddleware.
func RequireRole(action string) gin.HandlerFunc {
	allowed := accessPolicy[action]
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "AUTHENTICATION_ERROR",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		userRole := role.(models.UserRole)
		if userRole == models.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range allowed {
			if r == userRole {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "FORBIDDEN",
			"message": "Your role is not allowed to perform this action",
		})
		c.Abort()
	}
}

// RequireApproved gates provider actions on the account having passed
// vetting. Must run after AuthMiddleware.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		approved, ok := c.Get("approved")
		if !ok || !approved.(bool) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "FORBIDDEN",
				"message": "Your account is pending approval",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
