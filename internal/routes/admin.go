package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
)

func RegisterAdminRoutes(r gin.IRouter, opts Options, h *handlers.AdminHandler) {
	admin := r.Group("/admin")
	admin.Use(opts.Authenticate, middleware.AdminOnly())

	admin.GET("/dashboard", h.GetDashboard)

	// User Management
	admin.GET("/users", h.ListUsers)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.POST("/users/:id/promote", h.PromoteUser)

	// Reminders
	admin.POST("/reminders/:period", h.TriggerReminder)

	// System Settings
	admin.GET("/settings", h.GetSettings)
	admin.PUT("/settings", h.UpdateSetting)

	admin.GET("/audit", h.GetAuditLog)
}
