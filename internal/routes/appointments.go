package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
)

func RegisterAppointmentRoutes(r gin.IRouter, h *handlers.AppointmentHandler) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", middleware.RequireRoles(models.RoleClient), h.Book)
		appointments.GET("", h.List)
		appointments.PATCH("/:id/status", h.UpdateStatus)
	}
}
