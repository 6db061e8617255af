package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
)

func RegisterProfileRoutes(r gin.IRouter, h *handlers.ProfileHandler) {
	profiles := r.Group("/profiles")
	{
		profiles.GET("/me", h.Mine)
		profiles.PUT("/client", middleware.RequireRoles(models.RoleClient), h.SaveClient)
		profiles.PUT("/instructor", middleware.RequireRoles(models.RoleInstructor), h.SaveInstructor)
		profiles.PUT("/dietician", middleware.RequireRoles(models.RoleDietician), h.SaveDietician)
	}

	r.GET("/instructors", h.ListInstructors)
	r.GET("/dieticians", h.ListDieticians)
	r.GET("/clients", middleware.RequireRoles(models.RoleInstructor, models.RoleDietician, models.RoleAdmin), h.ListClients)
}
