package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
)

func RegisterMatchRoutes(r gin.IRouter, opts Options, h *handlers.MatchHandler) {
	match := r.Group("/match")
	match.Use(middleware.FeatureGate(opts.DB, models.SettingMatchingEnabled, "AI matching"), middleware.MatchRateLimit())
	{
		match.GET("/instructors", middleware.RequireRoles(models.RoleClient), h.Instructors)
		match.GET("/dieticians", middleware.RequireRoles(models.RoleClient), h.Dieticians)
		match.GET("/clients", middleware.RequireRoles(models.RoleInstructor), h.Clients)
	}
}
