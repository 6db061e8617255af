package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
)

func RegisterPlanRoutes(r gin.IRouter, h *handlers.PlanHandler) {
	instructor := middleware.RequireRoles(models.RoleInstructor)
	client := middleware.RequireRoles(models.RoleClient)
	dietician := middleware.RequireRoles(models.RoleDietician)

	workouts := r.Group("/workouts")
	{
		workouts.GET("", middleware.RequireRoles(models.RoleInstructor, models.RoleClient), h.ListWorkouts)
		workouts.POST("", instructor, h.CreateWorkout)
		workouts.GET("/streak", client, h.Streak)
		workouts.POST("/:id/assign", instructor, h.AssignWorkout)
		workouts.POST("/:id/log", client, h.LogWorkout)
	}

	meals := r.Group("/meal-plans")
	{
		meals.GET("", middleware.RequireRoles(models.RoleDietician, models.RoleClient), h.ListMealPlans)
		meals.POST("", dietician, h.CreateMealPlan)
		meals.POST("/:id/assign", dietician, h.AssignMealPlan)
	}
}
