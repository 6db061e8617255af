package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
)

type PlanHandler struct {
	plans *services.PlanService
}

func NewPlanHandler(plans *services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

type AssignInput struct {
	ClientID string `json:"clientId" binding:"required"`
}

type LogWorkoutInput struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

func (h *PlanHandler) CreateWorkout(c *gin.Context) {
	var input services.WorkoutInput
	if !bind(c, &input) {
		return
	}
	workout, err := h.plans.CreateWorkout(c.Request.Context(), requestContext(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"workout": workout})
}

// ListWorkouts returns own workouts for instructors and assigned ones for clients
func (h *PlanHandler) ListWorkouts(c *gin.Context) {
	list, err := h.plans.ListWorkouts(c.Request.Context(), requestContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workouts": list})
}

func (h *PlanHandler) AssignWorkout(c *gin.Context) {
	var input AssignInput
	if !bind(c, &input) {
		return
	}
	assignment, err := h.plans.AssignWorkout(c.Request.Context(), requestContext(c), c.Param("id"), input.ClientID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// LogWorkout accepts an empty body, logging for today
func (h *PlanHandler) LogWorkout(c *gin.Context) {
	var input LogWorkoutInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		fail(c, apperrors.BadRequest(err.Error()))
		return
	}
	entry, err := h.plans.LogWorkout(c.Request.Context(), requestContext(c), c.Param("id"), input.Date, input.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"log": entry})
}

func (h *PlanHandler) Streak(c *gin.Context) {
	streak, err := h.plans.Streak(c.Request.Context(), requestContext(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

func (h *PlanHandler) CreateMealPlan(c *gin.Context) {
	var input services.MealPlanInput
	if !bind(c, &input) {
		return
	}
	plan, err := h.plans.CreateMealPlan(c.Request.Context(), requestContext(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mealPlan": plan})
}

func (h *PlanHandler) ListMealPlans(c *gin.Context) {
	list, err := h.plans.ListMealPlans(c.Request.Context(), requestContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mealPlans": list})
}

func (h *PlanHandler) AssignMealPlan(c *gin.Context) {
	var input AssignInput
	if !bind(c, &input) {
		return
	}
	assignment, err := h.plans.AssignMealPlan(c.Request.Context(), requestContext(c), c.Param("id"), input.ClientID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}
