package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
)

type AppointmentHandler struct {
	appointments *services.AppointmentService
}

func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type UpdateStatusInput struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var input services.AppointmentInput
	if !bind(c, &input) {
		return
	}
	appt, err := h.appointments.Book(c.Request.Context(), requestContext(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.appointments.List(c.Request.Context(), requestContext(c), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list})
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if !bind(c, &input) {
		return
	}
	appt, err := h.appointments.UpdateStatus(c.Request.Context(), requestContext(c), c.Param("id"), input.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}
