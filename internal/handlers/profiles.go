package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) SaveClient(c *gin.Context) {
	var input services.ClientProfileInput
	if !bind(c, &input) {
		return
	}
	profile, err := h.profiles.SaveClient(c.Request.Context(), requestContext(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) SaveInstructor(c *gin.Context) {
	var input services.InstructorProfileInput
	if !bind(c, &input) {
		return
	}
	profile, err := h.profiles.SaveInstructor(c.Request.Context(), requestContext(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) SaveDietician(c *gin.Context) {
	var input services.DieticianProfileInput
	if !bind(c, &input) {
		return
	}
	profile, err := h.profiles.SaveDietician(c.Request.Context(), requestContext(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Mine GET /profiles/me
func (h *ProfileHandler) Mine(c *gin.Context) {
	profile, err := h.profiles.Mine(c.Request.Context(), requestContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) ListInstructors(c *gin.Context) {
	list, err := h.profiles.ListInstructors(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instructors": list})
}

func (h *ProfileHandler) ListDieticians(c *gin.Context) {
	list, err := h.profiles.ListDieticians(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dieticians": list})
}

func (h *ProfileHandler) ListClients(c *gin.Context) {
	list, err := h.profiles.ListClients(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list})
}
