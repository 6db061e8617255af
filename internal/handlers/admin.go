package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
)

type AdminHandler struct {
	admin    *services.AdminService
	accounts *services.AccountService
}

func NewAdminHandler(admin *services.AdminService, accounts *services.AccountService) *AdminHandler {
	return &AdminHandler{admin: admin, accounts: accounts}
}

type UpdateSettingInput struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// GetDashboard returns aggregate counts for the admin overview
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	metrics, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// ListUsers GET /admin/users?role=&q=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context(), c.Query("role"), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Request.Context(), requestContext(c), c.Param("id"), c.ClientIP()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *AdminHandler) PromoteUser(c *gin.Context) {
	user, err := h.admin.PromoteUser(c.Request.Context(), requestContext(c), c.Param("id"), c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// TriggerReminder POST /admin/reminders/:period runs a fan-out immediately
func (h *AdminHandler) TriggerReminder(c *gin.Context) {
	period := models.Period(c.Param("period"))
	created, err := h.admin.TriggerReminder(c.Request.Context(), requestContext(c), period, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "created": created})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.admin.Settings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var input UpdateSettingInput
	if !bind(c, &input) {
		return
	}
	setting, err := h.admin.UpdateSetting(c.Request.Context(), requestContext(c), input.Key, input.Value, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

func (h *AdminHandler) GetAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	actions, err := h.admin.AuditLog(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}
