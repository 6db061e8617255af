package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type SystemHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewSystemHandler(db *gorm.DB, redisClient *redis.Client) *SystemHandler {
	return &SystemHandler{db: db, redis: redisClient}
}

// Health reports database and redis reachability. Redis is optional, so
// "not configured" does not degrade the status.
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	redisStatus := "ok"

	if err := database.Ping(h.db); err != nil {
		dbStatus = "error"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error"
		}
	} else {
		redisStatus = "not configured"
	}

	status := "ok"
	if dbStatus != "ok" || redisStatus == "error" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"message": "LifeStyle Coach API is running",
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

// Status GET /api/system/status is public so the frontend can render a
// maintenance page.
func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"maintenanceMode":  database.IsFeatureEnabled(h.db, models.SettingMaintenanceMode, false),
		"registrationOpen": database.IsFeatureEnabled(h.db, models.SettingRegistrationOpen, true),
		"chatEnabled":      database.IsFeatureEnabled(h.db, models.SettingChatEnabled, true),
		"matchingEnabled":  database.IsFeatureEnabled(h.db, models.SettingMatchingEnabled, true),
	})
}
