package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
)

func RegisterUserRoutes(r gin.IRouter, h *handlers.UserHandler) {
	users := r.Group("/users")
	{
		users.GET("/me", h.Me)
		users.PATCH("/me", h.UpdateMe)
		users.POST("/me/avatar", h.UploadAvatar)
	}
}
