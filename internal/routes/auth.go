package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter, opts Options, h *handlers.AuthHandler) {
	r.POST("/register", middleware.RequireRegistrationOpen(opts.DB), h.Register)
	r.POST("/login", h.Login)
	r.POST("/logout", opts.Authenticate, h.Logout)
}
