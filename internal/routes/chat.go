package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
)

func RegisterChatRoutes(r gin.IRouter, opts Options, h *handlers.ChatHandler) {
	chat := r.Group("/chat")
	chat.Use(middleware.FeatureGate(opts.DB, models.SettingChatEnabled, "Messaging"))
	{
		chat.GET("/conversations", h.ListConversations)
		chat.POST("/conversations", h.ResolveConversation)
		chat.GET("/conversations/:id/messages", h.GetMessages)
		chat.POST("/conversations/:id/messages", middleware.ChatRateLimit(), h.SendMessage)
		chat.POST("/conversations/:id/read", h.MarkRead)
	}
}
