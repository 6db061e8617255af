package routes

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"gorm.io/gorm"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Profiles      *handlers.ProfileHandler
	Plans         *handlers.PlanHandler
	Appointments  *handlers.AppointmentHandler
	Chat          *handlers.ChatHandler
	Match         *handlers.MatchHandler
	Notifications *handlers.NotificationHandler
	Admin         *handlers.AdminHandler
	System        *handlers.SystemHandler
}

type Options struct {
	DB           *gorm.DB
	FrontendURL  string
	Production   bool
	Authenticate gin.HandlerFunc
	// Socket serves /socket.io/ when set.
	Socket gin.HandlerFunc
}

func isSocketPath(path string) bool {
	return strings.HasPrefix(path, "/socket.io/")
}

// NewRouter builds the gin engine with the global middleware chain and every
// route group.
func NewRouter(opts Options, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders(opts.Production))
	r.Use(middleware.CORSMiddleware(opts.FrontendURL))

	// Socket.io polling would trip the general limit
	general := middleware.GeneralRateLimit()
	r.Use(func(c *gin.Context) {
		if isSocketPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		general(c)
	})

	r.GET("/health", h.System.Health)

	api := r.Group("/api")
	{
		// Login stays reachable during maintenance so admins can sign in
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		RegisterAuthRoutes(auth, opts, h.Auth)

		api.GET("/system/status", h.System.Status)

		protected := api.Group("")
		protected.Use(opts.Authenticate, middleware.MaintenanceMode(opts.DB))

		RegisterUserRoutes(protected, h.Users)
		RegisterProfileRoutes(protected, h.Profiles)
		RegisterPlanRoutes(protected, h.Plans)
		RegisterAppointmentRoutes(protected, h.Appointments)
		RegisterChatRoutes(protected, opts, h.Chat)
		RegisterMatchRoutes(protected, opts, h.Match)
		RegisterNotificationRoutes(protected, h.Notifications)

		// Admin routes bypass maintenance
		RegisterAdminRoutes(api, opts, h.Admin)
	}

	if opts.Socket != nil {
		r.GET("/socket.io/*any", opts.Socket)
		r.POST("/socket.io/*any", opts.Socket)
	}

	return r
}
