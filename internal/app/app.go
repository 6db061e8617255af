// Package app assembles services, handlers and the router from injected
// infrastructure. The server binary and the HTTP tests share it.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/config"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/handlers"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/routes"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps is the infrastructure the application runs on. Redis, Store and
// Completer are optional.
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Store     storage.ObjectStore
	Completer services.Completer
	// Realtime mounts the socket.io server.
	Realtime bool
}

type App struct {
	Router    *gin.Engine
	Hub       *handlers.SocketHub
	Reminders *services.ReminderService
	Accounts  *services.AccountService
}

func New(cfg *config.Config, deps Deps) *App {
	db := deps.DB
	var blacklist *database.TokenBlacklist
	if deps.Redis != nil {
		blacklist = database.NewTokenBlacklist(deps.Redis)
	}

	conversations := services.NewConversationService(db)

	var (
		hub         *handlers.SocketHub
		notifier    services.Notifier
		broadcaster handlers.MessageBroadcaster
		socket      gin.HandlerFunc
	)
	if deps.Realtime {
		hub = handlers.NewSocketHub(db, conversations, cfg.JWTSecret, blacklist, cfg.FrontendURL)
		notifier = hub
		broadcaster = hub
		socket = hub.Handler()
	}

	notifications := services.NewNotificationService(db, notifier)
	reminders := services.NewReminderService(db, notifier, cfg.ReminderLocation())
	accounts := services.NewAccountService(db, cfg.JWTSecret, blacklist, deps.Store)
	matches := services.NewMatchService(db, services.NewMatcher(deps.Completer))

	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(accounts),
		Users:         handlers.NewUserHandler(accounts),
		Profiles:      handlers.NewProfileHandler(services.NewProfileService(db)),
		Plans:         handlers.NewPlanHandler(services.NewPlanService(db, notifications)),
		Appointments:  handlers.NewAppointmentHandler(services.NewAppointmentService(db, notifications)),
		Chat:          handlers.NewChatHandler(conversations, broadcaster),
		Match:         handlers.NewMatchHandler(matches),
		Notifications: handlers.NewNotificationHandler(notifications),
		Admin:         handlers.NewAdminHandler(services.NewAdminService(db, reminders), accounts),
		System:        handlers.NewSystemHandler(db, deps.Redis),
	}

	router := routes.NewRouter(routes.Options{
		DB:           db,
		FrontendURL:  cfg.FrontendURL,
		Production:   cfg.IsProduction(),
		Authenticate: middleware.AuthMiddleware(cfg.JWTSecret, blacklist, db),
		Socket:       socket,
	}, h)

	return &App{
		Router:    router,
		Hub:       hub,
		Reminders: reminders,
		Accounts:  accounts,
	}
}
