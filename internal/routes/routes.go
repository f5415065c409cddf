package routes

import (
	"github.com/adityarane/GymBuddyBack/internal/cache"
	"github.com/adityarane/GymBuddyBack/internal/config"
	"github.com/adityarane/GymBuddyBack/internal/handlers"
	"github.com/adityarane/GymBuddyBack/internal/middleware"
	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/repository"
	"github.com/adityarane/GymBuddyBack/internal/services"
	notifyws "github.com/adityarane/GymBuddyBack/internal/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, unreadCache *cache.UnreadCache) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	gymRepo := repository.NewGymRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := notifyws.NewHub()
	go hub.Run()

	notificationService := services.NewNotificationService(notificationRepo, hub, unreadCache)
	matchService := services.NewMatchService(userRepo, profileRepo, matchRepo, notificationService)
	matchmakingService := services.NewMatchmakingService(profileRepo, matchRepo)
	ticketService := services.NewTicketService(db, ticketRepo, matchRepo, userRepo, gymRepo, notificationService)

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, cfg.JWTSecret, cfg.BaseURL)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	matchHandler := handlers.NewMatchHandler(matchService, matchmakingService, profileRepo)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	gymHandler := handlers.NewGymHandler(gymRepo, ticketRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, unreadCache)
	adminHandler := handlers.NewAdminHandler(userRepo, matchRepo, ticketRepo, gymRepo)
	wsHandler := handlers.NewWSHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify-email", authHandler.VerifyEmail)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	users := api.Group("/users", middleware.AuthRequired(cfg.JWTSecret))
	users.Get("/profile", profileHandler.GetProfile)
	users.Put("/profile", profileHandler.UpdateProfile)

	matches := api.Group("/matches", middleware.AuthRequired(cfg.JWTSecret))
	matches.Get("", matchHandler.GetMatches)
	matches.Get("/mine", matchHandler.ListMine)
	matches.Post("/request", matchHandler.SendRequest)
	matches.Post("/respond", matchHandler.Respond)

	tickets := api.Group("/tickets", middleware.AuthRequired(cfg.JWTSecret))
	tickets.Post("", ticketHandler.CreateTicket)
	tickets.Get("", ticketHandler.ListTickets)
	tickets.Put("/:id/status", ticketHandler.UpdateStatus)

	gyms := api.Group("/gyms")
	gyms.Get("", gymHandler.ListGyms)
	gyms.Get("/:id", gymHandler.GetGym)

	gymOwner := api.Group("/gyms",
		middleware.AuthRequired(cfg.JWTSecret),
		middleware.RequireRole(models.RoleGymOwner, models.RoleAdmin),
	)
	gymOwner.Post("", gymHandler.CreateGym)
	gymOwner.Put("/:id", gymHandler.UpdateGym)
	gymOwner.Delete("/:id", gymHandler.DeleteGym)

	owner := api.Group("/owner",
		middleware.AuthRequired(cfg.JWTSecret),
		middleware.RequireRole(models.RoleGymOwner, models.RoleAdmin),
	)
	owner.Get("/dashboard", gymHandler.OwnerDashboard)
	owner.Get("/visit-history", gymHandler.VisitHistory)

	notifications := api.Group("/notifications", middleware.AuthRequired(cfg.JWTSecret))
	notifications.Get("", notificationHandler.ListNotifications)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)

	admin := api.Group("/admin",
		middleware.AuthRequired(cfg.JWTSecret),
		middleware.RequireRole(models.RoleAdmin),
	)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/role", adminHandler.UpdateUserRole)
	admin.Delete("/users/:id", adminHandler.DeleteUser)

	api.Use("/ws", wsHandler.Upgrade)
	api.Get("/ws", wsHandler.Serve())
}
