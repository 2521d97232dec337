package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"tandem/internal/cache"
	"tandem/internal/config"
	"tandem/internal/database"
	"tandem/internal/email"
	"tandem/internal/logger"
	postgresrepo "tandem/internal/repository/postgres"
	"tandem/internal/service"
	"tandem/internal/transport/http/handlers"
	"tandem/internal/transport/http/middleware"
	"tandem/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Init(cfg.Env)

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal(err)
	}

	// Redis cache (optional: bypasses itself when unreachable)
	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	// SMTP mailer
	mailer := email.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()
	notifier := ws.NewHubNotifier(hub)

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	profileRepo := postgresrepo.NewProfileRepo(pool)
	coupleRepo := postgresrepo.NewCoupleRepo(pool)
	invitationRepo := postgresrepo.NewInvitationRepo(pool)
	eventRepo := postgresrepo.NewEventRepo(pool)
	goalRepo := postgresrepo.NewGoalRepo(pool)
	reminderRepo := postgresrepo.NewReminderRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, profileRepo, cfg.JWTSecret)
	profileService := service.NewProfileService(profileRepo, redisCache)
	coupleService := service.NewCoupleService(coupleRepo, userRepo, redisCache)
	invitationService := service.NewInvitationService(invitationRepo)
	pairingService := service.NewPairingService(
		coupleService, invitationService, profileService,
		userRepo, profileRepo, invitationRepo,
		mailer, notifier, cfg.AppBaseURL,
	)
	eventService := service.NewEventService(eventRepo, coupleService, notifier)
	goalService := service.NewGoalService(goalRepo, coupleService, notifier)
	reminderService := service.NewReminderService(reminderRepo, coupleService, notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	pairingHandler := handlers.NewPairingHandler(pairingService, coupleService)
	eventHandler := handlers.NewEventHandler(eventService)
	goalHandler := handlers.NewGoalHandler(goalService)
	reminderHandler := handlers.NewReminderHandler(reminderService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/invitations/{token}", pairingHandler.Preview)

	// Protected - Profile
	mux.Handle("GET /api/v1/profile", auth(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PATCH /api/v1/profile", auth(http.HandlerFunc(profileHandler.Update)))

	// Protected - Pairing
	mux.Handle("POST /api/v1/partner/connect", auth(http.HandlerFunc(pairingHandler.Connect)))
	mux.Handle("GET /api/v1/couple", auth(http.HandlerFunc(pairingHandler.GetCouple)))
	mux.Handle("POST /api/v1/invitations/{token}/accept", auth(http.HandlerFunc(pairingHandler.Accept)))
	mux.Handle("POST /api/v1/invitations/{token}/decline", auth(http.HandlerFunc(pairingHandler.Decline)))

	// Protected - Events
	mux.Handle("GET /api/v1/events", auth(http.HandlerFunc(eventHandler.List)))
	mux.Handle("POST /api/v1/events", auth(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("PUT /api/v1/events/{id}", auth(http.HandlerFunc(eventHandler.Update)))
	mux.Handle("DELETE /api/v1/events/{id}", auth(http.HandlerFunc(eventHandler.Delete)))

	// Protected - Goals
	mux.Handle("GET /api/v1/goals", auth(http.HandlerFunc(goalHandler.List)))
	mux.Handle("POST /api/v1/goals", auth(http.HandlerFunc(goalHandler.Create)))
	mux.Handle("PUT /api/v1/goals/{id}", auth(http.HandlerFunc(goalHandler.Update)))
	mux.Handle("PATCH /api/v1/goals/{id}/progress", auth(http.HandlerFunc(goalHandler.UpdateProgress)))
	mux.Handle("DELETE /api/v1/goals/{id}", auth(http.HandlerFunc(goalHandler.Delete)))

	// Protected - Reminders
	mux.Handle("GET /api/v1/reminders", auth(http.HandlerFunc(reminderHandler.List)))
	mux.Handle("POST /api/v1/reminders", auth(http.HandlerFunc(reminderHandler.Create)))
	mux.Handle("PUT /api/v1/reminders/{id}", auth(http.HandlerFunc(reminderHandler.Update)))
	mux.Handle("PATCH /api/v1/reminders/{id}/completed", auth(http.HandlerFunc(reminderHandler.SetCompleted)))
	mux.Handle("DELETE /api/v1/reminders/{id}", auth(http.HandlerFunc(reminderHandler.Delete)))

	// WebSocket (auth via query param)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
