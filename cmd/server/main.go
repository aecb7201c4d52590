package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/raidledger/api/internal/cache"
	"github.com/forgo/raidledger/api/internal/client"
	"github.com/forgo/raidledger/api/internal/config"
	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/handler"
	"github.com/forgo/raidledger/api/internal/jobs"
	"github.com/forgo/raidledger/api/internal/middleware"
	"github.com/forgo/raidledger/api/internal/repository"
	"github.com/forgo/raidledger/api/internal/service"
	"github.com/forgo/raidledger/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize Redis for rate limiting, caching, and cooldowns
	redisClient := cache.New(cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Connect(ctx); err != nil {
		slog.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	slog.Info("connected to redis", slog.String("addr", cfg.Redis.Addr))

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize outbound clients
	if !cfg.Discord.IsConfigured() {
		slog.Warn("no discord bot token configured, event announcements will fail")
	}
	discordClient := client.NewDiscordClient(client.DiscordConfig{
		BotToken: cfg.Discord.BotToken,
		BaseURL:  cfg.Discord.BaseURL,
		Timeout:  cfg.Discord.Timeout,
	})
	gameDataClient := client.NewGameDataClient(client.GameDataConfig{
		BaseURL: cfg.GameData.BaseURL,
		APIKey:  cfg.GameData.APIKey,
		Timeout: cfg.GameData.Timeout,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	eventRepo := repository.NewEventRepository(db)
	signupRepo := repository.NewSignupRepository(db)
	slotRepo := repository.NewGameTimeRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTService: jwtService,
	})

	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo: userRepo,
		PrefRepo: preferenceRepo,
	})

	characterService := service.NewCharacterService(service.CharacterServiceConfig{
		CharRepo: characterRepo,
	})

	eventService := service.NewEventService(service.EventServiceConfig{
		EventRepo:  eventRepo,
		SignupRepo: signupRepo,
		Announcer:  discordClient,
		Cooldowns:  redisClient,
	})

	signupService := service.NewSignupService(service.SignupServiceConfig{
		SignupRepo: signupRepo,
		EventRepo:  eventRepo,
		CharRepo:   characterRepo,
		UserRepo:   userRepo,
	})

	gameTimeService := service.NewGameTimeService(service.GameTimeServiceConfig{
		SlotRepo:     slotRepo,
		OverrideRepo: overrideRepo,
		AbsenceRepo:  absenceRepo,
		SignupRepo:   signupRepo,
	})

	gameService := service.NewGameService(service.GameServiceConfig{
		Client: gameDataClient,
		Cache:  redisClient,
	})

	// Start event maintenance job
	eventSweeper := jobs.NewEventSweeper(eventService, time.Hour)
	eventSweeper.Start()
	defer eventSweeper.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	characterHandler := handler.NewCharacterHandler(characterService)
	eventHandler := handler.NewEventHandler(eventService)
	signupHandler := handler.NewSignupHandler(signupService)
	gameTimeHandler := handler.NewGameTimeHandler(gameTimeService)
	gameHandler := handler.NewGameHandler(gameService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoints
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /health/ready", handler.Readiness(db, redisClient))

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	authMiddleware := middleware.Auth(authService)

	// Account endpoints
	mux.Handle("GET /v1/users/me", authMiddleware(http.HandlerFunc(userHandler.Me)))
	mux.Handle("PATCH /v1/users/me", authMiddleware(http.HandlerFunc(userHandler.UpdateMe)))
	mux.Handle("GET /v1/users/me/preferences", authMiddleware(http.HandlerFunc(userHandler.ListPreferences)))
	mux.Handle("PUT /v1/users/me/preferences/{key}", authMiddleware(http.HandlerFunc(userHandler.PutPreference)))
	mux.Handle("DELETE /v1/users/me/preferences/{key}", authMiddleware(http.HandlerFunc(userHandler.DeletePreference)))

	// Character endpoints
	mux.Handle("GET /v1/characters", authMiddleware(http.HandlerFunc(characterHandler.List)))
	mux.Handle("POST /v1/characters", authMiddleware(http.HandlerFunc(characterHandler.Create)))
	mux.Handle("GET /v1/characters/{characterId}", authMiddleware(http.HandlerFunc(characterHandler.Get)))
	mux.Handle("PATCH /v1/characters/{characterId}", authMiddleware(http.HandlerFunc(characterHandler.Update)))
	mux.Handle("DELETE /v1/characters/{characterId}", authMiddleware(http.HandlerFunc(characterHandler.Delete)))
	mux.Handle("POST /v1/characters/{characterId}/main", authMiddleware(http.HandlerFunc(characterHandler.PromoteMain)))

	// Event endpoints
	mux.Handle("GET /v1/events", authMiddleware(http.HandlerFunc(eventHandler.List)))
	mux.Handle("POST /v1/events", authMiddleware(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("GET /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Get)))
	mux.Handle("PATCH /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Update)))
	mux.Handle("DELETE /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.Delete)))
	mux.Handle("POST /v1/events/{eventId}/announce", authMiddleware(http.HandlerFunc(eventHandler.Announce)))

	// Signup endpoints
	mux.Handle("GET /v1/events/{eventId}/signups", authMiddleware(http.HandlerFunc(signupHandler.ListRoster)))
	mux.Handle("POST /v1/events/{eventId}/signups", authMiddleware(http.HandlerFunc(signupHandler.Create)))
	mux.Handle("PATCH /v1/events/{eventId}/signups/me", authMiddleware(http.HandlerFunc(signupHandler.UpdateMine)))
	mux.Handle("DELETE /v1/events/{eventId}/signups/me", authMiddleware(http.HandlerFunc(signupHandler.WithdrawMine)))

	// Game time planner endpoints
	mux.Handle("GET /v1/game-time/template", authMiddleware(http.HandlerFunc(gameTimeHandler.GetTemplate)))
	mux.Handle("PUT /v1/game-time/template", authMiddleware(http.HandlerFunc(gameTimeHandler.PutTemplate)))
	mux.Handle("GET /v1/game-time/overrides", authMiddleware(http.HandlerFunc(gameTimeHandler.ListOverrides)))
	mux.Handle("PUT /v1/game-time/overrides/{date}", authMiddleware(http.HandlerFunc(gameTimeHandler.PutOverride)))
	mux.Handle("DELETE /v1/game-time/overrides/{date}", authMiddleware(http.HandlerFunc(gameTimeHandler.DeleteOverride)))
	mux.Handle("GET /v1/game-time/absences", authMiddleware(http.HandlerFunc(gameTimeHandler.ListAbsences)))
	mux.Handle("POST /v1/game-time/absences", authMiddleware(http.HandlerFunc(gameTimeHandler.CreateAbsence)))
	mux.Handle("DELETE /v1/game-time/absences/{absenceId}", authMiddleware(http.HandlerFunc(gameTimeHandler.DeleteAbsence)))
	mux.Handle("GET /v1/game-time/composite", authMiddleware(http.HandlerFunc(gameTimeHandler.GetComposite)))

	// Game catalog endpoints
	mux.Handle("GET /v1/games", authMiddleware(http.HandlerFunc(gameHandler.Search)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(redisClient, middleware.RateLimitConfig{
			Limit:  cfg.RateLimit.Requests,
			Window: cfg.RateLimit.Window,
		}),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
