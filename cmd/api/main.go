package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/config"
	"github.com/konekt/konekt-api/internal/domain/auth"
	"github.com/konekt/konekt-api/internal/domain/call"
	"github.com/konekt/konekt-api/internal/domain/chat"
	"github.com/konekt/konekt-api/internal/domain/follow"
	"github.com/konekt/konekt-api/internal/domain/media"
	"github.com/konekt/konekt-api/internal/domain/notification"
	"github.com/konekt/konekt-api/internal/domain/points"
	"github.com/konekt/konekt-api/internal/domain/post"
	"github.com/konekt/konekt-api/internal/domain/user"
	"github.com/konekt/konekt-api/internal/domain/verification"
	"github.com/konekt/konekt-api/internal/middleware"
	"github.com/konekt/konekt-api/internal/pkg/database"
	"github.com/konekt/konekt-api/internal/pkg/email"
	"github.com/konekt/konekt-api/internal/pkg/imaging"
	"github.com/konekt/konekt-api/internal/pkg/jwt"
	"github.com/konekt/konekt-api/internal/pkg/logger"
	pkgresponse "github.com/konekt/konekt-api/internal/pkg/response"
	"github.com/konekt/konekt-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Konekt API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	// Redis is optional. Without it rate limiting is disabled, refresh
	// tokens are validated statelessly and verification codes live in
	// process memory.
	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running in degraded mode")
		redisClient = nil
	} else {
		defer database.CloseRedis(redisClient)
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	var emailService *email.Service
	if cfg.SendGridAPIKey != "" {
		emailService = email.NewService(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		defer emailService.Close()
	}

	var mediaStore storage.Storage
	if cfg.S3AccessKey != "" {
		s3Store, err := storage.NewS3Storage(storage.Config{
			S3Endpoint:  cfg.S3Endpoint,
			S3Region:    cfg.S3Region,
			S3AccessKey: cfg.S3AccessKey,
			S3SecretKey: cfg.S3SecretKey,
			S3Bucket:    cfg.S3Bucket,
			S3PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to init S3 storage")
		}
		mediaStore = s3Store
	} else {
		localStore, err := storage.NewLocalStorage("uploads", "/uploads")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to init local storage")
		}
		mediaStore = localStore
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	pointsRepo := points.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	callRepo := call.NewRepository(db)
	followRepo := follow.NewRepository(db)
	postRepo := post.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// ---------- Realtime hub ----------
	hub := chat.NewHub(redisClient)
	go hub.Run()

	// ---------- Services ----------
	notificationService := notification.NewService(notificationRepo, notification.NewWSPublisher(hub))
	dispatcher := notification.NewDispatcher(notificationService, hub, userRepo, emailService)

	userService := user.NewService(userRepo, followRepo)
	pointsService := points.NewService(pointsRepo, userRepo, dispatcher, cfg.TransferCeiling)
	chatService := chat.NewService(chatRepo, userRepo, hub)
	callService := call.NewService(callRepo, chatRepo, dispatcher, cfg.StaleCallThreshold)
	followService := follow.NewService(followRepo, userRepo, dispatcher)
	postService := post.NewService(postRepo, dispatcher)
	authService := auth.NewService(userRepo, jwtService, redisClient, emailService)
	mediaService := media.NewService(mediaStore, imaging.NewProcessor(imaging.DefaultConfig()))

	var verificationStore verification.Store
	if redisClient != nil {
		verificationStore = verification.NewRedisStore(redisClient)
	} else {
		memStore := verification.NewMemoryStore(time.Minute)
		defer memStore.Close()
		verificationStore = memStore
	}
	var codeSender verification.CodeSender
	if emailService != nil {
		codeSender = verification.NewEmailSender(userRepo, emailService)
	}
	verificationService := verification.NewService(verificationStore, userRepo, codeSender, dispatcher, cfg.VerificationCodeTTL)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService, mediaService)
	pointsHandler := points.NewHandler(pointsService)
	chatHandler := chat.NewHandler(chatService, hub, redisClient, cfg.AllowedOrigins)
	callHandler := call.NewHandler(callService)
	followHandler := follow.NewHandler(followService)
	postHandler := post.NewHandler(postService)
	notificationHandler := notification.NewHandler(notificationService)
	verificationHandler := verification.NewHandler(verificationService)
	mediaHandler := media.NewHandler(mediaService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint. Browsers cannot set headers on WS upgrade
	// requests, so the token also rides in the query string.
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		chatHandler.WSRoute(authMiddleware).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	if _, ok := mediaStore.(*storage.LocalStorage); ok {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/users", userHandler.Routes(authMiddleware))
		r.Mount("/points", pointsHandler.Routes(authMiddleware))
		r.Mount("/chat", chatHandler.Routes(authMiddleware))
		r.Mount("/calls", callHandler.Routes(authMiddleware))
		r.Mount("/follows", followHandler.Routes(authMiddleware))
		r.Mount("/posts", postHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/verification", verificationHandler.Routes(authMiddleware))
		r.Mount("/media", mediaHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
