package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"famcoach/internal/config"
	"famcoach/internal/handlers"
	"famcoach/internal/llm"
	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/repository"
	"famcoach/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Temporary logger until config decides level and format.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := db.AutoMigrate(
		&model.User{},
		&model.LoginCode{},
		&model.Profile{},
		&model.DailyLog{},
		&model.Insight{},
		&model.ChatMessage{},
		&model.AIUsage{},
	); err != nil {
		slog.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency injection.
	userRepo := repository.NewGormUserRepository()
	codeRepo := repository.NewGormLoginCodeRepository()
	profileRepo := repository.NewGormProfileRepository()
	logRepo := repository.NewGormDailyLogRepository()
	insightRepo := repository.NewGormInsightRepository()
	chatRepo := repository.NewGormChatRepository()
	usageRepo := repository.NewGormUsageRepository()

	mailer := service.NewMailer(&config.Cfg)
	llmClient := llm.NewOpenAIClient(
		config.Cfg.LLM.BaseURL,
		config.Cfg.LLM.APIKey,
		time.Duration(config.Cfg.LLM.TimeoutSec)*time.Second,
	)

	authService := service.NewAuthService(db, userRepo, codeRepo, mailer, &config.Cfg)
	profileService := service.NewProfileService(db, profileRepo)
	logService := service.NewLogService(db, logRepo)
	insightService := service.NewInsightService(db, profileRepo, logRepo, insightRepo, llmClient, &config.Cfg)
	chatService := service.NewChatService(db, profileRepo, insightRepo, chatRepo, llmClient, &config.Cfg)
	assistService := service.NewAssistService(db, profileRepo, usageRepo, llmClient, &config.Cfg)

	authHandler := handlers.NewAuthHandler(authService, logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger)
	logHandler := handlers.NewLogHandler(logService, logger)
	insightHandler := handlers.NewInsightHandler(insightService, logger)
	chatHandler := handlers.NewChatHandler(chatService, logger)
	assistHandler := handlers.NewAssistHandler(assistService, logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(90 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes.
		r.Post("/auth/code", authHandler.RequestCode)
		r.Post("/auth/verify", authHandler.VerifyCode)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(&config.Cfg))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Post("/stages/{index}", profileHandler.SubmitStage)
				r.Post("/midpoint", profileHandler.ResolveMidpoint)
				r.Put("/draft", profileHandler.SaveDraft)
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", logHandler.ListLogs)
				r.Put("/{date}", logHandler.UpsertLog)
			})

			r.Route("/insights", func(r chi.Router) {
				r.Post("/", insightHandler.Generate)
				r.Get("/", insightHandler.List)
			})

			r.Route("/chat", func(r chi.Router) {
				r.Post("/", chatHandler.Send)
				r.Get("/", chatHandler.History)
			})

			r.Post("/assist", assistHandler.Suggest)
			r.Get("/usage", assistHandler.Usage)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
