package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/internal/config"
	"github.com/classboard-dev/classboard-api/internal/database"
	"github.com/classboard-dev/classboard-api/internal/grading"
	"github.com/classboard-dev/classboard-api/internal/handler"
	"github.com/classboard-dev/classboard-api/internal/mailer"
	"github.com/classboard-dev/classboard-api/internal/middleware"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
	"github.com/classboard-dev/classboard-api/internal/router"
	"github.com/classboard-dev/classboard-api/internal/service"
	"github.com/classboard-dev/classboard-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Assignment{}, &models.Submission{}, &models.Attendance{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Grading degrades to sentinel results when no credential is set,
	// so the server still boots without one.
	var chatClient ai.ChatClient
	if cfg.AIConfigured() {
		groq, err := ai.NewGroqClient(ai.GroqConfig{
			APIKey:         cfg.GroqAPIKey,
			BaseURL:        cfg.GroqBaseURL,
			RequestTimeout: cfg.AIRequestTimeout,
			Logger:         logger,
		})
		if err != nil {
			log.Fatalf("failed to create model client: %v", err)
		}
		chatClient = groq
	} else {
		logger.Warn().Msg("no model credential configured, grading runs in degraded mode")
	}

	var mail mailer.Mailer
	if cfg.MailProvider == "sendgrid" && cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddress, logger)
	} else {
		mail = mailer.NewLogMailer(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	vision := grading.NewVisionClient(chatClient, cfg.VisionModel, logger)
	extractor := grading.NewExtractor(vision, logger)
	scorer := grading.NewScorer(chatClient, cfg.ReasoningModel, logger)
	grader := grading.NewGrader(extractor, scorer, logger)
	keygen := grading.NewKeyGenerator(chatClient, cfg.ReasoningModel, logger)

	authService := service.NewAuthService(userRepo, redisClient, mail, validate, logger, cfg.JWTSecret, cfg.JWTExpiry, cfg.OTPTTL)
	assignmentService := service.NewAssignmentService(assignmentRepo, userRepo, extractor, keygen, validate, logger, cfg.MaxUploadMB)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, grader, logger, cfg.MaxUploadMB)
	attendanceService := service.NewAttendanceService(attendanceRepo, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, assignmentRepo, submissionRepo, attendanceRepo, redisClient, cfg.DashboardCacheTTL, logger)
	chatService := service.NewChatService(chatClient, cfg.ReasoningModel, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) << 20,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, userRepo, logger),
		ChatHandler:       handler.NewChatHandler(chatService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
