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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/visen-app/visen-api/internal/config"
	"github.com/visen-app/visen-api/internal/handler"
	"github.com/visen-app/visen-api/internal/kvstore"
	"github.com/visen-app/visen-api/internal/middleware"
	"github.com/visen-app/visen-api/internal/modelout"
	"github.com/visen-app/visen-api/internal/progress"
	"github.com/visen-app/visen-api/internal/repository"
	"github.com/visen-app/visen-api/internal/router"
	"github.com/visen-app/visen-api/internal/service"
	"github.com/visen-app/visen-api/pkg/ai"
	cloud "github.com/visen-app/visen-api/pkg/cloudinary"
	"github.com/visen-app/visen-api/pkg/rasterize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	redisClient, err := kvstore.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store := kvstore.New(redisClient, logger)

	storage, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	converter, err := rasterize.New(cfg.RasterizerURL, logger)
	if err != nil {
		log.Fatalf("failed to create rasterizer client: %v", err)
	}

	chat, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create openai client: %v", err)
	}

	parser, err := modelout.NewParser()
	if err != nil {
		log.Fatalf("failed to compile response schemas: %v", err)
	}

	publisher := buildPublisher(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	resumeRepo := repository.NewResumeRepository(store, logger)
	sessionRepo := repository.NewSessionRepository(store, logger)

	ingestService := service.NewIngestService(resumeRepo, storage, converter, chat, parser, publisher, validate, logger, cfg.MaxUploadMB)
	interviewService := service.NewInterviewService(sessionRepo, resumeRepo, chat, parser, validate, logger)

	resumeHandler := handler.NewResumeHandler(ingestService, logger)
	interviewHandler := handler.NewInterviewHandler(interviewService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.MaxUploadMB+1) << 20,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ResumeHandler:    resumeHandler,
		InterviewHandler: interviewHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildPublisher connects to NATS when configured and falls back to log-only
// progress updates otherwise.
func buildPublisher(cfg config.Config, logger zerolog.Logger) progress.Publisher {
	if cfg.NATSURL == "" {
		return progress.NewLogPublisher(logger)
	}

	conn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, progress updates will be logged only")
		return progress.NewLogPublisher(logger)
	}

	return progress.NewNATSPublisher(conn, cfg.ProgressSubject, logger)
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
