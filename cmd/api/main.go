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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillgate/skillgate-api/internal/config"
	"github.com/skillgate/skillgate-api/internal/database"
	"github.com/skillgate/skillgate-api/internal/handler"
	"github.com/skillgate/skillgate-api/internal/middleware"
	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/repository"
	"github.com/skillgate/skillgate-api/internal/router"
	"github.com/skillgate/skillgate-api/internal/service"
	"github.com/skillgate/skillgate-api/pkg/ai"
	cloud "github.com/skillgate/skillgate-api/pkg/cloudinary"
	"github.com/skillgate/skillgate-api/pkg/media"
	"github.com/skillgate/skillgate-api/pkg/speech"
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

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Course{},
		&models.VideoQuestionSet{},
		&models.MCQSet{},
		&models.EvaluationResult{},
		&models.ReviewerNotification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured, evaluation runs are not locked across instances")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain() //nolint:errcheck
	} else {
		logger.Warn().Msg("nats not configured, completion events are not published")
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	aiClient, err := ai.NewClient(ai.Config{
		Provider: cfg.AIProvider,
		APIKey:   cfg.AIAPIKey(),
		Model:    cfg.AIModel,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("failed to create ai client: %v", err)
	}

	transcriber, err := speech.NewWhisperTranscriber(speech.WhisperConfig{
		APIKey:   cfg.OpenAIAPIKey,
		Model:    cfg.WhisperModel,
		Language: cfg.WhisperLanguage,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("failed to create transcriber: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	resultRepo := repository.NewResultRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	fetcher := media.NewHTTPFetcher(0, logger)
	extractor := speech.NewFFmpegExtractor(cfg.FFmpegBinary, cfg.FFprobeBinary)

	transcriptionService := service.NewTranscriptionService(fetcher, extractor, transcriber, cfg.TranscriptionWorkers, logger)
	judge := service.NewAnswerJudge(aiClient, logger)
	aggregator := service.NewAggregator(aiClient, logger)
	notifier := service.NewCompletionNotifier(studentRepo, courseRepo, notificationRepo, natsConn, logger)

	pipeline := service.NewEvaluationPipelineService(
		resultRepo,
		courseRepo,
		questionRepo,
		transcriptionService,
		judge,
		aggregator,
		notifier,
		redisClient,
		validate,
		logger,
		service.PipelineConfig{
			RunTimeout: cfg.PipelineRunTimeout,
			LockTTL:    cfg.PipelineLockTTL,
		},
	)

	evaluationService := service.NewEvaluationService(resultRepo, courseRepo, pipeline, validate, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	questionService := service.NewQuestionGenerationService(courseRepo, questionRepo, aiClient, validate, logger)
	uploadService := service.NewUploadService(uploader, cfg.UploadMaxSizeMB, logger)
	reviewService := service.NewAdminReviewService(resultRepo, notificationRepo, logger)

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	courseHandler := handler.NewCourseHandler(courseService, questionService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	adminHandler := handler.NewAdminHandler(reviewService, pipeline, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     courseHandler,
		EvaluationHandler: evaluationHandler,
		UploadHandler:     uploadHandler,
		AdminHandler:      adminHandler,
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
