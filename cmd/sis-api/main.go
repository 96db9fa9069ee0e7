package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sis-api/api/swagger"
	"github.com/noah-isme/sis-api/internal/handler"
	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/cache"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	"github.com/noah-isme/sis-api/pkg/export"
	"github.com/noah-isme/sis-api/pkg/jobs"
	"github.com/noah-isme/sis-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-api/pkg/middleware/requestid"
	"github.com/noah-isme/sis-api/pkg/storage"
)

// @title SIS API
// @version 1.0.0
// @description College student information system: enrollments, grade components, standings and transcripts.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if err := database.Migrate(ctx, db, cfg.Database.Seed); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, standing cache disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	componentRepo := repository.NewGradeComponentRepository(db)
	programRepo := repository.NewProgramRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	pmdRepo := repository.NewPmdRepository(db)
	rafehRepo := repository.NewRafehRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.StandingTTL, logr, cacheRepo != nil)
	standingSvc := service.NewStandingService(studentRepo, enrollmentRepo, cacheSvc, auditRepo, cfg.Cache.StandingTTL, logr)
	standingSvc.InvalidateAll(ctx)
	gradeSvc := service.NewGradeService(enrollmentRepo, componentRepo, standingSvc, auditRepo, metricsSvc, validate, logr,
		service.GradeConfig{RejectOutOfRange: cfg.Grading.RejectOutOfRange})
	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, standingSvc, validate, logr)
	programSvc := service.NewProgramService(programRepo, export.NewCSVExporter(), logr)
	pmdSvc := service.NewPmdService(pmdRepo, enrollmentRepo, auditRepo, validate, logr)
	rafehSvc := service.NewRafehService(rafehRepo, studentRepo, auditRepo, validate, logr)
	recordsSvc := service.NewRecordsService(repository.NewAttendanceRepository(db), repository.NewFinancialRepository(db),
		repository.NewTrainingRepository(db), studentRepo, enrollmentRepo, validate, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)
	authSvc := service.NewAuthService(userRepo, studentRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	if created, err := authSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		logr.Warn("bootstrap admin not created", zap.Error(err))
	} else if created {
		logr.Info("bootstrap admin ready", zap.String("username", cfg.Bootstrap.AdminUsername))
	}

	fileStore, err := storage.NewLocalStorage(cfg.Transcripts.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare transcript storage", zap.Error(err))
	}
	transcriptSvc := service.NewTranscriptService(studentRepo, enrollmentRepo, transcriptRepo, fileStore,
		storage.NewSignedURLSigner(cfg.Transcripts.SignedURLSecret, cfg.Transcripts.SignedURLTTL),
		export.NewPDFExporter(), auditRepo, metricsSvc, logr,
		service.TranscriptConfig{DownloadPath: cfg.APIPrefix + "/transcript-downloads"})

	transcriptQueue := jobs.NewQueue("transcripts", transcriptSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Transcripts.Workers,
		MaxRetries: cfg.Transcripts.Retries,
		OnFailure:  transcriptSvc.HandleFailure,
		Logger:     logr,
	})
	transcriptSvc.UseQueue(transcriptQueue)
	transcriptQueue.Start(ctx)
	defer transcriptQueue.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, transcriptQueue)
	r.GET("/health", metricsHandler.Health)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Students:    handler.NewStudentHandler(studentSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc, gradeSvc),
		Programs:    handler.NewProgramHandler(programSvc),
		Standing:    handler.NewStandingHandler(standingSvc),
		Transcripts: handler.NewTranscriptHandler(transcriptSvc),
		Pmd:         handler.NewPmdHandler(pmdSvc),
		Rafeh:       handler.NewRafehHandler(rafehSvc),
		Records:     handler.NewRecordsHandler(recordsSvc),
		Audit:       handler.NewAuditHandler(auditSvc),
	}, authSvc, handler.Owners{
		Enrollment: enrollmentSvc.OwnerOf,
		Transcript: transcriptSvc.OwnerOf,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, strconv.Itoa(cfg.Port)),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(fmt.Errorf("shutdown: %w", err)))
	}
}
