package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/muselink/muselink-api/api/swagger"
	"github.com/muselink/muselink-api/internal/handler"
	"github.com/muselink/muselink-api/internal/middleware"
	"github.com/muselink/muselink-api/internal/migrations"
	"github.com/muselink/muselink-api/internal/models"
	"github.com/muselink/muselink-api/internal/repository"
	"github.com/muselink/muselink-api/internal/seed"
	"github.com/muselink/muselink-api/internal/service"
	"github.com/muselink/muselink-api/pkg/cache"
	"github.com/muselink/muselink-api/pkg/config"
	"github.com/muselink/muselink-api/pkg/database"
	"github.com/muselink/muselink-api/pkg/logger"
	corsmiddleware "github.com/muselink/muselink-api/pkg/middleware/cors"
	reqidmiddleware "github.com/muselink/muselink-api/pkg/middleware/requestid"
	"github.com/muselink/muselink-api/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// @title MuseLink API
// @version 1.0.0
// @description Music lesson marketplace API
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.NewMigrator(db, logr).Run(ctx); err != nil {
		logr.Fatal("failed to run migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	accountRepo := repository.NewAccountRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	exportRepo := repository.NewExportRepository(db)

	if cfg.Seed.DemoData {
		if err := seed.New(accountRepo, teacherRepo, availabilityRepo, enrollmentRepo, logr).Run(ctx); err != nil {
			logr.Warn("demo data seeding failed", zap.Error(err))
		}
	}

	validate := validator.New()

	authSvc := service.NewAuthService(accountRepo, teacherRepo, validate, logr, service.AuthConfig{
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
		Issuer:        "muselink-api",
	})
	teacherSvc := service.NewTeacherService(teacherRepo, accountRepo, cacheRepo, validate, logr, service.TeacherServiceConfig{
		ListCacheTTL: cfg.Cache.TeacherListTTL,
	})
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, teacherRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, accountRepo, teacherRepo, cacheRepo, validate, logr)
	lessonSvc := service.NewLessonService(lessonRepo, accountRepo, teacherRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, accountRepo, teacherRepo, validate, logr, service.PaymentConfig{
		AdminFeePercent: cfg.Payments.AdminFeePercent,
	})
	reportSvc := service.NewReportService(reportRepo, cacheRepo, logr, service.ReportConfig{
		CacheTTL: cfg.Cache.ReportTTL,
	})
	metricsSvc := service.NewMetricsService()

	artifactStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(exportRepo, reportRepo, artifactStore, signer, validate, logr, service.ExportConfig{
		Workers:         cfg.Exports.WorkerConcurrency,
		MaxRetries:      cfg.Exports.WorkerRetries,
		ArtifactTTL:     cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	})
	if cfg.Exports.Enabled {
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	go authSvc.RunSessionPurger(ctx, cfg.Session.PurgeInterval)

	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	lessonHandler := handler.NewLessonHandler(lessonSvc, metricsSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	adminHandler := handler.NewAdminHandler(reportSvc, exportSvc, metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	api.GET("/teachers", teacherHandler.ListTeachers)
	api.POST("/teachers/profile/get", teacherHandler.GetProfile)
	api.POST("/availability/get", availabilityHandler.GetAvailability)
	api.POST("/enrollments/list", enrollmentHandler.ListEnrollments)
	api.POST("/lessons/list", lessonHandler.ListLessons)
	api.POST("/payments/history", paymentHandler.PaymentHistory)

	authed := api.Group("", middleware.Session(authSvc))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/teachers/profile", teacherHandler.CreateProfile)
	authed.POST("/teachers/profile/update", teacherHandler.UpdateProfile)
	authed.POST("/availability/set", availabilityHandler.SetAvailability)
	authed.POST("/availability/add", availabilityHandler.AddAvailability)
	authed.POST("/enrollments", enrollmentHandler.Enroll)
	authed.POST("/lessons/book", lessonHandler.BookLesson)
	authed.POST("/lessons/status", lessonHandler.UpdateStatus)
	authed.POST("/payments", paymentHandler.ProcessPayment)
	authed.POST("/payments/earnings", paymentHandler.TeacherEarnings)

	admin := api.Group("/admin", middleware.Session(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/reports/revenue-by-instrument", adminHandler.RevenueByInstrument)
	admin.GET("/reports/revenue-by-student", adminHandler.RevenueByStudent)
	admin.GET("/reports/popular-instruments", adminHandler.PopularInstruments)
	admin.GET("/reports/repeat-customers", adminHandler.RepeatCustomers)
	admin.GET("/reports/overview", adminHandler.Overview)
	admin.GET("/reports/dashboard", adminHandler.Dashboard)
	if cfg.Exports.Enabled {
		admin.POST("/reports/export", adminHandler.CreateExport)
		admin.GET("/reports/export/:id", adminHandler.ExportStatus)
		// Download links carry their own signed token, no session required.
		api.GET("/admin/reports/export/download", adminHandler.DownloadExport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
}
