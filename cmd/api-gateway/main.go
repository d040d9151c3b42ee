package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/shiksha-api/api/swagger"
	"github.com/noah-isme/shiksha-api/internal/handler"
	internalmiddleware "github.com/noah-isme/shiksha-api/internal/middleware"
	"github.com/noah-isme/shiksha-api/internal/repository"
	"github.com/noah-isme/shiksha-api/internal/service"
	"github.com/noah-isme/shiksha-api/pkg/cache"
	"github.com/noah-isme/shiksha-api/pkg/config"
	"github.com/noah-isme/shiksha-api/pkg/database"
	"github.com/noah-isme/shiksha-api/pkg/export"
	"github.com/noah-isme/shiksha-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/shiksha-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/shiksha-api/pkg/middleware/requestid"
	"github.com/noah-isme/shiksha-api/pkg/storage"
)

// @title Shiksha API
// @version 1.0.0
// @description School management backend: homework, auto-graded quizzes, attendance and analytics
// @BasePath /api
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

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var limiter internalmiddleware.RateLimiter
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			limiter = cache.NewSlidingWindowLimiter(redisClient)
		}
	}

	blobs, err := storage.NewLocalStorage(cfg.Files.StorageDir, cfg.Files.MaxFileSizeBytes)
	if err != nil {
		logr.Fatal("failed to prepare file storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Files.SignedURLSecret, cfg.Files.SignedURLTTL)
	apiPrefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	files := service.NewFileService(blobs, signer, apiPrefix+"/files", logr)

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	homeworkRepo := repository.NewHomeworkRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	homeworkSubRepo := repository.NewHomeworkSubmissionRepository(db)
	quizSubRepo := repository.NewQuizSubmissionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	resolver := service.NewAssignmentResolver()
	grader := service.NewGradingEngine()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	homeworkService := service.NewHomeworkService(homeworkRepo, homeworkSubRepo, userRepo, files, resolver, validate, logr)
	quizService := service.NewQuizService(quizRepo, quizSubRepo, resolver, grader, validate, logr)
	guard := service.NewSubmissionGuard(homeworkRepo, quizRepo, homeworkSubRepo, quizSubRepo, files, resolver, grader, metrics, validate, logr)
	exportService := service.NewExportService(homeworkRepo, quizRepo, homeworkSubRepo, quizSubRepo, logr, export.NewCSVExporter(), export.NewPDFExporter())
	attendanceService := service.NewAttendanceService(attendanceRepo, logr)
	materialService := service.NewMaterialService(materialRepo, files, validate, logr)
	schoolService := service.NewSchoolService(schoolRepo, cfg.School.DefaultName, validate, logr)
	analyticsService := service.NewAnalyticsService(analyticsRepo, metrics, logr)
	dashboardService := service.NewDashboardService(analyticsRepo, metrics, logr)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Homework:   handler.NewHomeworkHandler(homeworkService, guard, exportService),
		Quiz:       handler.NewQuizHandler(quizService, guard, exportService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Material:   handler.NewMaterialHandler(materialService),
		School:     handler.NewSchoolHandler(schoolService),
		Analytics:  handler.NewAnalyticsHandler(analyticsService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Files:      handler.NewFileHandler(files, logr),
	}
	metricsHandler := handler.NewMetricsHandler(metrics, db, logr)

	routeMiddleware := handler.RouteMiddleware{
		Authenticate: internalmiddleware.JWT(authService),
		Audit: func(action, resource string) gin.HandlerFunc {
			return internalmiddleware.Audit(auditRepo, logr, action, resource)
		},
	}
	if cfg.RateLimit.Enabled && limiter != nil {
		throttle := internalmiddleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, metrics, logr)
		routeMiddleware.LoginLimit = throttle
		routeMiddleware.SubmitLimit = throttle
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(apiPrefix), handlers, routeMiddleware)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
