package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/uniapply/uniapply-api/api/swagger"
	"github.com/uniapply/uniapply-api/internal/handler"
	"github.com/uniapply/uniapply-api/internal/middleware"
	"github.com/uniapply/uniapply-api/internal/migrations"
	"github.com/uniapply/uniapply-api/internal/repository"
	"github.com/uniapply/uniapply-api/internal/service"
	"github.com/uniapply/uniapply-api/pkg/cache"
	"github.com/uniapply/uniapply-api/pkg/config"
	"github.com/uniapply/uniapply-api/pkg/database"
	"github.com/uniapply/uniapply-api/pkg/logger"
	corsmiddleware "github.com/uniapply/uniapply-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uniapply/uniapply-api/pkg/middleware/requestid"
	"github.com/uniapply/uniapply-api/pkg/storage"
)

// @title UniApply API
// @version 1.0.0
// @description Student application management backend
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := migrations.New(db, logr).Run(ctx); err != nil {
		logr.Fatal("failed to run migrations", zap.Error(err))
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	programRepo := repository.NewProgramRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	universitySvc := service.NewUniversityService(universityRepo, cacheSvc, validate, logr)
	programSvc := service.NewProgramService(programRepo, cacheSvc, validate, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, notificationRepo, store, cfg.APIPrefix+"/uploads", logr)
	messageSvc := service.NewMessageService(messageRepo, applicationRepo, userRepo, notificationRepo, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, logr)

	if err := userSvc.EnsureDefaultAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		logr.Fatal("failed to seed admin account", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, store.Dir(), handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Users:         handler.NewUserHandler(userSvc),
		Students:      handler.NewStudentHandler(studentSvc),
		Universities:  handler.NewUniversityHandler(universitySvc),
		Programs:      handler.NewProgramHandler(programSvc),
		Applications:  handler.NewApplicationHandler(applicationSvc),
		Messages:      handler.NewMessageHandler(messageSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
