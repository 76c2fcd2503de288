package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/expert-calendar-api/api/swagger"
	"github.com/noah-isme/expert-calendar-api/internal/handler"
	"github.com/noah-isme/expert-calendar-api/internal/middleware"
	"github.com/noah-isme/expert-calendar-api/internal/repository"
	"github.com/noah-isme/expert-calendar-api/internal/service"
	"github.com/noah-isme/expert-calendar-api/pkg/cache"
	"github.com/noah-isme/expert-calendar-api/pkg/config"
	"github.com/noah-isme/expert-calendar-api/pkg/database"
	"github.com/noah-isme/expert-calendar-api/pkg/export"
	"github.com/noah-isme/expert-calendar-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/expert-calendar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/expert-calendar-api/pkg/middleware/requestid"
)

// @title Expert Calendar API
// @version 1.0.0
// @description Multi-tenant appointment scheduling with recurrence support
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	appointmentSvc := service.NewAppointmentService(appointmentRepo, cacheSvc, metrics, validate, logr)
	mutationSvc := service.NewMutationService(appointmentRepo, cacheSvc, metrics, logr)
	exportSvc := service.NewExportService(
		appointmentSvc,
		export.NewICSExporter(cfg.Exports.CalendarName),
		export.NewPDFExporter(),
		logr,
	)

	authHandler := handler.NewAuthHandler(authSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc, mutationSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/appointments", appointmentHandler.List)
	protected.POST("/appointments", appointmentHandler.Create)
	protected.PATCH("/appointments/:id", appointmentHandler.Update)
	protected.DELETE("/appointments/:id", appointmentHandler.Delete)
	if cfg.Exports.Enabled {
		protected.GET("/appointments/export.ics", exportHandler.ICS)
		protected.GET("/appointments/agenda.pdf", exportHandler.AgendaPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
