package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/smm-analytics-api/api/swagger"
	"github.com/noah-isme/smm-analytics-api/internal/handler"
	"github.com/noah-isme/smm-analytics-api/internal/middleware"
	"github.com/noah-isme/smm-analytics-api/internal/models"
	"github.com/noah-isme/smm-analytics-api/internal/repository"
	"github.com/noah-isme/smm-analytics-api/internal/service"
	"github.com/noah-isme/smm-analytics-api/pkg/cache"
	"github.com/noah-isme/smm-analytics-api/pkg/config"
	"github.com/noah-isme/smm-analytics-api/pkg/database"
	"github.com/noah-isme/smm-analytics-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/smm-analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/smm-analytics-api/pkg/middleware/requestid"
)

// @title SMM Analytics API
// @version 0.1.0
// @description Performance tracking and trend analysis for social media automation
// @BasePath /
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
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()

	// A missing Redis degrades to cache-off, it never blocks startup.
	var cacheService *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Analytics.CacheTTL, logr, true)
	}

	performanceRepo := repository.NewPerformanceRepository(db)

	trackerService := service.NewTrackerService(performanceRepo, cacheService, metricsService, logr)
	analyzerService := service.NewAnalyzerService(performanceRepo, cacheService, metricsService, logr, service.AnalyzerServiceConfig{
		CacheTTL:        cfg.Analytics.CacheTTL,
		DefaultPlatform: models.Platform(cfg.Analytics.DefaultPlatform),
	})
	trendService := service.NewTrendService(performanceRepo, cacheService, metricsService, logr, service.TrendServiceConfig{
		DefaultWindowDays: cfg.Trend.DefaultWindowDays,
		MaxWindowDays:     cfg.Trend.MaxWindowDays,
		CacheTTL:          cfg.Trend.CacheTTL,
		DefaultPlatform:   models.Platform(cfg.Analytics.DefaultPlatform),
	})

	trackingHandler := handler.NewTrackingHandler(trackerService)
	analyticsHandler := handler.NewAnalyticsHandler(analyzerService, trendService, performanceRepo, metricsService, cfg.Export.Enabled)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	tracking := api.Group("/track")
	tracking.Use(middleware.WorkerAuth(cfg.Auth.Secret, cfg.Auth.Enabled))
	tracking.POST("/posts", trackingHandler.TrackPost)
	tracking.POST("/posts/linkedin", trackingHandler.TrackLinkedInPost)
	tracking.POST("/sessions", trackingHandler.TrackSession)

	analytics := api.Group("/analytics")
	analytics.GET("/daily", analyticsHandler.Daily)
	analytics.POST("/daily/run", analyticsHandler.RunDaily)
	analytics.GET("/daily/export", analyticsHandler.ExportDaily)
	analytics.GET("/trends", analyticsHandler.Trends)
	analytics.GET("/sessions/recent", analyticsHandler.RecentSessions)
	analytics.GET("/system", analyticsHandler.System)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
