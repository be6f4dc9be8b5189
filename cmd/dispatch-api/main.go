package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fieldserve/dispatch-api/api/swagger"
	"github.com/fieldserve/dispatch-api/internal/handler"
	"github.com/fieldserve/dispatch-api/internal/middleware"
	"github.com/fieldserve/dispatch-api/internal/repository"
	"github.com/fieldserve/dispatch-api/internal/service"
	"github.com/fieldserve/dispatch-api/pkg/cache"
	"github.com/fieldserve/dispatch-api/pkg/config"
	"github.com/fieldserve/dispatch-api/pkg/database"
	"github.com/fieldserve/dispatch-api/pkg/logger"
	corsmiddleware "github.com/fieldserve/dispatch-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fieldserve/dispatch-api/pkg/middleware/requestid"
)

// @title Dispatch API
// @version 1.0.0
// @description Scheduling engine for field engineer dispatch
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Dispatch.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	engineerRepo := repository.NewEngineerRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	ruleRepo := repository.NewRuleRepository(db)

	var dispatchSvc *service.DispatchService
	if cacheRepo != nil {
		dispatchSvc = service.NewDispatchService(engineerRepo, entryRepo, cacheRepo, cfg.Dispatch.CacheTTL, cfg.Dispatch.SlotMinutes, metrics, validate, logr)
	} else {
		dispatchSvc = service.NewDispatchService(engineerRepo, entryRepo, nil, cfg.Dispatch.CacheTTL, cfg.Dispatch.SlotMinutes, metrics, validate, logr)
	}
	recurringSvc := service.NewRecurringService(ruleRepo, entryRepo, engineerRepo, dispatchSvc, metrics, validate, logr)

	entryHandler := handler.NewEntryHandler(dispatchSvc)
	engineerHandler := handler.NewEngineerHandler(dispatchSvc)
	ruleHandler := handler.NewRuleHandler(recurringSvc)
	scheduleHandler := handler.NewScheduleHandler(recurringSvc, dispatchSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/entries", entryHandler.List)
		api.POST("/entries", entryHandler.Create)
		api.PATCH("/entries/:id", entryHandler.Move)
		api.PATCH("/entries/:id/status", entryHandler.UpdateStatus)
		api.DELETE("/entries/:id", entryHandler.Delete)

		api.GET("/engineers", engineerHandler.List)
		api.POST("/engineers", engineerHandler.Create)
		api.GET("/engineers/:id", engineerHandler.Get)
		api.PUT("/engineers/:id/schedule-config", engineerHandler.UpdateScheduleConfig)
		api.GET("/engineers/:id/availability", engineerHandler.Availability)

		api.GET("/recurring-rules", ruleHandler.List)
		api.POST("/recurring-rules", ruleHandler.Create)
		api.DELETE("/recurring-rules/:id", ruleHandler.Delete)

		api.POST("/schedule/generate", scheduleHandler.Generate)
		api.POST("/schedule/copy-week", scheduleHandler.CopyWeek)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
