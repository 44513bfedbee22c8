package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-schedule/internal/api"
	"alcyxob/fitness-schedule/internal/config"
	"alcyxob/fitness-schedule/internal/generator"
	"alcyxob/fitness-schedule/internal/logging"
	"alcyxob/fitness-schedule/internal/metrics"
	"alcyxob/fitness-schedule/internal/repository/mongo"
	"alcyxob/fitness-schedule/internal/service"
	"alcyxob/fitness-schedule/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Schedule API
// @version 1.0
// @description Weekly fitness schedules with recurring items and generated workout plans.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}
	logging.Setup(cfg.Log)
	log.Info("starting fitness schedule server...")

	// --- Database Connection ---
	dbClient, appDB, err := mongo.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %s", err)
	}

	// --- Metrics ---
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, promRegistry)

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	itemRepo := mongo.NewMongoScheduleItemRepository(appDB, scheduleRepo)
	workoutTemplateRepo := mongo.NewMongoWorkoutTemplateRepository(appDB)
	scheduleTemplateRepo := mongo.NewMongoScheduleTemplateRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	scheduleService := service.NewScheduleService(scheduleRepo, itemRepo, fileStorage, metricsManager)
	generatorService := service.NewGeneratorService(
		userRepo,
		workoutTemplateRepo,
		scheduleTemplateRepo,
		scheduleRepo,
		itemRepo,
		generator.New(),
		cfg.Generator,
		metricsManager,
	)

	// --- Initialize Gin Engine ---
	if logging.GetLevel(cfg.Log.Level) < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Services{
		Auth:      authService,
		Schedule:  scheduleService,
		Generator: generatorService,
	}, metricsManager, promRegistry)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Info("server exiting")
}
