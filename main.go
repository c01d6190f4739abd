// File: chargehub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"chargehub/config"
	"chargehub/cron"
	"chargehub/database"
	bookingRepo "chargehub/database/repository/booking"
	recordsRepo "chargehub/database/repository/records"
	"chargehub/handlers"
	"chargehub/middleware"
	"chargehub/routes"
	"chargehub/services/sweep"
	"chargehub/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	// repositories.
	bkRepo := bookingRepo.NewFirestoreBookingRepo(database.FirestoreClient)

	var sweepRecords recordsRepo.SweepRecordRepository
	if config.AppConfig.DatabaseURL != "" {
		database.InitMongo()
		sweepRecords = recordsRepo.NewMongoSweepRecordRepo()
	}

	var lease sweep.PassLease
	if config.AppConfig.RedisAddr != "" {
		utils.InitRedis()
		lease = sweep.NewRedisPassLease(utils.GetSweepRedisClient(), 2*config.AppConfig.SweepTimeout)
	}

	// services.
	sweepService := &sweep.DefaultSweepService{
		Repo:    bkRepo,
		Records: sweepRecords,
		Lease:   lease,
		Logger:  logger,
	}

	// Trigger: in-process cron by default, asynq worker mode when several
	// instances share one Redis.
	if config.AppConfig.WorkerMode {
		cron.InitSweepWorker(sweepService)
	} else {
		scheduler := cron.StartScheduler(sweepService, logger)
		defer scheduler.Stop()
	}

	// Create the Gin router for the ops surface.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	sweepHandler := handlers.NewSweepHandler(sweepService, sweepRecords, logger)
	routes.RegisterRoutes(router, sweepHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
