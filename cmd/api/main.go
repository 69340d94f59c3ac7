package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "plantreminder/internal/application/service"
	"plantreminder/internal/domain/constant"

	// Infrastructure Layer
	"plantreminder/internal/infrastructure/database/sqlite"
	lineClient "plantreminder/internal/infrastructure/line"
	"plantreminder/internal/infrastructure/scheduler"

	// Interfaces Layer
	"plantreminder/internal/interfaces/api/handler"
	"plantreminder/internal/interfaces/api/router"

	// Packages
	"plantreminder/internal/pkg/config"
	appLogger "plantreminder/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"gorm.io/gorm"
)

func gracefulShutdown(apiServer *http.Server, notifier appService.NotificationScheduler, db *gorm.DB, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// Drain requests first; the server has 5 seconds to finish the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	// Stop the scheduler before the store closes so no watering fires against it
	log.Println("Stopping scheduler...")
	notifier.Stop()
	log.Println("Scheduler stopped.")

	log.Println("Closing database connection...")
	if err := sqlite.CloseDB(db); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// newDeliverer picks where fired reminders go based on the configured channel.
func newDeliverer(cfg config.Config, appLog appLogger.Logger) (appService.Deliverer, error) {
	switch cfg.Channel {
	case constant.ChannelLine:
		client, err := lineClient.NewClient(cfg.LineChannelSecret, cfg.LineChannelToken, cfg.LineRecipientID, appLog)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		appLog.Warn("LINE credentials not set, watering reminders will only be logged")
		return appService.NewLogDeliverer(appLog), nil
	}
}

func main() {
	// --- Initialization ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	appLog := appLogger.New(cfg.LogLevel)
	appLog.Info(fmt.Sprintf("Logger initialized. Timezone: %s, delivery: %s", cfg.Location, cfg.Channel))

	// --- Infrastructure ---
	db, err := sqlite.NewDB(cfg.DBPath, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	plantRepo := sqlite.NewPlantRepository(db)
	notifyRepo := sqlite.NewNotificationRepository(db)
	appLog.Info("Database and repositories initialized.")

	deliverer, err := newDeliverer(cfg, appLog)
	if err != nil {
		appLog.Error("Failed to initialize reminder delivery", err)
		os.Exit(1)
	}
	cronScheduler := scheduler.NewScheduler(appLog, cfg.Location)

	// --- Application Services ---
	// One clock for the service and the handler so "today" agrees across both.
	clock := func() time.Time { return time.Now().In(cfg.Location) }
	notifier := appService.NewNotificationScheduler(cronScheduler, notifyRepo, appLog)
	plantSvc := appService.NewPlantService(plantRepo, notifier, deliverer, appLog, appService.WithClock(clock))
	// The scheduler calls back into the plant service when a watering comes due.
	release := notifier.OnFire(plantSvc.HandleWatering)
	defer release()
	appLog.Info("Application services initialized.")

	// --- Resume Schedules ---
	appLog.Info("Resuming watering schedules...")
	if err := plantSvc.Resume(context.Background()); err != nil {
		// Log the error but continue starting the server
		appLog.Error("Failed to resume some watering schedules on startup", err)
	} else {
		appLog.Info("Watering schedules resumed.")
	}

	// --- API Handlers ---
	plantHandler := handler.NewPlantHandler(plantSvc, clock, appLog)
	appLog.Info("API handlers initialized.")

	// --- Router ---
	echoRouter := router.NewRouter(&router.Config{
		PlantHandler: plantHandler,
		Logger:       appLog,
	})

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, notifier, db, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
