package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkanj70/Accelerated-Report/api"
	"github.com/fkanj70/Accelerated-Report/config"
	"github.com/fkanj70/Accelerated-Report/dashboard"
	"github.com/fkanj70/Accelerated-Report/datastore"
	"github.com/fkanj70/Accelerated-Report/delivery"
	"github.com/fkanj70/Accelerated-Report/models"
	rh "github.com/fkanj70/Accelerated-Report/route-handlers"
	"github.com/fkanj70/Accelerated-Report/scheduler"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration load failed: %v", err)
	}

	store, err := datastore.OpenStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Datastore setup failed: %v", err)
	}
	defer store.Close()

	queueRepo := datastore.NewQueueRepository(store)
	recentRepo := datastore.NewRecentRepository(store)
	attemptRepo := datastore.NewAttemptRepository(store)

	// Delivery path: real client wrapped in the chaos injector so the
	// whole retry pipeline sees injected faults as ordinary failures.
	httpClient := delivery.NewHTTPClient(cfg.BackendURL, nil)
	chaosClient := delivery.NewChaosClient(httpClient, delivery.ChaosConfig{
		DelayProbability:   cfg.ChaosDelayProbability,
		FailureProbability: cfg.ChaosFailureProbability,
		Delay:              cfg.ChaosDelay,
	})
	chaosClient.SetEnabled(cfg.ChaosEnabled)

	platform, ok := models.IsValidPlatform(cfg.Platform)
	if !ok {
		log.Printf("WARNING: Invalid PLATFORM %q, defaulting to %s", cfg.Platform, models.PlatformWeb)
		platform = models.PlatformWeb
	}

	submissionService := delivery.NewSubmissionService(
		chaosClient,
		queueRepo,
		recentRepo,
		attemptRepo,
		platform,
		cfg.AppVersion,
	)

	retryScheduler := scheduler.New(
		queueRepo,
		recentRepo,
		attemptRepo,
		chaosClient,
		nil, // log-based notifications
		cfg.RetryInterval,
		cfg.MaxRetries,
	)

	dashboardPoller := dashboard.New(cfg.BackendURL, nil, cfg.DashboardInterval)

	reportHandler := rh.NewReportHandler(submissionService, queueRepo, recentRepo, attemptRepo)
	chaosHandler := rh.NewChaosHandler(chaosClient)
	dashboardHandler := rh.NewDashboardHandler(dashboardPoller)

	router := api.SetupRoutes(reportHandler, chaosHandler, dashboardHandler, retryScheduler)

	retryScheduler.Start()
	dashboardPoller.Start()

	startServer(cfg.Port, router)

	// Server has stopped; tear down the background loops before the
	// deferred store close.
	retryScheduler.Stop()
	dashboardPoller.Stop()
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Widget agent starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
