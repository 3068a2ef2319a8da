package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"courtline/application"
	"courtline/config"
	"courtline/database"
	"courtline/domain/services"
	"courtline/infrastructure"
	"courtline/infrastructure/observability"
	"courtline/infrastructure/propcache"
	"courtline/repository"
)

// Run initializes and starts the settlement service
func Run(ctx context.Context) error {
	log.Println("Starting courtline settlement service...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize proposition cache
	log.Println("Connecting to Redis...")
	propStore := propcache.NewStore(cfg.RedisAddr, cfg.PropCacheTTL)
	if err := propStore.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("Redis connection established successfully")

	// Initialize NATS
	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := natsClient.EnsurePropEventStream(); err != nil {
		return fmt.Errorf("failed to ensure prop event stream: %w", err)
	}

	// Initialize stat provider gateway
	gateway := infrastructure.NewStatsGateway(cfg.StatsBaseURL,
		infrastructure.WithRateLimit(cfg.StatsRateLimit, cfg.StatsBurst),
	)

	// Initialize repositories and services
	wagerRepo := repository.NewWagerRepository(db)
	matcher := services.NewGameMatcher(services.AmbiguousMatchPolicy(cfg.AmbiguousMatchPolicy))
	guard := services.NewTimingGuard()
	hitRates := services.NewHitRateService(services.NewLegEvaluator())

	orchestrator := application.NewSettlementOrchestrator(
		wagerRepo,
		gateway,
		matcher,
		guard,
		cfg.SettlementConcurrency,
		time.Duration(cfg.SettlementLookbackDays)*24*time.Hour,
		cfg.LegTimeout,
	)

	// Subscribe to sportsbook line movements
	lineUpdates := application.NewLineUpdateHandler(propStore, hitRates)
	if err := application.RegisterSubscriptions(natsClient, lineUpdates); err != nil {
		return fmt.Errorf("failed to register subscriptions: %w", err)
	}

	// Start the settlement loop
	worker := application.NewSettlementWorker(orchestrator, cfg.SettlementInterval, cfg.SettlementPassBudget)
	worker.Start(ctx)

	// Wait for context cancellation
	log.Printf("Settlement service is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down settlement service...")
	worker.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	if err := propStore.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	log.Println("Shutdown completed")
	return nil
}
