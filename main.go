package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cexwatch/promoworker/config"
	"cexwatch/promoworker/helpers"
	"cexwatch/promoworker/internal/sources"
	"cexwatch/promoworker/internal/urltpl"
	"cexwatch/promoworker/logger"
	"cexwatch/promoworker/services/cache"
	"cexwatch/promoworker/services/identity"
	"cexwatch/promoworker/services/pricing"
	"cexwatch/promoworker/services/publisher"
	"cexwatch/promoworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("poll_interval", cfg.PollInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Build promotion and staking sources
	srcs := sources.CreateSources(&cfg, sources.Deps{
		Cache:    services.Cache,
		Identity: services.Identity,
		Oracle:   services.Pricing,
		Links:    services.Links,
	})
	if len(srcs) == 0 {
		log.Fatal().Msg("No sources were created")
	}

	log.Info().
		Int("source_count", len(srcs)).
		Msg("Created sources")

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		srcs,
		services.Publisher,
		helpers.NewLogger("error.log"),
		cfg.PollInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting promo worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Identity  *identity.Provider
	Pricing   *pricing.Service
	Links     *urltpl.Builder
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	if cacheService == nil {
		return nil, fmt.Errorf("failed to create cache service")
	}
	services.Cache = cacheService

	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Initialize publisher
	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	if redisPublisher == nil {
		return nil, fmt.Errorf("failed to create redis publisher")
	}
	services.Publisher = redisPublisher

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Transport identities: proxy pool failure is not fatal, requests
	// fall back to direct connections
	services.Identity = identity.NewProvider()
	if err := services.Identity.Refresh(); err != nil {
		logger.Warn("Failed to initialize proxy pool: %v", err)
	}
	logger.Info("Proxy pool ready with %d proxies", services.Identity.PoolSize())

	// Price oracle and URL template store
	services.Pricing = pricing.NewService(cfg.PriceAPIURL, cacheService)
	services.Links = urltpl.NewBuilder(urltpl.NewStore(cfg.TemplatePath))

	return services, nil
}
