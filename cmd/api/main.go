package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boutique/internal/checkout"
	"boutique/internal/config"
	"boutique/internal/database"
	"boutique/internal/handler"
	"boutique/internal/notification"
	"boutique/internal/repository"
	"boutique/internal/router"
	"boutique/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting boutique API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MongoDB connection
	client, err := database.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureIndexes(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db, logger)
	addressRepo := repository.NewAddressRepository(db, logger)
	cartRepo := repository.NewCartRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	auditRepo := repository.NewAuditRepository(db, logger)

	// Initialize checkout pipeline components
	validator := checkout.NewInventoryValidator(productRepo, logger)
	resolver := checkout.NewAddressResolver(addressRepo, logger)
	coordinator := checkout.NewCoordinator(client, logger)

	// Initialize order confirmation dispatcher
	var dispatcher notification.Dispatcher
	if cfg.Kafka.Enabled {
		dispatcher = notification.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("kafka order confirmations enabled")
	} else {
		dispatcher = notification.NewNop()
		logger.Info().Msg("order confirmations disabled (kafka not configured)")
	}

	// Initialize services
	auditService := service.NewAuditService(auditRepo, logger)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		cartRepo,
		userRepo,
		validator,
		resolver,
		coordinator,
		dispatcher,
		auditService,
		logger,
	)
	cartService := service.NewCartService(cartRepo, logger)
	addressService := service.NewAddressService(addressRepo, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	addressHandler := handler.NewAddressHandler(addressService, logger)
	auditHandler := handler.NewAuditHandler(auditService, logger)

	// Initialize router
	mux := router.New(orderHandler, cartHandler, addressHandler, auditHandler, cfg.Auth.JWTSecret, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
