package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/itinerary-planner/internal/api"
	"github.com/Rrens/itinerary-planner/internal/config"
	"github.com/Rrens/itinerary-planner/internal/logging"
	"github.com/Rrens/itinerary-planner/internal/offers/amadeus"
	"github.com/Rrens/itinerary-planner/internal/repository/postgres"
	"github.com/Rrens/itinerary-planner/internal/repository/redis"
	"github.com/Rrens/itinerary-planner/internal/repository/sqlite"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("driver", cfg.Database.Driver).
		Msg("Starting itinerary planner API server")

	ctx := context.Background()

	// Initialize storage
	deps, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore.Close()

	// Initialize Redis
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		deps.Redis = redisClient
	}

	provider := amadeus.NewProvider(cfg.Amadeus)
	if !provider.IsConfigured() {
		log.Warn().Msg("Amadeus credentials missing, flight search will fail")
	}
	deps.Offers = provider

	// Initialize router
	router := api.NewRouter(cfg, deps)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// openStore opens the configured database and returns repositories over it
func openStore(ctx context.Context, cfg *config.Config) (api.Deps, io.Closer, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return api.Deps{}, nil, err
		}
		return api.Deps{
			Users:       sqlite.NewUserRepository(db),
			Itineraries: sqlite.NewItineraryRepository(db),
			Flights:     sqlite.NewFlightRepository(db),
			Store:       db,
		}, db, nil

	default:
		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsSource()); err != nil {
				return api.Deps{}, nil, err
			}
		}
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return api.Deps{}, nil, err
		}
		return api.Deps{
			Users:       postgres.NewUserRepository(db),
			Itineraries: postgres.NewItineraryRepository(db),
			Flights:     postgres.NewFlightRepository(db),
			Store:       db,
		}, db, nil
	}
}
