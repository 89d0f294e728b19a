package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-group-trip-planner/app/db"
	"github.com/FACorreiaa/go-group-trip-planner/config"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/trips"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	Pool              *pgxpool.Pool
	DatabaseURL       string
	TripHandler       *trips.HandlerImpl
	PlaceHandler      *places.HandlerImpl
	PreferenceHandler *preferences.HandlerImpl
	ItineraryHandler  *itinerary.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	prefRepo := preferences.NewRepository(pool, logger)
	prefService := preferences.NewService(prefRepo, logger)
	prefHandler := preferences.NewHandler(prefService, logger)

	tripRepo := trips.NewRepository(pool, logger)
	tripService := trips.NewService(tripRepo, logger)
	tripHandler := trips.NewHandler(tripService, logger)

	placeRepo := places.NewRepository(pool, logger)
	placeHandler := places.NewHandler(placeRepo, logger)

	itineraryRepo := itinerary.NewRepository(pool, logger)
	itineraryCache := itinerary.NewCache(itineraryRepo, logger)
	itineraryService := itinerary.NewService(itineraryRepo, prefService, itineraryCache, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Pool:              pool,
		DatabaseURL:       dbConfig.ConnectionURL,
		TripHandler:       tripHandler,
		PlaceHandler:      placeHandler,
		PreferenceHandler: prefHandler,
		ItineraryHandler:  itineraryHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
