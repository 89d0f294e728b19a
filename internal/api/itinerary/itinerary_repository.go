package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// DB is the subset of pgxpool.Pool the repository needs. Satisfied by both
// *pgxpool.Pool and pgxmock pools in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository defines the storage interface for itinerary generation: the trip
// snapshot fetch and the cached-itinerary upsert/fetch pair.
type Repository interface {
	// GetTripForGeneration loads a trip with its member statuses and place
	// attachments in one consistent snapshot.
	GetTripForGeneration(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)
	UpsertCachedItinerary(ctx context.Context, itinerary *types.Itinerary) error
	// GetCachedItinerary returns (nil, nil) when no row exists for the key.
	GetCachedItinerary(ctx context.Context, tripID uuid.UUID, dayCount int) (*types.Itinerary, error)
}

// RepositoryImpl struct holds the logger and database handle
type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

// GetTripForGeneration fetches the trip row, then its members and candidate
// place attachments. Ordered by order_index so origin fallback and scoring
// stay deterministic across calls.
func (r *RepositoryImpl) GetTripForGeneration(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	tripQuery := `
        SELECT id, owner_id, name, description, start_lat, start_lon, created_at, updated_at
        FROM trips
        WHERE id = $1
    `
	var trip types.Trip
	err := r.db.QueryRow(ctx, tripQuery, tripID).Scan(
		&trip.ID, &trip.OwnerID, &trip.Name, &trip.Description,
		&trip.StartLat, &trip.StartLon, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTripNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		r.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	memberQuery := `
        SELECT trip_id, user_id, role, status, invited_at
        FROM trip_members
        WHERE trip_id = $1
        ORDER BY invited_at, user_id
    `
	rows, err := r.db.Query(ctx, memberQuery, tripID)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		r.logger.ErrorContext(ctx, "Failed to get trip members", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get trip members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m types.TripMember
		if err := rows.Scan(&m.TripID, &m.UserID, &m.Role, &m.Status, &m.InvitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip member: %w", err)
		}
		trip.Members = append(trip.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip members: %w", err)
	}

	placeQuery := `
        SELECT tp.trip_id, tp.is_fixed, tp.day, tp.order_index, tp.status, tp.created_at,
               p.id, p.name, p.category_slug, p.rating, p.latitude, p.longitude, p.address,
               p.opening_hours, p.created_at, p.updated_at
        FROM trip_places tp
        JOIN places p ON p.id = tp.place_id
        WHERE tp.trip_id = $1
        ORDER BY tp.order_index, p.id
    `
	placeRows, err := r.db.Query(ctx, placeQuery, tripID)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		r.logger.ErrorContext(ctx, "Failed to get trip places", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get trip places: %w", err)
	}
	defer placeRows.Close()
	for placeRows.Next() {
		var tp types.TripPlace
		if err := placeRows.Scan(
			&tp.TripID, &tp.IsFixed, &tp.Day, &tp.OrderIndex, &tp.Status, &tp.CreatedAt,
			&tp.Place.ID, &tp.Place.Name, &tp.Place.CategorySlug, &tp.Place.Rating,
			&tp.Place.Latitude, &tp.Place.Longitude, &tp.Place.Address,
			&tp.Place.OpeningHours, &tp.Place.CreatedAt, &tp.Place.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip place: %w", err)
		}
		trip.Places = append(trip.Places, tp)
	}
	if err := placeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip places: %w", err)
	}

	return &trip, nil
}

// UpsertCachedItinerary writes the computed schedule for (trip_id, day_count),
// overwriting any prior row. Last-writer-wins is fine: concurrent writers
// computing from the same snapshot produce identical schedules.
func (r *RepositoryImpl) UpsertCachedItinerary(ctx context.Context, itinerary *types.Itinerary) error {
	schedule, err := json.Marshal(itinerary.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal itinerary schedule: %w", err)
	}

	query := `
        INSERT INTO trip_itineraries (trip_id, day_count, radius_meters, algorithm, schedule, generated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (trip_id, day_count)
        DO UPDATE SET radius_meters = EXCLUDED.radius_meters,
                      algorithm = EXCLUDED.algorithm,
                      schedule = EXCLUDED.schedule,
                      generated_at = EXCLUDED.generated_at
    `
	_, err = r.db.Exec(ctx, query,
		itinerary.TripID, itinerary.DayCount, itinerary.RadiusMeters, itinerary.Algorithm, schedule, itinerary.GeneratedAt,
	)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		r.logger.ErrorContext(ctx, "Failed to upsert cached itinerary", slog.Any("error", err))
		return fmt.Errorf("failed to upsert cached itinerary: %w", err)
	}
	return nil
}

// GetCachedItinerary reads a previously stored schedule for the key.
func (r *RepositoryImpl) GetCachedItinerary(ctx context.Context, tripID uuid.UUID, dayCount int) (*types.Itinerary, error) {
	query := `
        SELECT trip_id, day_count, radius_meters, algorithm, schedule, generated_at
        FROM trip_itineraries
        WHERE trip_id = $1 AND day_count = $2
    `
	var (
		it          types.Itinerary
		scheduleRaw []byte
		generatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, tripID, dayCount).Scan(
		&it.TripID, &it.DayCount, &it.RadiusMeters, &it.Algorithm, &scheduleRaw, &generatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		r.logger.ErrorContext(ctx, "Failed to get cached itinerary", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get cached itinerary: %w", err)
	}
	if err := json.Unmarshal(scheduleRaw, &it.Schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal itinerary schedule: %w", err)
	}
	it.Cached = true
	it.Source = types.ItinerarySourceHit
	it.GeneratedAt = generatedAt
	return &it, nil
}
