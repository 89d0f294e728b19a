package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository is the read-only place lookup surface. Place writes belong to
// the external search synchronisation service.
type Repository interface {
	GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error)
	SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]*types.Place, error)
}

// RepositoryImpl struct holds the logger and database connection pool
type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

// GetPlace retrieves a place by id.
func (r *RepositoryImpl) GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error) {
	query := `
        SELECT id, name, category_slug, rating, latitude, longitude, address, opening_hours, created_at, updated_at
        FROM places
        WHERE id = $1
    `
	var p types.Place
	err := r.pgpool.QueryRow(ctx, query, placeID).Scan(
		&p.ID, &p.Name, &p.CategorySlug, &p.Rating, &p.Latitude, &p.Longitude,
		&p.Address, &p.OpeningHours, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("place not found: %w", err)
		}
		r.logger.ErrorContext(ctx, "Failed to get place", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return &p, nil
}

// SearchPlaces lists places matching the filter. When a coordinate and radius
// are given the rows are restricted and ordered by geographic distance.
func (r *RepositoryImpl) SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]*types.Place, error) {
	query := `
        SELECT id, name, category_slug, rating, latitude, longitude, address, opening_hours, created_at, updated_at
        FROM places
        WHERE ($1::text IS NULL OR category_slug = $1)
          AND ($2::float8 IS NULL OR rating >= $2)
    `
	args := []any{filter.CategorySlug, filter.MinRating}
	if filter.CategorySlug == "" {
		args[0] = nil
	}

	if filter.Lat != nil && filter.Lon != nil && filter.RadiusMeters != nil {
		query += `
          AND ST_DWithin(
                location::geography,
                ST_SetSRID(ST_MakePoint($4, $3), 4326)::geography,
                $5
              )
        ORDER BY ST_Distance(location::geography, ST_SetSRID(ST_MakePoint($4, $3), 4326)::geography) ASC
        `
		args = append(args, *filter.Lat, *filter.Lon, *filter.RadiusMeters)
	} else {
		query += ` ORDER BY rating DESC NULLS LAST, id`
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to search places", slog.Any("error", err))
		return nil, fmt.Errorf("failed to search places: %w", err)
	}
	defer rows.Close()

	var out []*types.Place
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(
			&p.ID, &p.Name, &p.CategorySlug, &p.Rating, &p.Latitude, &p.Longitude,
			&p.Address, &p.OpeningHours, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}
	return out, nil
}
