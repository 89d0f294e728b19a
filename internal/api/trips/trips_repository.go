package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the interface for trip, membership and attachment storage.
type Repository interface {
	CreateTrip(ctx context.Context, trip types.Trip) error
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error
	GetUserTrips(ctx context.Context, userID uuid.UUID) ([]*types.Trip, error)

	InviteMember(ctx context.Context, member types.TripMember) error
	UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status types.MemberStatus) error

	AttachPlace(ctx context.Context, attachment types.TripPlace, placeID uuid.UUID) error
	DetachPlace(ctx context.Context, tripID, placeID uuid.UUID) error
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

// CreateTrip inserts a new trip row.
func (r *RepositoryImpl) CreateTrip(ctx context.Context, trip types.Trip) error {
	query := `
        INSERT INTO trips (id, owner_id, name, description, start_lat, start_lon, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.pgpool.Exec(ctx, query,
		trip.ID, trip.OwnerID, trip.Name, trip.Description, trip.StartLat, trip.StartLon,
		trip.StartDate, trip.EndDate, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip row without its associations.
func (r *RepositoryImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	query := `
        SELECT id, owner_id, name, description, start_lat, start_lon, start_date, end_date, created_at, updated_at
        FROM trips
        WHERE id = $1
    `
	var trip types.Trip
	err := r.pgpool.QueryRow(ctx, query, tripID).Scan(
		&trip.ID, &trip.OwnerID, &trip.Name, &trip.Description, &trip.StartLat, &trip.StartLon,
		&trip.StartDate, &trip.EndDate, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTripNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// DeleteTrip removes a trip; memberships, attachments and cached itineraries
// go with it via ON DELETE CASCADE.
func (r *RepositoryImpl) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrTripNotFound
	}
	return nil
}

// GetUserTrips lists trips a user owns or participates in.
func (r *RepositoryImpl) GetUserTrips(ctx context.Context, userID uuid.UUID) ([]*types.Trip, error) {
	query := `
        SELECT DISTINCT t.id, t.owner_id, t.name, t.description, t.start_lat, t.start_lon,
               t.start_date, t.end_date, t.created_at, t.updated_at
        FROM trips t
        LEFT JOIN trip_members tm ON tm.trip_id = t.id
        WHERE t.owner_id = $1 OR (tm.user_id = $1 AND tm.status = 'accepted')
        ORDER BY t.created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get user trips", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get user trips: %w", err)
	}
	defer rows.Close()

	var trips []*types.Trip
	for rows.Next() {
		var t types.Trip
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.StartLat, &t.StartLon,
			&t.StartDate, &t.EndDate, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}
	return trips, nil
}

// InviteMember inserts a pending membership row.
func (r *RepositoryImpl) InviteMember(ctx context.Context, member types.TripMember) error {
	query := `
        INSERT INTO trip_members (trip_id, user_id, role, status, invited_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (trip_id, user_id)
        DO UPDATE SET status = EXCLUDED.status, role = EXCLUDED.role, invited_at = EXCLUDED.invited_at
    `
	_, err := r.pgpool.Exec(ctx, query,
		member.TripID, member.UserID, member.Role, member.Status, member.InvitedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to invite member", slog.Any("error", err))
		return fmt.Errorf("failed to invite member: %w", err)
	}
	return nil
}

// UpdateMemberStatus records an accept/decline response.
func (r *RepositoryImpl) UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status types.MemberStatus) error {
	query := `UPDATE trip_members SET status = $3 WHERE trip_id = $1 AND user_id = $2`
	tag, err := r.pgpool.Exec(ctx, query, tripID, userID, status)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update member status", slog.Any("error", err))
		return fmt.Errorf("failed to update member status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membership not found for trip %s", tripID)
	}
	return nil
}

// AttachPlace joins a place to a trip. A second attachment of the same place
// trips the primary key and surfaces as ErrDuplicateAttachment.
func (r *RepositoryImpl) AttachPlace(ctx context.Context, attachment types.TripPlace, placeID uuid.UUID) error {
	query := `
        INSERT INTO trip_places (trip_id, place_id, is_fixed, day, order_index, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pgpool.Exec(ctx, query,
		attachment.TripID, placeID, attachment.IsFixed, attachment.Day,
		attachment.OrderIndex, attachment.Status, attachment.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return types.ErrDuplicateAttachment
		}
		r.logger.ErrorContext(ctx, "Failed to attach place", slog.Any("error", err))
		return fmt.Errorf("failed to attach place: %w", err)
	}
	return nil
}

// DetachPlace removes a place from a trip.
func (r *RepositoryImpl) DetachPlace(ctx context.Context, tripID, placeID uuid.UUID) error {
	query := `DELETE FROM trip_places WHERE trip_id = $1 AND place_id = $2`
	_, err := r.pgpool.Exec(ctx, query, tripID, placeID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to detach place", slog.Any("error", err))
		return fmt.Errorf("failed to detach place: %w", err)
	}
	return nil
}
