package trips

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for trip operations.
type Service interface {
	CreateTrip(ctx context.Context, ownerID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error
	GetUserTrips(ctx context.Context, userID uuid.UUID) ([]*types.Trip, error)
	InviteMember(ctx context.Context, tripID, userID uuid.UUID, role string) error
	RespondToInvite(ctx context.Context, tripID, userID uuid.UUID, status types.MemberStatus) error
	AttachPlace(ctx context.Context, tripID uuid.UUID, req types.AttachPlaceRequest) error
	DetachPlace(ctx context.Context, tripID, placeID uuid.UUID) error
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

// NewService creates a new trip service instance.
func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// CreateTrip creates a trip owned by ownerID.
func (s *ServiceImpl) CreateTrip(ctx context.Context, ownerID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("owner.id", ownerID.String()),
		attribute.String("trip.name", req.Name),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("ownerID", ownerID.String()))

	now := time.Now().UTC()
	trip := types.Trip{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		StartLat:    req.StartLat,
		StartLon:    req.StartLon,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		return nil, fmt.Errorf("error creating trip: %w", err)
	}

	l.InfoContext(ctx, "Trip created successfully", slog.String("tripID", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created successfully")
	return &trip, nil
}

// GetTrip retrieves a single trip.
func (s *ServiceImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

// DeleteTrip removes a trip and everything attached to it.
func (s *ServiceImpl) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteTrip"), slog.String("tripID", tripID.String()))

	if err := s.repo.DeleteTrip(ctx, tripID); err != nil {
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		return err
	}

	l.InfoContext(ctx, "Trip deleted successfully")
	span.SetStatus(codes.Ok, "Trip deleted successfully")
	return nil
}

// GetUserTrips lists trips the user owns or has accepted an invite to.
func (s *ServiceImpl) GetUserTrips(ctx context.Context, userID uuid.UUID) ([]*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetUserTrips", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	trips, err := s.repo.GetUserTrips(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get user trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get user trips")
		return nil, fmt.Errorf("error fetching user trips: %w", err)
	}

	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "User trips fetched")
	return trips, nil
}

// InviteMember adds a pending membership for a user.
func (s *ServiceImpl) InviteMember(ctx context.Context, tripID, userID uuid.UUID, role string) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "InviteMember", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "InviteMember"),
		slog.String("tripID", tripID.String()), slog.String("userID", userID.String()))

	if role == "" {
		role = "member"
	}
	member := types.TripMember{
		TripID:    tripID,
		UserID:    userID,
		Role:      role,
		Status:    types.MemberStatusPending,
		InvitedAt: time.Now().UTC(),
	}

	if err := s.repo.InviteMember(ctx, member); err != nil {
		l.ErrorContext(ctx, "Failed to invite member", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to invite member")
		return fmt.Errorf("error inviting member: %w", err)
	}

	l.InfoContext(ctx, "Member invited successfully")
	span.SetStatus(codes.Ok, "Member invited successfully")
	return nil
}

// RespondToInvite records an accept or decline for a pending invitation.
func (s *ServiceImpl) RespondToInvite(ctx context.Context, tripID, userID uuid.UUID, status types.MemberStatus) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "RespondToInvite", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("user.id", userID.String()),
		attribute.String("status", string(status)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "RespondToInvite"),
		slog.String("tripID", tripID.String()), slog.String("userID", userID.String()))

	if status != types.MemberStatusAccepted && status != types.MemberStatusDeclined {
		return fmt.Errorf("invalid invite response status: %s", status)
	}

	if err := s.repo.UpdateMemberStatus(ctx, tripID, userID, status); err != nil {
		l.ErrorContext(ctx, "Failed to update member status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update member status")
		return fmt.Errorf("error updating member status: %w", err)
	}

	l.InfoContext(ctx, "Invite response recorded", slog.String("status", string(status)))
	span.SetStatus(codes.Ok, "Invite response recorded")
	return nil
}

// AttachPlace pins a candidate place to a trip.
func (s *ServiceImpl) AttachPlace(ctx context.Context, tripID uuid.UUID, req types.AttachPlaceRequest) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "AttachPlace", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("place.id", req.PlaceID.String()),
		attribute.Bool("is_fixed", req.IsFixed),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AttachPlace"),
		slog.String("tripID", tripID.String()), slog.String("placeID", req.PlaceID.String()))

	attachment := types.TripPlace{
		TripID:     tripID,
		IsFixed:    req.IsFixed,
		Day:        req.Day,
		OrderIndex: req.OrderIndex,
		Status:     "active",
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.AttachPlace(ctx, attachment, req.PlaceID); err != nil {
		l.ErrorContext(ctx, "Failed to attach place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to attach place")
		return err
	}

	l.InfoContext(ctx, "Place attached successfully")
	span.SetStatus(codes.Ok, "Place attached successfully")
	return nil
}

// DetachPlace removes a candidate place from a trip.
func (s *ServiceImpl) DetachPlace(ctx context.Context, tripID, placeID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DetachPlace", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("place.id", placeID.String()),
	))
	defer span.End()

	if err := s.repo.DetachPlace(ctx, tripID, placeID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to detach place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to detach place")
		return fmt.Errorf("error detaching place: %w", err)
	}

	span.SetStatus(codes.Ok, "Place detached")
	return nil
}
