package itinerary

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

	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for itinerary generation.
type Service interface {
	// Generate produces a single-day schedule over all attached places.
	Generate(ctx context.Context, tripID uuid.UUID) (*types.Itinerary, error)
	// GenerateFullRoute produces a multi-day schedule, reusing the cached
	// result for (trip, days) when it was computed under the same radius,
	// unless forceRefresh is set. Range validation of days and radiusMeters
	// belongs to the caller.
	GenerateFullRoute(ctx context.Context, tripID uuid.UUID, days, radiusMeters int, forceRefresh bool) (*types.Itinerary, error)
	// AggregatePreferences exposes the group preference map on its own.
	AggregatePreferences(ctx context.Context, tripID uuid.UUID) (types.GroupPreferenceMap, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger      *slog.Logger
	repo        Repository
	prefService preferences.Service
	cache       CacheStore
}

// NewService creates a new itinerary service instance.
func NewService(repo Repository, prefService preferences.Service, cache CacheStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		repo:        repo,
		prefService: prefService,
		cache:       cache,
	}
}

// Generate builds a one-day itinerary: every attached place, scored against
// the group preferences and ordered by descending score.
func (s *ServiceImpl) Generate(ctx context.Context, tripID uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("tripID", tripID.String()))
	l.DebugContext(ctx, "Generating single-day itinerary")

	trip, prefs, origin, err := s.loadSnapshot(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load trip snapshot")
		return nil, err
	}

	ranked := RankPlaces(trip.Places, prefs, origin)
	it := &types.Itinerary{
		TripID:   trip.ID,
		DayCount: 1,
		Schedule: SingleDaySchedule(ranked),
		CacheInfo: types.CacheInfo{
			Cached:      false,
			Source:      types.ItinerarySourceNew,
			Algorithm:   AlgorithmVersion,
			GeneratedAt: time.Now().UTC(),
		},
	}

	metrics.Get().ItineraryGenerationsTotal.Add(ctx, 1)
	metrics.Get().ItineraryGenerationSeconds.Record(ctx, time.Since(start).Seconds())
	l.InfoContext(ctx, "Itinerary generated", slog.Int("places", len(ranked)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return it, nil
}

// GenerateFullRoute builds a multi-day itinerary. Candidates outside
// radiusMeters of the origin are excluded, fixed places excepted. The result
// is persisted through the cache keyed by (trip id, day count); a prior
// cached row is returned instead of recomputing when its radius matches and
// forceRefresh is not set.
func (s *ServiceImpl) GenerateFullRoute(ctx context.Context, tripID uuid.UUID, days, radiusMeters int, forceRefresh bool) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateFullRoute", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("days", days),
		attribute.Int("radius_meters", radiusMeters),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "GenerateFullRoute"),
		slog.String("tripID", tripID.String()), slog.Int("days", days), slog.Int("radiusMeters", radiusMeters))

	if !forceRefresh {
		cached, err := s.cache.Fetch(ctx, tripID, days, radiusMeters)
		if err != nil {
			l.ErrorContext(ctx, "Failed to read itinerary cache", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to read itinerary cache")
			return nil, fmt.Errorf("error reading itinerary cache: %w", err)
		}
		if cached != nil {
			metrics.Get().ItineraryCacheHitsTotal.Add(ctx, 1)
			l.InfoContext(ctx, "Serving cached itinerary")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			span.SetStatus(codes.Ok, "Cached itinerary served")
			return cached, nil
		}
	}

	trip, prefs, origin, err := s.loadSnapshot(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load trip snapshot")
		return nil, err
	}

	ranked := FilterByRadius(RankPlaces(trip.Places, prefs, origin), radiusMeters)
	it := &types.Itinerary{
		TripID:       trip.ID,
		DayCount:     days,
		RadiusMeters: radiusMeters,
		Schedule:     AllocateDays(ranked, days),
		CacheInfo: types.CacheInfo{
			Cached:      false,
			Source:      types.ItinerarySourceNew,
			Algorithm:   AlgorithmVersion,
			GeneratedAt: time.Now().UTC(),
		},
	}

	if err := s.cache.Store(ctx, it); err != nil {
		l.ErrorContext(ctx, "Failed to persist itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist itinerary")
		return nil, fmt.Errorf("error persisting itinerary: %w", err)
	}

	metrics.Get().ItineraryGenerationsTotal.Add(ctx, 1)
	metrics.Get().ItineraryGenerationSeconds.Record(ctx, time.Since(start).Seconds())
	l.InfoContext(ctx, "Full-route itinerary generated", slog.Int("candidates", len(ranked)))
	span.SetStatus(codes.Ok, "Full-route itinerary generated")
	return it, nil
}

// AggregatePreferences returns the group preference map for a trip.
func (s *ServiceImpl) AggregatePreferences(ctx context.Context, tripID uuid.UUID) (types.GroupPreferenceMap, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "AggregatePreferences", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AggregatePreferences"), slog.String("tripID", tripID.String()))

	trip, err := s.repo.GetTripForGeneration(ctx, tripID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch trip")
		return nil, err
	}

	prefs, err := s.prefService.GetGroupPreferences(ctx, trip)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to aggregate preferences")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Preferences aggregated")
	return prefs, nil
}

// loadSnapshot fetches the trip and checks the generation preconditions.
// The place check and the origin check are independent: a trip with no
// places fails with ErrNoPlacesAttached even when it also lacks an origin.
func (s *ServiceImpl) loadSnapshot(ctx context.Context, tripID uuid.UUID) (*types.Trip, types.GroupPreferenceMap, Origin, error) {
	trip, err := s.repo.GetTripForGeneration(ctx, tripID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch trip for generation", slog.Any("error", err))
		return nil, nil, Origin{}, err
	}

	if len(trip.Places) == 0 {
		return nil, nil, Origin{}, types.ErrNoPlacesAttached
	}

	origin, err := ResolveOrigin(trip)
	if err != nil {
		return nil, nil, Origin{}, err
	}

	prefs, err := s.prefService.GetGroupPreferences(ctx, trip)
	if err != nil {
		return nil, nil, Origin{}, err
	}

	return trip, prefs, origin, nil
}
