package preferences

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for preference operations.
type Service interface {
	// GetGroupPreferences averages per-category scores across a trip's
	// eligible participants (owner plus accepted members).
	GetGroupPreferences(ctx context.Context, trip *types.Trip) (types.GroupPreferenceMap, error)
	GetUserPreferences(ctx context.Context, userID uuid.UUID) ([]*types.UserPreference, error)
	SetPreference(ctx context.Context, userID uuid.UUID, categorySlug string, score int) (*types.UserPreference, error)
	DeletePreference(ctx context.Context, userID uuid.UUID, categorySlug string) error
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

// NewService creates a new preference service instance.
func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetGroupPreferences builds the per-category average map for a trip.
//
// The eligible participant set is the trip owner plus every member whose
// invitation is accepted; the owner counts as a participant even without a
// membership row, and duplicate user ids count once. A category appears in
// the map only if at least one eligible participant rated it; its average is
// taken over the raters only, rounded to 2 decimals. A trip with no eligible
// participants or no ratings yields an empty map, never an error.
func (s *ServiceImpl) GetGroupPreferences(ctx context.Context, trip *types.Trip) (types.GroupPreferenceMap, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "GetGroupPreferences", trace.WithAttributes(
		attribute.String("trip.id", trip.ID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetGroupPreferences"), slog.String("tripID", trip.ID.String()))

	participants := EligibleParticipants(trip)
	if len(participants) == 0 {
		l.DebugContext(ctx, "No eligible participants, returning empty preference map")
		span.SetStatus(codes.Ok, "No eligible participants")
		return types.GroupPreferenceMap{}, nil
	}

	prefs, err := s.repo.GetPreferencesForUsers(ctx, participants)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch participant preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch participant preferences")
		return nil, fmt.Errorf("error fetching participant preferences: %w", err)
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, p := range prefs {
		sums[p.CategorySlug] += p.Score
		counts[p.CategorySlug]++
	}

	group := make(types.GroupPreferenceMap, len(sums))
	for slug, sum := range sums {
		avg := float64(sum) / float64(counts[slug])
		group[slug] = math.Round(avg*100) / 100
	}

	l.DebugContext(ctx, "Group preferences aggregated",
		slog.Int("participants", len(participants)), slog.Int("categories", len(group)))
	span.SetAttributes(attribute.Int("preferences.categories", len(group)))
	span.SetStatus(codes.Ok, "Group preferences aggregated")
	return group, nil
}

// EligibleParticipants resolves the owner-plus-accepted-members set once, so
// aggregation never branches on membership status strings. Duplicates (a
// re-invited user, or the owner carrying a membership row) count once.
func EligibleParticipants(trip *types.Trip) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(trip.Members)+1)
	var out []uuid.UUID

	if trip.OwnerID != uuid.Nil {
		seen[trip.OwnerID] = struct{}{}
		out = append(out, trip.OwnerID)
	}
	for _, m := range trip.Members {
		if m.Status != types.MemberStatusAccepted {
			continue
		}
		if _, dup := seen[m.UserID]; dup {
			continue
		}
		seen[m.UserID] = struct{}{}
		out = append(out, m.UserID)
	}
	return out
}

// GetUserPreferences retrieves one user's category preferences.
func (s *ServiceImpl) GetUserPreferences(ctx context.Context, userID uuid.UUID) ([]*types.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "GetUserPreferences", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetUserPreferences"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Fetching user preferences")

	prefs, err := s.repo.GetUserPreferences(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user preferences")
		return nil, fmt.Errorf("error fetching user preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "User preferences fetched")
	return prefs, nil
}

// SetPreference upserts a user's category score. Out-of-range input is
// silently clamped into [0,2] rather than rejected.
func (s *ServiceImpl) SetPreference(ctx context.Context, userID uuid.UUID, categorySlug string, score int) (*types.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "SetPreference", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("category.slug", categorySlug),
		attribute.Int("score", score),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SetPreference"),
		slog.String("userID", userID.String()), slog.String("categorySlug", categorySlug))

	clamped := types.ClampPreferenceScore(score)
	if clamped != score {
		l.DebugContext(ctx, "Preference score clamped", slog.Int("raw", score), slog.Int("clamped", clamped))
	}

	pref, err := s.repo.SetPreference(ctx, userID, categorySlug, clamped)
	if err != nil {
		l.ErrorContext(ctx, "Failed to set preference", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set preference")
		return nil, fmt.Errorf("error setting preference: %w", err)
	}

	l.InfoContext(ctx, "Preference set successfully")
	span.SetStatus(codes.Ok, "Preference set successfully")
	return pref, nil
}

// DeletePreference removes a user's rating for a category.
func (s *ServiceImpl) DeletePreference(ctx context.Context, userID uuid.UUID, categorySlug string) error {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "DeletePreference", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("category.slug", categorySlug),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeletePreference"),
		slog.String("userID", userID.String()), slog.String("categorySlug", categorySlug))
	l.DebugContext(ctx, "Deleting preference")

	if err := s.repo.DeletePreference(ctx, userID, categorySlug); err != nil {
		l.ErrorContext(ctx, "Failed to delete preference", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete preference")
		return fmt.Errorf("error deleting preference: %w", err)
	}

	span.SetStatus(codes.Ok, "Preference deleted")
	return nil
}
