package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

func newRepoWithMock(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	metrics.InitAppMetrics()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewRepository(mockPool, slog.New(slog.DiscardHandler)), mockPool
}

func TestRepositoryImpl_GetTripForGeneration(t *testing.T) {
	ctx := context.Background()
	tripID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()
	placeID := uuid.New()
	now := time.Now()

	t.Run("loads trip with members and places", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("FROM trips")).
			WithArgs(tripID).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "owner_id", "name", "description", "start_lat", "start_lon", "created_at", "updated_at",
			}).AddRow(tripID, ownerID, "Lisbon weekend", "", floatPtr(38.72), floatPtr(-9.14), now, now))

		mockPool.ExpectQuery(regexp.QuoteMeta("FROM trip_members")).
			WithArgs(tripID).
			WillReturnRows(pgxmock.NewRows([]string{
				"trip_id", "user_id", "role", "status", "invited_at",
			}).AddRow(tripID, memberID, "member", string(types.MemberStatusAccepted), now))

		rating := 4.5
		mockPool.ExpectQuery(regexp.QuoteMeta("FROM trip_places")).
			WithArgs(tripID).
			WillReturnRows(pgxmock.NewRows([]string{
				"trip_id", "is_fixed", "day", "order_index", "status", "created_at",
				"id", "name", "category_slug", "rating", "latitude", "longitude", "address",
				"opening_hours", "created_at", "updated_at",
			}).AddRow(tripID, false, (*int)(nil), 0, "attached", now,
				placeID, "Tasca do Chico", "restaurant", &rating, 38.71, -9.14, "",
				map[string]string(nil), now, now))

		trip, err := repo.GetTripForGeneration(ctx, tripID)
		require.NoError(t, err)

		assert.Equal(t, tripID, trip.ID)
		assert.Equal(t, ownerID, trip.OwnerID)
		require.Len(t, trip.Members, 1)
		assert.Equal(t, types.MemberStatusAccepted, trip.Members[0].Status)
		require.Len(t, trip.Places, 1)
		assert.Equal(t, "Tasca do Chico", trip.Places[0].Place.Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing trip maps to ErrTripNotFound", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("FROM trips")).
			WithArgs(tripID).
			WillReturnError(pgx.ErrNoRows)

		trip, err := repo.GetTripForGeneration(ctx, tripID)
		assert.Nil(t, trip)
		assert.ErrorIs(t, err, types.ErrTripNotFound)
	})
}

func TestRepositoryImpl_UpsertCachedItinerary(t *testing.T) {
	ctx := context.Background()
	tripID := uuid.New()
	generatedAt := time.Now().UTC()

	it := &types.Itinerary{
		TripID:       tripID,
		DayCount:     2,
		RadiusMeters: 5000,
		Schedule: []types.ItineraryDay{
			{Day: 1, Places: []types.ItineraryPlace{{ID: uuid.New(), Name: "MAAT", Score: 4.2}}},
			{Day: 2, Places: []types.ItineraryPlace{}},
		},
		CacheInfo: types.CacheInfo{Algorithm: AlgorithmVersion, GeneratedAt: generatedAt},
	}

	t.Run("success", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		schedule, err := json.Marshal(it.Schedule)
		require.NoError(t, err)

		mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO trip_itineraries")).
			WithArgs(tripID, 2, 5000, AlgorithmVersion, schedule, generatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.UpsertCachedItinerary(ctx, it))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO trip_itineraries")).
			WillReturnError(errors.New("connection refused"))

		err := repo.UpsertCachedItinerary(ctx, it)
		assert.ErrorContains(t, err, "failed to upsert cached itinerary")
	})
}

func TestRepositoryImpl_GetCachedItinerary(t *testing.T) {
	ctx := context.Background()
	tripID := uuid.New()
	generatedAt := time.Now().UTC()

	t.Run("hit", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		schedule := []types.ItineraryDay{
			{Day: 1, Places: []types.ItineraryPlace{{ID: uuid.New(), Name: "MAAT", Score: 4.2}}},
		}
		raw, err := json.Marshal(schedule)
		require.NoError(t, err)

		mockPool.ExpectQuery(regexp.QuoteMeta("FROM trip_itineraries")).
			WithArgs(tripID, 1).
			WillReturnRows(pgxmock.NewRows([]string{
				"trip_id", "day_count", "radius_meters", "algorithm", "schedule", "generated_at",
			}).AddRow(tripID, 1, 5000, AlgorithmVersion, raw, generatedAt))

		it, err := repo.GetCachedItinerary(ctx, tripID, 1)
		require.NoError(t, err)
		require.NotNil(t, it)

		assert.True(t, it.Cached)
		assert.Equal(t, types.ItinerarySourceHit, it.Source)
		assert.Equal(t, 5000, it.RadiusMeters)
		assert.Equal(t, AlgorithmVersion, it.Algorithm)
		require.Len(t, it.Schedule, 1)
		assert.Equal(t, "MAAT", it.Schedule[0].Places[0].Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("miss returns nil without error", func(t *testing.T) {
		repo, mockPool := newRepoWithMock(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("FROM trip_itineraries")).
			WithArgs(tripID, 3).
			WillReturnError(pgx.ErrNoRows)

		it, err := repo.GetCachedItinerary(ctx, tripID, 3)
		assert.NoError(t, err)
		assert.Nil(t, it)
	})
}
