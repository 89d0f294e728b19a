package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

func newTestCache(repo *MockRepository) *Cache {
	return NewCache(repo, slog.New(slog.DiscardHandler))
}

func TestCache_Fetch(t *testing.T) {
	ctx := context.Background()
	tripID := uuid.New()

	t.Run("miss at both tiers returns nil nil", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newTestCache(mockRepo)

		mockRepo.On("GetCachedItinerary", ctx, tripID, 2).Return(nil, nil)

		it, err := c.Fetch(ctx, tripID, 2, 5000)
		assert.NoError(t, err)
		assert.Nil(t, it)
	})

	t.Run("database hit populates memory tier", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newTestCache(mockRepo)

		stored := &types.Itinerary{
			TripID:       tripID,
			DayCount:     2,
			RadiusMeters: 5000,
			CacheInfo:    types.CacheInfo{Cached: true, Source: types.ItinerarySourceHit},
		}
		mockRepo.On("GetCachedItinerary", ctx, tripID, 2).Return(stored, nil).Once()

		first, err := c.Fetch(ctx, tripID, 2, 5000)
		require.NoError(t, err)
		require.NotNil(t, first)

		// Second fetch is served from memory, no second repository call.
		second, err := c.Fetch(ctx, tripID, 2, 5000)
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.True(t, second.Cached)
		assert.Equal(t, types.ItinerarySourceHit, second.Source)
		mockRepo.AssertExpectations(t)
	})

	t.Run("row computed under a different radius is a miss", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newTestCache(mockRepo)

		stored := &types.Itinerary{
			TripID:       tripID,
			DayCount:     2,
			RadiusMeters: 20000,
			CacheInfo:    types.CacheInfo{Cached: true, Source: types.ItinerarySourceHit},
		}
		mockRepo.On("GetCachedItinerary", ctx, tripID, 2).Return(stored, nil)

		it, err := c.Fetch(ctx, tripID, 2, 100)
		assert.NoError(t, err)
		assert.Nil(t, it)
	})

	t.Run("memory entry with stale radius falls through to the database", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newTestCache(mockRepo)

		wide := &types.Itinerary{
			TripID:       tripID,
			DayCount:     2,
			RadiusMeters: 20000,
			CacheInfo:    types.CacheInfo{Source: types.ItinerarySourceNew},
		}
		mockRepo.On("UpsertCachedItinerary", ctx, wide).Return(nil)
		require.NoError(t, c.Store(ctx, wide))

		// The memory tier holds the 20000m schedule; a 100m request must not
		// be served from it.
		mockRepo.On("GetCachedItinerary", ctx, tripID, 2).Return(wide, nil)
		it, err := c.Fetch(ctx, tripID, 2, 100)
		assert.NoError(t, err)
		assert.Nil(t, it)
		mockRepo.AssertCalled(t, "GetCachedItinerary", ctx, tripID, 2)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newTestCache(mockRepo)

		mockRepo.On("GetCachedItinerary", ctx, tripID, 3).Return(nil, errors.New("timeout"))

		it, err := c.Fetch(ctx, tripID, 3, 5000)
		assert.Nil(t, it)
		assert.Error(t, err)
	})
}

func TestCache_Store(t *testing.T) {
	ctx := context.Background()
	tripID := uuid.New()

	it := &types.Itinerary{
		TripID:       tripID,
		DayCount:     2,
		RadiusMeters: 5000,
		CacheInfo:    types.CacheInfo{Source: types.ItinerarySourceNew},
	}

	t.Run("write-through then memory serves fetches", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newTestCache(mockRepo)

		mockRepo.On("UpsertCachedItinerary", ctx, it).Return(nil)

		require.NoError(t, c.Store(ctx, it))

		// Follow-up fetch under the same radius hits the memory tier and is
		// flagged as cached.
		fetched, err := c.Fetch(ctx, tripID, 2, 5000)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.True(t, fetched.Cached)
		assert.Equal(t, types.ItinerarySourceHit, fetched.Source)
		mockRepo.AssertNotCalled(t, "GetCachedItinerary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upsert failure skips the memory tier", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newTestCache(mockRepo)

		mockRepo.On("UpsertCachedItinerary", ctx, it).Return(errors.New("disk full"))
		assert.Error(t, c.Store(ctx, it))

		mockRepo.On("GetCachedItinerary", ctx, tripID, 2).Return(nil, nil)
		fetched, err := c.Fetch(ctx, tripID, 2, 5000)
		assert.NoError(t, err)
		assert.Nil(t, fetched)
	})
}
