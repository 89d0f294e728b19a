package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ CacheStore = (*Cache)(nil)

// CacheStore is the narrow cache contract the service depends on, keyed by
// (trip id, day count). A stored row also remembers the radius it was computed
// under; a fetch with a different radius is a miss. Keeping the interface this
// small keeps the allocator testable without any persistence dependency.
type CacheStore interface {
	Fetch(ctx context.Context, tripID uuid.UUID, dayCount, radiusMeters int) (*types.Itinerary, error)
	Store(ctx context.Context, itinerary *types.Itinerary) error
}

// Cache layers an in-process go-cache in front of the trip_itineraries table.
// The cache is advisory: callers may always force recomputation, and a miss
// at both tiers simply means the schedule gets recomputed.
type Cache struct {
	logger *slog.Logger
	repo   Repository
	mem    *cache.Cache
}

func NewCache(repo Repository, logger *slog.Logger) *Cache {
	return &Cache{
		logger: logger,
		repo:   repo,
		mem:    cache.New(30*time.Minute, 10*time.Minute),
	}
}

func cacheKey(tripID uuid.UUID, dayCount int) string {
	return fmt.Sprintf("itinerary:%s:%d", tripID.String(), dayCount)
}

// Fetch checks the in-process tier, then the database. Returns (nil, nil)
// when neither tier has the key, or when the stored row was computed under a
// different radius than the one requested.
func (c *Cache) Fetch(ctx context.Context, tripID uuid.UUID, dayCount, radiusMeters int) (*types.Itinerary, error) {
	key := cacheKey(tripID, dayCount)
	if cached, found := c.mem.Get(key); found {
		if it, ok := cached.(*types.Itinerary); ok && it.RadiusMeters == radiusMeters {
			c.logger.DebugContext(ctx, "Itinerary cache hit (memory)", slog.String("key", key))
			hit := *it
			hit.Cached = true
			hit.Source = types.ItinerarySourceHit
			return &hit, nil
		}
	}

	it, err := c.repo.GetCachedItinerary(ctx, tripID, dayCount)
	if err != nil {
		return nil, err
	}
	if it == nil || it.RadiusMeters != radiusMeters {
		return nil, nil
	}
	c.logger.DebugContext(ctx, "Itinerary cache hit (database)", slog.String("key", key))
	c.mem.Set(key, it, cache.DefaultExpiration)
	return it, nil
}

// Store upserts the schedule into the database and refreshes the in-process
// tier. The database write is authoritative; a stale memory entry would only
// survive until its TTL anyway.
func (c *Cache) Store(ctx context.Context, itinerary *types.Itinerary) error {
	if err := c.repo.UpsertCachedItinerary(ctx, itinerary); err != nil {
		return err
	}
	c.mem.Set(cacheKey(itinerary.TripID, itinerary.DayCount), itinerary, cache.DefaultExpiration)
	return nil
}
