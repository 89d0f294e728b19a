package types

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is the result DTO of itinerary generation. RadiusMeters is the
// radius the schedule was computed under; zero for single-day generation,
// which never filters by radius.
type Itinerary struct {
	TripID       uuid.UUID      `json:"trip_id"`
	DayCount     int            `json:"day_count"`
	RadiusMeters int            `json:"radius_meters,omitempty"`
	Schedule     []ItineraryDay `json:"schedule"`
	CacheInfo    `json:"cache_info"`
}

// ItineraryDay is one day's ordered visiting list.
type ItineraryDay struct {
	Day    int              `json:"day"`
	Places []ItineraryPlace `json:"places"`
}

// ItineraryPlace is a scheduled place with its scoring breakdown.
type ItineraryPlace struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategorySlug string    `json:"category_slug"`
	Score        float64   `json:"score"`
	DistanceM    float64   `json:"distance_m"`
	IsFixed      bool      `json:"is_fixed"`
}

// CacheInfo reports how the itinerary was produced.
type CacheInfo struct {
	Cached      bool      `json:"cached"`
	Source      string    `json:"source"`    // "computed" or "cache"
	Algorithm   string    `json:"algorithm"` // scoring algorithm tag
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerateFullRouteRequest carries the multi-day generation parameters.
type GenerateFullRouteRequest struct {
	Days         int  `json:"days" validate:"required,gte=1,lte=30"`
	RadiusMeters int  `json:"radius_meters" validate:"required,gte=100,lte=20000"`
	ForceRefresh bool `json:"force_refresh,omitempty"`
}

// Multi-day generation parameter bounds.
const (
	MinItineraryDays   = 1
	MaxItineraryDays   = 30
	MinRadiusMeters    = 100
	MaxRadiusMeters    = 20000
	ItinerarySourceNew = "computed"
	ItinerarySourceHit = "cache"
)
