package types

import (
	"time"

	"github.com/google/uuid"
)

// Place represents a candidate point of interest.
type Place struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	CategorySlug string            `json:"category_slug"`
	Rating       *float64          `json:"rating,omitempty"` // 0.0-5.0, absent when unrated
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	Address      string            `json:"address,omitempty"`
	OpeningHours map[string]string `json:"opening_hours,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// PlaceFilter narrows place searches.
type PlaceFilter struct {
	CategorySlug string   `json:"category_slug,omitempty"`
	MinRating    *float64 `json:"min_rating,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lon          *float64 `json:"lon,omitempty"`
	RadiusMeters *int     `json:"radius_meters,omitempty"`
}
