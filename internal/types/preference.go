package types

import (
	"time"

	"github.com/google/uuid"
)

// Preference score bounds. Scores outside the range are clamped on write,
// never rejected.
const (
	PreferenceScoreMin = 0 // neutral / dislike
	PreferenceScoreMax = 2 // love
)

// UserPreference is a single user's score for one place category.
// A category a user never rated has no row at all, it is not a zero.
type UserPreference struct {
	UserID       uuid.UUID `json:"user_id"`
	CategorySlug string    `json:"category_slug"`
	Score        int       `json:"score"` // 0=neutral, 1=like, 2=love
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GroupPreferenceMap maps category slug to the average score across a trip's
// eligible participants, rounded to 2 decimals. Derived on demand, never
// persisted on its own.
type GroupPreferenceMap map[string]float64

// SetPreferenceRequest is the expected JSON body for upserting a preference.
type SetPreferenceRequest struct {
	CategorySlug string `json:"category_slug" validate:"required"`
	Score        int    `json:"score"`
}

// ClampPreferenceScore forces a score into the valid range.
func ClampPreferenceScore(score int) int {
	if score < PreferenceScoreMin {
		return PreferenceScoreMin
	}
	if score > PreferenceScoreMax {
		return PreferenceScoreMax
	}
	return score
}
