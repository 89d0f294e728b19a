package itinerary

import (
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// ResolveOrigin picks the anchor coordinate for a trip: the explicit start
// location when present, otherwise the first fixed place (in attachment
// order). Returns ErrNoOriginPoint when neither exists.
func ResolveOrigin(trip *types.Trip) (Origin, error) {
	if trip.HasStartPoint() {
		return Origin{Lat: *trip.StartLat, Lon: *trip.StartLon}, nil
	}
	for _, att := range trip.Places {
		if att.IsFixed {
			return Origin{Lat: att.Place.Latitude, Lon: att.Place.Longitude}, nil
		}
	}
	return Origin{}, types.ErrNoOriginPoint
}

// FilterByRadius drops candidates farther than radiusMeters from the origin.
// Fixed places are retained irrespective of the radius.
func FilterByRadius(ranked []ScoredPlace, radiusMeters int) []ScoredPlace {
	kept := make([]ScoredPlace, 0, len(ranked))
	for _, sp := range ranked {
		if sp.Attachment.IsFixed || sp.DistanceM <= float64(radiusMeters) {
			kept = append(kept, sp)
		}
	}
	return kept
}

// AllocateDays partitions the ranked candidate list into dayCount buckets.
//
// Fixed places go to the bucket matching their explicit day attribute when
// set (clamped into range), otherwise to day 1. The remaining candidates are
// split score-ordered into dayCount nearly-equal contiguous bands, so earlier
// days lean toward the higher rank tiers. Each day's list is re-ordered with
// the ranking comparator, keeping the whole schedule deterministic.
//
// Always returns exactly dayCount entries, some possibly empty.
func AllocateDays(ranked []ScoredPlace, dayCount int) []types.ItineraryDay {
	buckets := make([][]ScoredPlace, dayCount)

	var floating []ScoredPlace
	for _, sp := range ranked {
		if !sp.Attachment.IsFixed {
			floating = append(floating, sp)
			continue
		}
		day := 1
		if sp.Attachment.Day != nil {
			day = *sp.Attachment.Day
			if day < 1 {
				day = 1
			}
			if day > dayCount {
				day = dayCount
			}
		}
		buckets[day-1] = append(buckets[day-1], sp)
	}

	// Contiguous score bands: the first len%days bands carry the remainder.
	perDay := len(floating) / dayCount
	remainder := len(floating) % dayCount
	idx := 0
	for day := 0; day < dayCount; day++ {
		size := perDay
		if day < remainder {
			size++
		}
		buckets[day] = append(buckets[day], floating[idx:idx+size]...)
		idx += size
	}

	schedule := make([]types.ItineraryDay, dayCount)
	for day := 0; day < dayCount; day++ {
		sortScored(buckets[day])
		places := make([]types.ItineraryPlace, 0, len(buckets[day]))
		for _, sp := range buckets[day] {
			places = append(places, toItineraryPlace(sp))
		}
		schedule[day] = types.ItineraryDay{Day: day + 1, Places: places}
	}
	return schedule
}

// SingleDaySchedule wraps the full ranked list as a one-day schedule. There is
// no per-day size cap, so the ordering alone guarantees fixed places appear.
func SingleDaySchedule(ranked []ScoredPlace) []types.ItineraryDay {
	places := make([]types.ItineraryPlace, 0, len(ranked))
	for _, sp := range ranked {
		places = append(places, toItineraryPlace(sp))
	}
	return []types.ItineraryDay{{Day: 1, Places: places}}
}

func toItineraryPlace(sp ScoredPlace) types.ItineraryPlace {
	return types.ItineraryPlace{
		ID:           sp.Attachment.Place.ID,
		Name:         sp.Attachment.Place.Name,
		CategorySlug: sp.Attachment.Place.CategorySlug,
		Score:        sp.Score,
		DistanceM:    sp.DistanceM,
		IsFixed:      sp.Attachment.IsFixed,
	}
}
