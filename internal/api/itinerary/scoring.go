package itinerary

import (
	"math"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// AlgorithmVersion tags generated itineraries so cached rows can be told apart
// from rows produced by older scoring revisions.
const AlgorithmVersion = "group-preference-v1"

const (
	// NeutralPreferenceWeight is used when a place's category is absent from
	// the group preference map, either because nobody rated it or because the
	// slug is not a recognised preference category. Unknown categories stay in
	// the ranking, behind explicitly preferred ones.
	NeutralPreferenceWeight = 1.0

	// Weighting factors. Preference spans [0,4] after scaling, rating [0,2.5]
	// and the distance decay at most 0.5, so preference dominates and distance
	// can never decide a ranking on its own.
	preferenceWeightFactor = 2.0
	ratingWeightFactor     = 0.5
	distanceDecayCeiling   = 0.5
	distanceDecayScaleKm   = 10.0

	earthRadiusM = 6371000.0
)

// Origin is the anchor coordinate for distance scoring and radius filtering.
type Origin struct {
	Lat float64
	Lon float64
}

// ScoredPlace pairs a trip place attachment with its computed score and the
// display distance from the origin.
type ScoredPlace struct {
	Attachment types.TripPlace
	Score      float64
	DistanceM  float64
}

// HaversineMeters returns the great-circle distance between two coordinates.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0
	rLat1 := lat1 * math.Pi / 180.0
	rLat2 := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// ScorePlace converts a candidate place, the group preference map and its
// distance from the origin into a single comparable score.
//
// With an empty preference map the score degrades to a rating-only heuristic
// so ranking falls back to "highest rated first".
func ScorePlace(place types.Place, prefs types.GroupPreferenceMap, distanceM float64) float64 {
	rating := 0.0
	if place.Rating != nil {
		rating = *place.Rating
	}

	if len(prefs) == 0 {
		return rating * ratingWeightFactor
	}

	weight, ok := prefs[place.CategorySlug]
	if !ok {
		weight = NeutralPreferenceWeight
	}

	decay := distanceDecayCeiling / (1.0 + distanceM/1000.0/distanceDecayScaleKm)
	return weight*preferenceWeightFactor + rating*ratingWeightFactor + decay
}

// RankPlaces scores every attachment against the group preferences and orders
// the result by descending score. Ties break on higher rating, then on place
// id, so two runs over the same snapshot produce identical output.
func RankPlaces(attachments []types.TripPlace, prefs types.GroupPreferenceMap, origin Origin) []ScoredPlace {
	scored := make([]ScoredPlace, 0, len(attachments))
	for _, att := range attachments {
		dist := HaversineMeters(origin.Lat, origin.Lon, att.Place.Latitude, att.Place.Longitude)
		scored = append(scored, ScoredPlace{
			Attachment: att,
			Score:      ScorePlace(att.Place, prefs, dist),
			DistanceM:  dist,
		})
	}
	sortScored(scored)
	return scored
}

func sortScored(scored []ScoredPlace) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		ri, rj := ratingOf(scored[i].Attachment.Place), ratingOf(scored[j].Attachment.Place)
		if ri != rj {
			return ri > rj
		}
		return strings.Compare(scored[i].Attachment.Place.ID.String(), scored[j].Attachment.Place.ID.String()) < 0
	})
}

func ratingOf(p types.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
