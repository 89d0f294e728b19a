package itinerary

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

func ratingPtr(v float64) *float64 { return &v }

func makeAttachment(name, category string, rating *float64, lat, lon float64) types.TripPlace {
	return types.TripPlace{
		Place: types.Place{
			ID:           uuid.New(),
			Name:         name,
			CategorySlug: category,
			Rating:       rating,
			Latitude:     lat,
			Longitude:    lon,
		},
	}
}

func TestHaversineMeters(t *testing.T) {
	// Lisbon -> Porto is roughly 274 km great-circle
	dist := HaversineMeters(38.7223, -9.1393, 41.1579, -8.6291)
	assert.InDelta(t, 274000, dist, 5000)

	// Same point is zero
	assert.Equal(t, 0.0, HaversineMeters(38.7223, -9.1393, 38.7223, -9.1393))
}

func TestScorePlace_PreferenceDominates(t *testing.T) {
	prefs := types.GroupPreferenceMap{"restaurant": 2.0, "park": 1.0}

	// Equal ratings and distance: the loved category must outrank the liked one
	restaurant := types.Place{CategorySlug: "restaurant", Rating: ratingPtr(4.0)}
	park := types.Place{CategorySlug: "park", Rating: ratingPtr(4.0)}

	assert.Greater(t, ScorePlace(restaurant, prefs, 500), ScorePlace(park, prefs, 500))
}

func TestScorePlace_UnknownCategoryGetsNeutralWeight(t *testing.T) {
	prefs := types.GroupPreferenceMap{"restaurant": 2.0, "park": 0.5}

	unknown := types.Place{CategorySlug: "observatory", Rating: ratingPtr(4.0)}
	loved := types.Place{CategorySlug: "restaurant", Rating: ratingPtr(4.0)}
	unpopular := types.Place{CategorySlug: "park", Rating: ratingPtr(4.0)}

	// Unknown categories are included, ranked behind loved ones but ahead of
	// explicitly unpopular ones.
	unknownScore := ScorePlace(unknown, prefs, 500)
	assert.Less(t, unknownScore, ScorePlace(loved, prefs, 500))
	assert.Greater(t, unknownScore, ScorePlace(unpopular, prefs, 500))
}

func TestScorePlace_EmptyPreferencesFallsBackToRating(t *testing.T) {
	empty := types.GroupPreferenceMap{}

	highRated := types.Place{CategorySlug: "museum", Rating: ratingPtr(4.7)}
	lowRated := types.Place{CategorySlug: "restaurant", Rating: ratingPtr(4.2)}
	unrated := types.Place{CategorySlug: "park"}

	assert.Equal(t, 4.7*0.5, ScorePlace(highRated, empty, 100))
	assert.Equal(t, 4.2*0.5, ScorePlace(lowRated, empty, 100))
	assert.Equal(t, 0.0, ScorePlace(unrated, empty, 100))

	// Distance plays no part in the fallback, ranking is purely by rating
	assert.Equal(t, ScorePlace(highRated, empty, 100), ScorePlace(highRated, empty, 15000))
}

func TestScorePlace_DistanceNeverSoleDeterminant(t *testing.T) {
	prefs := types.GroupPreferenceMap{"restaurant": 2.0, "park": 1.0}

	// A loved category far away still beats a merely liked one next door.
	farLoved := types.Place{CategorySlug: "restaurant", Rating: ratingPtr(4.0)}
	nearLiked := types.Place{CategorySlug: "park", Rating: ratingPtr(4.0)}

	assert.Greater(t, ScorePlace(farLoved, prefs, 19000), ScorePlace(nearLiked, prefs, 50))
}

func TestScorePlace_CloserScoresHigherAllElseEqual(t *testing.T) {
	prefs := types.GroupPreferenceMap{"museum": 1.5}
	place := types.Place{CategorySlug: "museum", Rating: ratingPtr(4.0)}

	assert.Greater(t, ScorePlace(place, prefs, 200), ScorePlace(place, prefs, 8000))
}

func TestRankPlaces_Deterministic(t *testing.T) {
	origin := Origin{Lat: 38.72, Lon: -9.14}
	prefs := types.GroupPreferenceMap{"restaurant": 2.0, "museum": 1.0}

	attachments := []types.TripPlace{
		makeAttachment("Tasca", "restaurant", ratingPtr(4.5), 38.71, -9.14),
		makeAttachment("MAAT", "museum", ratingPtr(4.7), 38.69, -9.19),
		makeAttachment("Gulbenkian", "museum", ratingPtr(4.7), 38.69, -9.19),
	}

	first := RankPlaces(attachments, prefs, origin)
	second := RankPlaces(attachments, prefs, origin)

	assert.Equal(t, first, second)
	for i := range first {
		assert.Equal(t, first[i].Attachment.Place.ID, second[i].Attachment.Place.ID)
	}
}

func TestRankPlaces_TieBreaksOnRatingThenID(t *testing.T) {
	origin := Origin{Lat: 38.72, Lon: -9.14}
	prefs := types.GroupPreferenceMap{"museum": 1.0}

	better := makeAttachment("Higher", "museum", ratingPtr(4.8), 38.72, -9.14)
	worse := makeAttachment("Lower", "museum", ratingPtr(4.1), 38.72, -9.14)

	ranked := RankPlaces([]types.TripPlace{worse, better}, prefs, origin)
	assert.Equal(t, "Higher", ranked[0].Attachment.Place.Name)

	// Fully tied places fall back to id order
	a := makeAttachment("A", "museum", ratingPtr(4.5), 38.72, -9.14)
	b := makeAttachment("B", "museum", ratingPtr(4.5), 38.72, -9.14)
	ranked = RankPlaces([]types.TripPlace{a, b}, prefs, origin)
	assert.True(t, ranked[0].Attachment.Place.ID.String() < ranked[1].Attachment.Place.ID.String())
}

func TestRankPlaces_CarriesDisplayDistance(t *testing.T) {
	origin := Origin{Lat: 38.72, Lon: -9.14}
	att := makeAttachment("Tasca", "restaurant", ratingPtr(4.5), 38.73, -9.14)

	ranked := RankPlaces([]types.TripPlace{att}, types.GroupPreferenceMap{}, origin)
	assert.Len(t, ranked, 1)
	assert.InDelta(t, 1112, ranked[0].DistanceM, 20) // ~0.01 deg latitude
}
