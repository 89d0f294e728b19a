package itinerary

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestResolveOrigin(t *testing.T) {
	tests := []struct {
		name        string
		trip        *types.Trip
		expectedErr error
		expected    Origin
	}{
		{
			name: "explicit start location wins",
			trip: &types.Trip{
				StartLat: floatPtr(38.72),
				StartLon: floatPtr(-9.14),
				Places: []types.TripPlace{
					{IsFixed: true, Place: types.Place{Latitude: 41.15, Longitude: -8.62}},
				},
			},
			expected: Origin{Lat: 38.72, Lon: -9.14},
		},
		{
			name: "first fixed place when no start location",
			trip: &types.Trip{
				Places: []types.TripPlace{
					{IsFixed: false, Place: types.Place{Latitude: 40.0, Longitude: -8.0}},
					{IsFixed: true, Place: types.Place{Latitude: 41.15, Longitude: -8.62}},
					{IsFixed: true, Place: types.Place{Latitude: 39.0, Longitude: -9.0}},
				},
			},
			expected: Origin{Lat: 41.15, Lon: -8.62},
		},
		{
			name:        "no origin at all",
			trip:        &types.Trip{Places: []types.TripPlace{{IsFixed: false}}},
			expectedErr: types.ErrNoOriginPoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, err := ResolveOrigin(tt.trip)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, origin)
		})
	}
}

func TestFilterByRadius(t *testing.T) {
	inside := ScoredPlace{DistanceM: 900, Attachment: makeAttachment("Inside", "park", nil, 0, 0)}
	outside := ScoredPlace{DistanceM: 5000, Attachment: makeAttachment("Outside", "park", nil, 0, 0)}
	fixedFar := ScoredPlace{DistanceM: 18000, Attachment: types.TripPlace{
		IsFixed: true,
		Place:   types.Place{ID: uuid.New(), Name: "FixedFar", CategorySlug: "museum"},
	}}

	kept := FilterByRadius([]ScoredPlace{inside, outside, fixedFar}, 1000)
	require.Len(t, kept, 2)
	assert.Equal(t, "Inside", kept[0].Attachment.Place.Name)
	assert.Equal(t, "FixedFar", kept[1].Attachment.Place.Name)

	// Exactly on the boundary stays in
	boundary := ScoredPlace{DistanceM: 1000, Attachment: makeAttachment("Edge", "park", nil, 0, 0)}
	kept = FilterByRadius([]ScoredPlace{boundary}, 1000)
	assert.Len(t, kept, 1)
}

func TestAllocateDays_ExactDayCount(t *testing.T) {
	tests := []struct {
		name       string
		nPlaces    int
		dayCount   int
		wantCounts []int
	}{
		{name: "even split", nPlaces: 6, dayCount: 3, wantCounts: []int{2, 2, 2}},
		{name: "remainder lands on leading days", nPlaces: 7, dayCount: 3, wantCounts: []int{3, 2, 2}},
		{name: "more days than places", nPlaces: 2, dayCount: 4, wantCounts: []int{1, 1, 0, 0}},
		{name: "no places at all", nPlaces: 0, dayCount: 3, wantCounts: []int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := make([]ScoredPlace, 0, tt.nPlaces)
			for i := 0; i < tt.nPlaces; i++ {
				ranked = append(ranked, ScoredPlace{
					Score:      float64(tt.nPlaces - i),
					Attachment: makeAttachment("P", "park", nil, 0, 0),
				})
			}

			schedule := AllocateDays(ranked, tt.dayCount)
			require.Len(t, schedule, tt.dayCount)
			for day, want := range tt.wantCounts {
				assert.Equal(t, day+1, schedule[day].Day)
				assert.Len(t, schedule[day].Places, want)
			}
		})
	}
}

func TestAllocateDays_HigherScoresLeanEarlier(t *testing.T) {
	ranked := []ScoredPlace{
		{Score: 9, Attachment: makeAttachment("Top", "museum", nil, 0, 0)},
		{Score: 8, Attachment: makeAttachment("Second", "museum", nil, 0, 0)},
		{Score: 3, Attachment: makeAttachment("Third", "park", nil, 0, 0)},
		{Score: 1, Attachment: makeAttachment("Last", "park", nil, 0, 0)},
	}

	schedule := AllocateDays(ranked, 2)
	require.Len(t, schedule, 2)
	assert.Equal(t, "Top", schedule[0].Places[0].Name)
	assert.Equal(t, "Second", schedule[0].Places[1].Name)
	assert.Equal(t, "Third", schedule[1].Places[0].Name)
	assert.Equal(t, "Last", schedule[1].Places[1].Name)
}

func TestAllocateDays_FixedPlacePinnedToItsDay(t *testing.T) {
	fixed := ScoredPlace{Score: 0.1, Attachment: types.TripPlace{
		IsFixed: true,
		Day:     intPtr(3),
		Place:   types.Place{ID: uuid.New(), Name: "Concert", CategorySlug: "event"},
	}}
	floating := ScoredPlace{Score: 5, Attachment: makeAttachment("Cafe", "restaurant", nil, 0, 0)}

	schedule := AllocateDays([]ScoredPlace{floating, fixed}, 3)
	require.Len(t, schedule, 3)
	require.Len(t, schedule[2].Places, 1)
	assert.Equal(t, "Concert", schedule[2].Places[0].Name)
	assert.True(t, schedule[2].Places[0].IsFixed)
}

func TestAllocateDays_FixedDayClampedIntoRange(t *testing.T) {
	past := ScoredPlace{Attachment: types.TripPlace{
		IsFixed: true,
		Day:     intPtr(9),
		Place:   types.Place{ID: uuid.New(), Name: "TooLate"},
	}}
	early := ScoredPlace{Attachment: types.TripPlace{
		IsFixed: true,
		Day:     intPtr(0),
		Place:   types.Place{ID: uuid.New(), Name: "TooEarly"},
	}}
	unset := ScoredPlace{Attachment: types.TripPlace{
		IsFixed: true,
		Place:   types.Place{ID: uuid.New(), Name: "NoDay"},
	}}

	schedule := AllocateDays([]ScoredPlace{past, early, unset}, 2)
	require.Len(t, schedule, 2)

	names := func(day int) []string {
		out := make([]string, 0, len(schedule[day].Places))
		for _, p := range schedule[day].Places {
			out = append(out, p.Name)
		}
		return out
	}
	assert.ElementsMatch(t, []string{"TooEarly", "NoDay"}, names(0))
	assert.ElementsMatch(t, []string{"TooLate"}, names(1))
}

func TestSingleDaySchedule(t *testing.T) {
	ranked := []ScoredPlace{
		{Score: 5, DistanceM: 120, Attachment: makeAttachment("First", "museum", floatPtr(4.5), 0, 0)},
		{Score: 2, DistanceM: 300, Attachment: makeAttachment("Second", "park", nil, 0, 0)},
	}

	schedule := SingleDaySchedule(ranked)
	require.Len(t, schedule, 1)
	assert.Equal(t, 1, schedule[0].Day)
	require.Len(t, schedule[0].Places, 2)
	assert.Equal(t, "First", schedule[0].Places[0].Name)
	assert.Equal(t, 5.0, schedule[0].Places[0].Score)
	assert.Equal(t, 120.0, schedule[0].Places[0].DistanceM)
}
