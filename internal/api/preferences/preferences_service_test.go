package preferences

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

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserPreferences(ctx context.Context, userID uuid.UUID) ([]*types.UserPreference, error) {
	args := m.Called(ctx, userID)
	prefs, _ := args.Get(0).([]*types.UserPreference)
	return prefs, args.Error(1)
}

func (m *MockRepository) GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*types.UserPreference, error) {
	args := m.Called(ctx, userIDs)
	prefs, _ := args.Get(0).([]*types.UserPreference)
	return prefs, args.Error(1)
}

func (m *MockRepository) SetPreference(ctx context.Context, userID uuid.UUID, categorySlug string, score int) (*types.UserPreference, error) {
	args := m.Called(ctx, userID, categorySlug, score)
	pref, _ := args.Get(0).(*types.UserPreference)
	return pref, args.Error(1)
}

func (m *MockRepository) DeletePreference(ctx context.Context, userID uuid.UUID, categorySlug string) error {
	args := m.Called(ctx, userID, categorySlug)
	return args.Error(0)
}

func newTestService(repo *MockRepository) *ServiceImpl {
	return NewService(repo, slog.New(slog.DiscardHandler))
}

func member(userID uuid.UUID, status types.MemberStatus) types.TripMember {
	return types.TripMember{UserID: userID, Status: status}
}

func TestEligibleParticipants(t *testing.T) {
	owner := uuid.New()
	accepted := uuid.New()
	pending := uuid.New()
	declined := uuid.New()

	t.Run("owner plus accepted members", func(t *testing.T) {
		trip := &types.Trip{
			OwnerID: owner,
			Members: []types.TripMember{
				member(accepted, types.MemberStatusAccepted),
				member(pending, types.MemberStatusPending),
				member(declined, types.MemberStatusDeclined),
			},
		}
		assert.Equal(t, []uuid.UUID{owner, accepted}, EligibleParticipants(trip))
	})

	t.Run("owner counted once when also a member", func(t *testing.T) {
		trip := &types.Trip{
			OwnerID: owner,
			Members: []types.TripMember{
				member(owner, types.MemberStatusAccepted),
				member(accepted, types.MemberStatusAccepted),
			},
		}
		assert.Equal(t, []uuid.UUID{owner, accepted}, EligibleParticipants(trip))
	})

	t.Run("duplicate member rows counted once", func(t *testing.T) {
		trip := &types.Trip{
			OwnerID: owner,
			Members: []types.TripMember{
				member(accepted, types.MemberStatusAccepted),
				member(accepted, types.MemberStatusAccepted),
			},
		}
		assert.Len(t, EligibleParticipants(trip), 2)
	})

	t.Run("no owner and no members", func(t *testing.T) {
		assert.Empty(t, EligibleParticipants(&types.Trip{}))
	})
}

func TestServiceImpl_GetGroupPreferences(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	memberID := uuid.New()
	tripID := uuid.New()

	trip := &types.Trip{
		ID:      tripID,
		OwnerID: owner,
		Members: []types.TripMember{member(memberID, types.MemberStatusAccepted)},
	}

	t.Run("averages over raters only", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("GetPreferencesForUsers", mock.Anything, []uuid.UUID{owner, memberID}).
			Return([]*types.UserPreference{
				{UserID: owner, CategorySlug: "restaurant", Score: 2},
				{UserID: memberID, CategorySlug: "restaurant", Score: 1},
				{UserID: owner, CategorySlug: "museum", Score: 1},
			}, nil)

		group, err := svc.GetGroupPreferences(ctx, trip)
		require.NoError(t, err)

		// restaurant averaged over both raters, museum over the single one
		assert.Equal(t, types.GroupPreferenceMap{"restaurant": 1.5, "museum": 1.0}, group)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		third := uuid.New()
		threeWay := &types.Trip{
			ID:      tripID,
			OwnerID: owner,
			Members: []types.TripMember{
				member(memberID, types.MemberStatusAccepted),
				member(third, types.MemberStatusAccepted),
			},
		}
		mockRepo.On("GetPreferencesForUsers", mock.Anything, []uuid.UUID{owner, memberID, third}).
			Return([]*types.UserPreference{
				{UserID: owner, CategorySlug: "park", Score: 2},
				{UserID: memberID, CategorySlug: "park", Score: 1},
				{UserID: third, CategorySlug: "park", Score: 1},
			}, nil)

		group, err := svc.GetGroupPreferences(ctx, threeWay)
		require.NoError(t, err)
		assert.Equal(t, 1.33, group["park"]) // 4/3 rounded
	})

	t.Run("pending and declined members excluded", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		withInvites := &types.Trip{
			ID:      tripID,
			OwnerID: owner,
			Members: []types.TripMember{
				member(uuid.New(), types.MemberStatusPending),
				member(uuid.New(), types.MemberStatusDeclined),
			},
		}
		mockRepo.On("GetPreferencesForUsers", mock.Anything, []uuid.UUID{owner}).
			Return([]*types.UserPreference{
				{UserID: owner, CategorySlug: "museum", Score: 2},
			}, nil)

		group, err := svc.GetGroupPreferences(ctx, withInvites)
		require.NoError(t, err)
		assert.Equal(t, types.GroupPreferenceMap{"museum": 2.0}, group)
	})

	t.Run("no ratings yields empty map", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("GetPreferencesForUsers", mock.Anything, []uuid.UUID{owner, memberID}).
			Return([]*types.UserPreference{}, nil)

		group, err := svc.GetGroupPreferences(ctx, trip)
		require.NoError(t, err)
		assert.Empty(t, group)
		assert.NotNil(t, group)
	})

	t.Run("no eligible participants skips the fetch", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		group, err := svc.GetGroupPreferences(ctx, &types.Trip{ID: tripID})
		require.NoError(t, err)
		assert.Empty(t, group)
		mockRepo.AssertNotCalled(t, "GetPreferencesForUsers", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("GetPreferencesForUsers", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		group, err := svc.GetGroupPreferences(ctx, trip)
		assert.Nil(t, group)
		assert.ErrorContains(t, err, "error fetching participant preferences")
	})
}

func TestServiceImpl_SetPreference(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name          string
		score         int
		expectedScore int
	}{
		{name: "in range passes through", score: 1, expectedScore: 1},
		{name: "above max clamped", score: 7, expectedScore: 2},
		{name: "below min clamped", score: -3, expectedScore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := newTestService(mockRepo)

			expected := &types.UserPreference{UserID: userID, CategorySlug: "museum", Score: tt.expectedScore}
			mockRepo.On("SetPreference", mock.Anything, userID, "museum", tt.expectedScore).Return(expected, nil)

			pref, err := svc.SetPreference(ctx, userID, "museum", tt.score)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedScore, pref.Score)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestServiceImpl_DeletePreference(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("DeletePreference", mock.Anything, userID, "park").Return(nil)
		assert.NoError(t, svc.DeletePreference(ctx, userID, "park"))
	})

	t.Run("repository error wrapped", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("DeletePreference", mock.Anything, userID, "park").Return(errors.New("timeout"))
		assert.ErrorContains(t, svc.DeletePreference(ctx, userID, "park"), "error deleting preference")
	})
}
