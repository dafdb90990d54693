package moderation

import (
	"strike-bot/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ladder(points ...int) []model.Threshold {
	thresholds := make([]model.Threshold, 0, len(points))
	for _, p := range points {
		thresholds = append(thresholds, model.Threshold{
			GuildID:        testGuild,
			PointsRequired: p,
			ActionType:     string(model.ActionWarn),
		})
	}
	return thresholds
}

func TestHighestTier(t *testing.T) {
	thresholds := ladder(3, 5, 8, 10, 15)

	tests := []struct {
		name         string
		activePoints int
		wantTier     int // 0 means none
	}{
		{"below lowest tier", 2, 0},
		{"exactly lowest tier", 3, 3},
		{"between tiers", 4, 3},
		{"exactly middle tier", 8, 8},
		{"exactly highest tier", 15, 15},
		{"beyond highest tier", 100, 15},
		{"zero points", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := highestTier(thresholds, tt.activePoints)
			if tt.wantTier == 0 {
				assert.Nil(t, tier)
			} else {
				require.NotNil(t, tier)
				assert.Equal(t, tt.wantTier, tier.PointsRequired)
			}
		})
	}
}

func TestHighestTierEmptyLadder(t *testing.T) {
	assert.Nil(t, highestTier(nil, 50))
	assert.Equal(t, 0, highestTierPoints(nil, 50))
}

// A monotonically increasing point total must actuate every tier exactly
// once, in ascending order, with no duplicates.
func TestEscalationMonotonicity(t *testing.T) {
	e, _ := newTestEngine(t)
	tiers := []int{3, 5, 8, 10, 15}
	for _, p := range tiers {
		require.NoError(t, e.SetThreshold(testGuild, p, model.ActionWarn, 0, ""))
	}

	var actuated []int
	for n := 1; n <= 16; n++ {
		result, err := e.AddStrike(AddStrikeRequest{
			GuildID: testGuild, UserID: testUser, ModeratorID: testMod,
			Points: 1,
		})
		require.NoError(t, err)
		if result.Action != nil {
			actuated = append(actuated, result.Action.PointsRequired)
		}
	}

	assert.Equal(t, tiers, actuated)
}

// A strike worth more than one tier's gap must fire only the highest
// newly-applicable tier, skipping the intermediate ones.
func TestEscalationSkipsIntermediateTiers(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.SetThreshold(testGuild, 3, model.ActionWarn, 0, ""))
	require.NoError(t, e.SetThreshold(testGuild, 5, model.ActionTimeout, 3600, ""))
	require.NoError(t, e.SetThreshold(testGuild, 10, model.ActionKick, 0, ""))

	result, err := e.AddStrike(AddStrikeRequest{
		GuildID: testGuild, UserID: testUser, ModeratorID: testMod,
		Points: 12,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Action)
	assert.Equal(t, model.ActionKick, result.Action.ActionType)
	assert.Equal(t, 10, result.Action.PointsRequired)

	// The skipped tiers are covered by the watermark and stay silent.
	result, err = e.AddStrike(AddStrikeRequest{
		GuildID: testGuild, UserID: testUser, ModeratorID: testMod,
		Points: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Action)
}

func TestRoleActionCarriesRoleID(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.SetThreshold(testGuild, 2, model.ActionRoleAdd, 0, "role-muted"))

	result, err := e.AddStrike(AddStrikeRequest{
		GuildID: testGuild, UserID: testUser, ModeratorID: testMod,
		Points: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Action)
	assert.Equal(t, model.ActionRoleAdd, result.Action.ActionType)
	assert.Equal(t, "role-muted", result.Action.RoleID)
}
