package strikes

import (
	"database/sql"
	"strike-bot/model"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, CreateTables(db))
	return db
}

func TestInsertAndGetStrike(t *testing.T) {
	db := newTestDB(t)

	record := model.StrikeRecord{
		GuildID:     "g1",
		UserID:      "u1",
		ModeratorID: "m1",
		OffenseType: "spam",
		Points:      2,
		Reason:      "repeated links",
		Evidence:    "https://discord.com/channels/1/2/3",
		CreatedAt:   time.Now().Unix(),
	}

	id, err := InsertStrike(db, record)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	got, err := GetStrikeByID(db, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "g1", got.GuildID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 2, got.Points)
	assert.Equal(t, "repeated links", got.Reason)
	assert.False(t, got.ExpiresAt.Valid)
	assert.False(t, got.Removed)

	// IDs increase monotonically.
	id2, err := InsertStrike(db, record)
	require.NoError(t, err)
	assert.Greater(t, id2, id)
}

func TestGetStrikeByIDNotFound(t *testing.T) {
	db := newTestDB(t)

	got, err := GetStrikeByID(db, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMarkStrikeRemovedIdempotent(t *testing.T) {
	db := newTestDB(t)

	id, err := InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u1", ModeratorID: "m1",
		Points: 1, CreatedAt: time.Now().Unix(),
	})
	require.NoError(t, err)

	removed, err := MarkStrikeRemoved(db, id, "m2", "appeal", time.Now())
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := GetStrikeByID(db, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Removed)
	assert.Equal(t, "m2", got.RemovedBy.String)
	assert.Equal(t, "appeal", got.RemovedReason.String)

	removed, err = MarkStrikeRemoved(db, id, "m3", "again", time.Now())
	require.NoError(t, err)
	assert.False(t, removed)

	// First removal metadata is preserved.
	got, err = GetStrikeByID(db, id)
	require.NoError(t, err)
	assert.Equal(t, "m2", got.RemovedBy.String)

	removed, err = MarkStrikeRemoved(db, 999, "m1", "", time.Now())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestClearActiveStrikesSkipsRemovedAndExpired(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	// Active strike.
	_, err := InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u1", ModeratorID: "m1",
		Points: 1, CreatedAt: now.Unix(),
	})
	require.NoError(t, err)

	// Already removed strike.
	removedID, err := InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u1", ModeratorID: "m1",
		Points: 1, CreatedAt: now.Unix(),
	})
	require.NoError(t, err)
	_, err = MarkStrikeRemoved(db, removedID, "m1", "", now)
	require.NoError(t, err)

	// Expired strike.
	_, err = InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u1", ModeratorID: "m1",
		Points: 1, CreatedAt: now.Add(-48 * time.Hour).Unix(),
		ExpiresAt: sql.NullInt64{Int64: now.Add(-time.Hour).Unix(), Valid: true},
	})
	require.NoError(t, err)

	// Another user's strike stays untouched.
	otherID, err := InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u2", ModeratorID: "m1",
		Points: 1, CreatedAt: now.Unix(),
	})
	require.NoError(t, err)

	cleared, err := ClearActiveStrikes(db, "g1", "u1", "m9", "amnesty", now)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared, "only the active strike is cleared")

	other, err := GetStrikeByID(db, otherID)
	require.NoError(t, err)
	assert.False(t, other.Removed)
}

func TestBalanceUpsertAndGet(t *testing.T) {
	db := newTestDB(t)

	got, err := GetBalance(db, "g1", "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	balance := model.UserBalance{
		GuildID: "g1", UserID: "u1",
		TotalPoints: 7, ActivePoints: 4,
		TotalStrikeCount: 3, ActiveStrikeCount: 2,
		LastStrikeAt: 1700000000, LastActuatedPoints: 3,
	}
	require.NoError(t, UpsertBalance(db, balance))

	got, err = GetBalance(db, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, balance, *got)

	balance.ActivePoints = 0
	balance.ActiveStrikeCount = 0
	require.NoError(t, UpsertBalance(db, balance))

	got, err = GetBalance(db, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.ActivePoints)
	assert.Equal(t, 7, got.TotalPoints)
}

func TestListStaleBalances(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, UpsertBalance(db, model.UserBalance{
		GuildID: "g1", UserID: "u1", ActivePoints: 2, ActiveStrikeCount: 1,
	}))
	require.NoError(t, UpsertBalance(db, model.UserBalance{
		GuildID: "g1", UserID: "u2", TotalPoints: 5, TotalStrikeCount: 2,
	}))
	require.NoError(t, UpsertBalance(db, model.UserBalance{
		GuildID: "g2", UserID: "u3", ActivePoints: 1, ActiveStrikeCount: 1,
	}))

	keys, err := ListStaleBalances(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []BalanceKey{
		{GuildID: "g1", UserID: "u1"},
		{GuildID: "g2", UserID: "u3"},
	}, keys)
}

func TestOffenseValueCRUD(t *testing.T) {
	db := newTestDB(t)

	_, found, err := GetOffenseValue(db, "g1", "spam")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, UpsertOffenseValue(db, model.OffenseDefinition{
		GuildID: "g1", OffenseType: "spam", Points: 1, Description: "spam",
	}))
	require.NoError(t, UpsertOffenseValue(db, model.OffenseDefinition{
		GuildID: "g1", OffenseType: "slurs", Points: 5,
	}))

	def, found, err := GetOffenseValue(db, "g1", "spam")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, def.Points)

	// Upsert overwrites in place.
	require.NoError(t, UpsertOffenseValue(db, model.OffenseDefinition{
		GuildID: "g1", OffenseType: "spam", Points: 2, Description: "worse spam",
	}))
	def, found, err = GetOffenseValue(db, "g1", "spam")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, def.Points)
	assert.Equal(t, "worse spam", def.Description)

	defs, err := ListOffenseValues(db, "g1")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "spam", defs[0].OffenseType, "ordered by points ascending")
	assert.Equal(t, "slurs", defs[1].OffenseType)
}

func TestThresholdCRUD(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, UpsertThreshold(db, model.Threshold{
		GuildID: "g1", PointsRequired: 10, ActionType: "kick",
	}))
	require.NoError(t, UpsertThreshold(db, model.Threshold{
		GuildID: "g1", PointsRequired: 3, ActionType: "warn",
	}))
	require.NoError(t, UpsertThreshold(db, model.Threshold{
		GuildID: "g1", PointsRequired: 5, ActionType: "timeout", ActionDuration: 3600,
	}))

	thresholds, err := ListThresholds(db, "g1")
	require.NoError(t, err)
	require.Len(t, thresholds, 3)
	assert.Equal(t, []int{3, 5, 10}, []int{
		thresholds[0].PointsRequired,
		thresholds[1].PointsRequired,
		thresholds[2].PointsRequired,
	})

	// Upsert replaces the action at an existing requirement.
	require.NoError(t, UpsertThreshold(db, model.Threshold{
		GuildID: "g1", PointsRequired: 5, ActionType: "timeout", ActionDuration: 7200,
	}))
	thresholds, err = ListThresholds(db, "g1")
	require.NoError(t, err)
	require.Len(t, thresholds, 3)
	assert.Equal(t, int64(7200), thresholds[1].ActionDuration)

	removed, err := DeleteThreshold(db, "g1", 5)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = DeleteThreshold(db, "g1", 5)
	require.NoError(t, err)
	assert.False(t, removed)

	thresholds, err = ListThresholds(db, "g1")
	require.NoError(t, err)
	assert.Len(t, thresholds, 2)
}

func TestGuildSettings(t *testing.T) {
	db := newTestDB(t)

	settings, err := GetGuildSettings(db, "g1")
	require.NoError(t, err)
	assert.Nil(t, settings)

	created, err := InsertGuildSettingsIfAbsent(db, model.GuildSettings{
		GuildID: "g1", DecayEnabled: true, DecayDays: 30, ModLogChannel: "c1",
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = InsertGuildSettingsIfAbsent(db, model.GuildSettings{
		GuildID: "g1", DecayEnabled: false, DecayDays: 7,
	})
	require.NoError(t, err)
	assert.False(t, created)

	settings, err = GetGuildSettings(db, "g1")
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.True(t, settings.DecayEnabled)
	assert.Equal(t, 30, settings.DecayDays)

	settings.DecayDays = 14
	require.NoError(t, UpsertGuildSettings(db, *settings))

	settings, err = GetGuildSettings(db, "g1")
	require.NoError(t, err)
	assert.Equal(t, 14, settings.DecayDays)
}

func TestModeratorStrikeStats(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	for n := 0; n < 3; n++ {
		_, err := InsertStrike(db, model.StrikeRecord{
			GuildID: "g1", UserID: "u1", ModeratorID: "m1",
			Points: 1, CreatedAt: now.Unix(),
		})
		require.NoError(t, err)
	}
	_, err := InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u2", ModeratorID: "m2",
		Points: 1, CreatedAt: now.Unix(),
	})
	require.NoError(t, err)
	// Outside the window.
	_, err = InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u2", ModeratorID: "m2",
		Points: 1, CreatedAt: now.Add(-48 * time.Hour).Unix(),
	})
	require.NoError(t, err)

	stats, err := GetModeratorStrikeStats(db, "g1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"m1": 3, "m2": 1}, stats)

	total, err := GetTotalStrikeCount(db, "g1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	all, err := CountAllStrikes(db)
	require.NoError(t, err)
	assert.Equal(t, 5, all)
}

func TestGetTopBalances(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, UpsertBalance(db, model.UserBalance{GuildID: "g1", UserID: "u1", ActivePoints: 3}))
	require.NoError(t, UpsertBalance(db, model.UserBalance{GuildID: "g1", UserID: "u2", ActivePoints: 9}))
	require.NoError(t, UpsertBalance(db, model.UserBalance{GuildID: "g1", UserID: "u3"}))

	top, err := GetTopBalances(db, "g1", 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "u2", top[0].UserID)
	assert.Equal(t, "u1", top[1].UserID)
}
