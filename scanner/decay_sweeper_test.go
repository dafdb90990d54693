package scanner

import (
	"database/sql"
	"strike-bot/model"
	"strike-bot/moderation"
	strikes_db "strike-bot/utils/database/strikes"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSweepFixture(t *testing.T) (*moderation.Engine, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, strikes_db.CreateTables(db))
	return moderation.NewEngine(db), db
}

// An expired strike stops counting the moment its expiry passes, but the
// cached balance only moves when something recomputes it. The sweep is
// that something.
func TestRunDecaySweepRefreshesExpiredBalances(t *testing.T) {
	engine, db := newSweepFixture(t)
	now := time.Now()

	require.NoError(t, engine.UpdateGuildSettings(model.GuildSettings{
		GuildID: "g1", DecayEnabled: true, DecayDays: 30,
	}))

	_, err := strikes_db.InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u1", ModeratorID: "m1",
		Points:    4,
		CreatedAt: now.Add(-40 * 24 * time.Hour).Unix(),
		ExpiresAt: sql.NullInt64{Int64: now.Add(-10 * 24 * time.Hour).Unix(), Valid: true},
	})
	require.NoError(t, err)

	// Stale cache still counting the expired strike.
	require.NoError(t, strikes_db.UpsertBalance(db, model.UserBalance{
		GuildID: "g1", UserID: "u1",
		TotalPoints: 4, ActivePoints: 4,
		TotalStrikeCount: 1, ActiveStrikeCount: 1,
	}))

	result := RunDecaySweep(engine)
	assert.Equal(t, 1, result.GuildsVisited)
	assert.Equal(t, 1, result.UsersRefreshed)
	assert.Equal(t, 0, result.Errors)

	balance, err := engine.GetBalance("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.ActivePoints)
	assert.Equal(t, 0, balance.ActiveStrikeCount)
	assert.Equal(t, 4, balance.TotalPoints)

	// The refreshed user drops out of the next sweep's candidate set.
	result = RunDecaySweep(engine)
	assert.Equal(t, 0, result.UsersRefreshed)
}

func TestRunDecaySweepSkipsGuildsWithoutDecay(t *testing.T) {
	engine, db := newSweepFixture(t)
	now := time.Now()

	require.NoError(t, engine.UpdateGuildSettings(model.GuildSettings{
		GuildID: "g1", DecayEnabled: false,
	}))

	_, err := strikes_db.InsertStrike(db, model.StrikeRecord{
		GuildID: "g1", UserID: "u1", ModeratorID: "m1",
		Points: 2, CreatedAt: now.Unix(),
	})
	require.NoError(t, err)
	require.NoError(t, strikes_db.UpsertBalance(db, model.UserBalance{
		GuildID: "g1", UserID: "u1",
		TotalPoints: 2, ActivePoints: 2,
		TotalStrikeCount: 1, ActiveStrikeCount: 1,
	}))

	result := RunDecaySweep(engine)
	assert.Equal(t, 1, result.GuildsVisited)
	assert.Equal(t, 0, result.UsersRefreshed)

	balance, err := engine.GetBalance("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, balance.ActivePoints)
}

func TestRunDecaySweepEmptyDatabase(t *testing.T) {
	engine, _ := newSweepFixture(t)

	result := RunDecaySweep(engine)
	assert.Equal(t, SweepResult{}, result)
}
