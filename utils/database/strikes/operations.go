package strikes

import (
	"database/sql"
	"fmt"
	"strike-bot/model"
	"time"

	"github.com/jmoiron/sqlx"
)

// BalanceKey identifies one user's balance within a guild.
type BalanceKey struct {
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
}

// InsertStrike appends a new strike record and returns the new record's ID.
func InsertStrike(db *sqlx.DB, record model.StrikeRecord) (int64, error) {
	query := `INSERT INTO strikes (guild_id, user_id, moderator_id, offense_type, points, reason, evidence, created_at, expires_at, removed)
			  VALUES (:guild_id, :user_id, :moderator_id, :offense_type, :points, :reason, :evidence, :created_at, :expires_at, 0)`

	result, err := db.NamedExec(query, record)
	if err != nil {
		return 0, fmt.Errorf("failed to insert strike record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return id, nil
}

// GetStrikeByID retrieves a single strike by its primary key. Returns
// (nil, nil) when no such strike exists.
func GetStrikeByID(db *sqlx.DB, id int64) (*model.StrikeRecord, error) {
	var record model.StrikeRecord
	query := "SELECT * FROM strikes WHERE strike_id = ?"
	err := db.Get(&record, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strike record by id %d: %w", id, err)
	}
	return &record, nil
}

// GetStrikesByUser retrieves all strike records for a user in a guild,
// including removed and expired ones, oldest first.
func GetStrikesByUser(db *sqlx.DB, guildID, userID string) ([]model.StrikeRecord, error) {
	var records []model.StrikeRecord
	query := "SELECT * FROM strikes WHERE guild_id = ? AND user_id = ? ORDER BY strike_id ASC"
	err := db.Select(&records, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get strike records for user %s in guild %s: %w", userID, guildID, err)
	}
	return records, nil
}

// MarkStrikeRemoved soft-deletes a single strike. Returns false when the
// strike does not exist or is already removed, making retries idempotent.
func MarkStrikeRemoved(db *sqlx.DB, id int64, removedBy, reason string, at time.Time) (bool, error) {
	query := `UPDATE strikes SET removed = 1, removed_by = ?, removed_at = ?, removed_reason = ?
			  WHERE strike_id = ? AND removed = 0`
	result, err := db.Exec(query, removedBy, at.Unix(), reason, id)
	if err != nil {
		return false, fmt.Errorf("failed to remove strike %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for strike %d: %w", id, err)
	}
	return rowsAffected > 0, nil
}

// ClearActiveStrikes soft-deletes every currently-active strike for a user
// and returns the number of strikes affected.
func ClearActiveStrikes(db *sqlx.DB, guildID, userID, removedBy, reason string, at time.Time) (int, error) {
	query := `UPDATE strikes SET removed = 1, removed_by = ?, removed_at = ?, removed_reason = ?
			  WHERE guild_id = ? AND user_id = ? AND removed = 0
			  AND (expires_at IS NULL OR expires_at > ?)`
	result, err := db.Exec(query, removedBy, at.Unix(), reason, guildID, userID, at.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to clear strikes for user %s in guild %s: %w", userID, guildID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected clearing strikes for user %s: %w", userID, err)
	}
	return int(rowsAffected), nil
}

// UpsertBalance writes the materialized balance row for a user.
func UpsertBalance(db *sqlx.DB, balance model.UserBalance) error {
	query := `INSERT INTO user_balances (guild_id, user_id, total_points, active_points, total_strike_count, active_strike_count, last_strike_at, last_actuated_points)
			  VALUES (:guild_id, :user_id, :total_points, :active_points, :total_strike_count, :active_strike_count, :last_strike_at, :last_actuated_points)
			  ON CONFLICT (guild_id, user_id) DO UPDATE SET
			      total_points = excluded.total_points,
			      active_points = excluded.active_points,
			      total_strike_count = excluded.total_strike_count,
			      active_strike_count = excluded.active_strike_count,
			      last_strike_at = excluded.last_strike_at,
			      last_actuated_points = excluded.last_actuated_points`
	if _, err := db.NamedExec(query, balance); err != nil {
		return fmt.Errorf("failed to upsert balance for user %s in guild %s: %w", balance.UserID, balance.GuildID, err)
	}
	return nil
}

// GetBalance retrieves the cached balance row for a user. Returns
// (nil, nil) when the user has no balance row yet.
func GetBalance(db *sqlx.DB, guildID, userID string) (*model.UserBalance, error) {
	var balance model.UserBalance
	query := "SELECT * FROM user_balances WHERE guild_id = ? AND user_id = ?"
	err := db.Get(&balance, query, guildID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %s in guild %s: %w", userID, guildID, err)
	}
	return &balance, nil
}

// ListStaleBalances returns the keys of every balance row that still
// carries active strikes. These are the only rows a decay sweep can change.
func ListStaleBalances(db *sqlx.DB) ([]BalanceKey, error) {
	var keys []BalanceKey
	query := "SELECT guild_id, user_id FROM user_balances WHERE active_strike_count > 0 ORDER BY guild_id"
	err := db.Select(&keys, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale balances: %w", err)
	}
	return keys, nil
}

// UpsertOffenseValue creates or updates a catalog entry. Idempotent.
func UpsertOffenseValue(db *sqlx.DB, def model.OffenseDefinition) error {
	query := `INSERT INTO offense_values (guild_id, offense_type, points, description)
			  VALUES (:guild_id, :offense_type, :points, :description)
			  ON CONFLICT (guild_id, offense_type) DO UPDATE SET
			      points = excluded.points,
			      description = excluded.description`
	if _, err := db.NamedExec(query, def); err != nil {
		return fmt.Errorf("failed to upsert offense value %s for guild %s: %w", def.OffenseType, def.GuildID, err)
	}
	return nil
}

// GetOffenseValue retrieves one catalog entry. The boolean reports whether
// the offense type is configured for the guild.
func GetOffenseValue(db *sqlx.DB, guildID, offenseType string) (*model.OffenseDefinition, bool, error) {
	var def model.OffenseDefinition
	query := "SELECT * FROM offense_values WHERE guild_id = ? AND offense_type = ?"
	err := db.Get(&def, query, guildID, offenseType)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get offense value %s for guild %s: %w", offenseType, guildID, err)
	}
	return &def, true, nil
}

// ListOffenseValues retrieves the guild's offense catalog ordered by points.
func ListOffenseValues(db *sqlx.DB, guildID string) ([]model.OffenseDefinition, error) {
	var defs []model.OffenseDefinition
	query := "SELECT * FROM offense_values WHERE guild_id = ? ORDER BY points ASC, offense_type ASC"
	err := db.Select(&defs, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offense values for guild %s: %w", guildID, err)
	}
	return defs, nil
}

// UpsertThreshold creates or updates a threshold tier.
func UpsertThreshold(db *sqlx.DB, t model.Threshold) error {
	query := `INSERT INTO thresholds (guild_id, points_required, action_type, action_duration, action_data)
			  VALUES (:guild_id, :points_required, :action_type, :action_duration, :action_data)
			  ON CONFLICT (guild_id, points_required) DO UPDATE SET
			      action_type = excluded.action_type,
			      action_duration = excluded.action_duration,
			      action_data = excluded.action_data`
	if _, err := db.NamedExec(query, t); err != nil {
		return fmt.Errorf("failed to upsert threshold %d for guild %s: %w", t.PointsRequired, t.GuildID, err)
	}
	return nil
}

// DeleteThreshold removes a threshold tier. Returns false when no tier
// exists at that point requirement.
func DeleteThreshold(db *sqlx.DB, guildID string, pointsRequired int) (bool, error) {
	result, err := db.Exec("DELETE FROM thresholds WHERE guild_id = ? AND points_required = ?", guildID, pointsRequired)
	if err != nil {
		return false, fmt.Errorf("failed to delete threshold %d for guild %s: %w", pointsRequired, guildID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected deleting threshold %d: %w", pointsRequired, err)
	}
	return rowsAffected > 0, nil
}

// ListThresholds retrieves the guild's escalation ladder, ascending by
// point requirement.
func ListThresholds(db *sqlx.DB, guildID string) ([]model.Threshold, error) {
	var thresholds []model.Threshold
	query := "SELECT * FROM thresholds WHERE guild_id = ? ORDER BY points_required ASC"
	err := db.Select(&thresholds, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thresholds for guild %s: %w", guildID, err)
	}
	return thresholds, nil
}

// GetGuildSettings retrieves engine settings for a guild. Returns
// (nil, nil) when the guild has never been set up.
func GetGuildSettings(db *sqlx.DB, guildID string) (*model.GuildSettings, error) {
	var settings model.GuildSettings
	query := "SELECT * FROM guild_settings WHERE guild_id = ?"
	err := db.Get(&settings, query, guildID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for guild %s: %w", guildID, err)
	}
	return &settings, nil
}

// UpsertGuildSettings writes engine settings for a guild.
func UpsertGuildSettings(db *sqlx.DB, settings model.GuildSettings) error {
	query := `INSERT INTO guild_settings (guild_id, decay_enabled, decay_days, mod_log_channel)
			  VALUES (:guild_id, :decay_enabled, :decay_days, :mod_log_channel)
			  ON CONFLICT (guild_id) DO UPDATE SET
			      decay_enabled = excluded.decay_enabled,
			      decay_days = excluded.decay_days,
			      mod_log_channel = excluded.mod_log_channel`
	if _, err := db.NamedExec(query, settings); err != nil {
		return fmt.Errorf("failed to upsert settings for guild %s: %w", settings.GuildID, err)
	}
	return nil
}

// InsertGuildSettingsIfAbsent writes settings only when the guild has no
// row yet. Returns true when a new row was created.
func InsertGuildSettingsIfAbsent(db *sqlx.DB, settings model.GuildSettings) (bool, error) {
	query := `INSERT INTO guild_settings (guild_id, decay_enabled, decay_days, mod_log_channel)
			  VALUES (:guild_id, :decay_enabled, :decay_days, :mod_log_channel)
			  ON CONFLICT (guild_id) DO NOTHING`
	result, err := db.NamedExec(query, settings)
	if err != nil {
		return false, fmt.Errorf("failed to insert settings for guild %s: %w", settings.GuildID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for guild %s settings: %w", settings.GuildID, err)
	}
	return rowsAffected > 0, nil
}

// GetModeratorStrikeStats retrieves the strike count per moderator within
// a time range, most active first.
func GetModeratorStrikeStats(db *sqlx.DB, guildID string, since time.Time) (map[string]int, error) {
	query := `SELECT moderator_id, COUNT(*) as count FROM strikes WHERE guild_id = ? AND created_at >= ? GROUP BY moderator_id ORDER BY count DESC`
	rows, err := db.Query(query, guildID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator strike stats for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var moderatorID string
		var count int
		if err := rows.Scan(&moderatorID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan moderator strike stats row: %w", err)
		}
		stats[moderatorID] = count
	}
	return stats, rows.Err()
}

// GetTotalStrikeCount retrieves the number of strikes recorded in a guild
// within a time range.
func GetTotalStrikeCount(db *sqlx.DB, guildID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM strikes WHERE guild_id = ? AND created_at >= ?`
	err := db.Get(&count, query, guildID, since.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to get total strike count for guild %s: %w", guildID, err)
	}
	return count, nil
}

// CountAllStrikes returns the total number of strike records across all guilds.
func CountAllStrikes(db *sqlx.DB) (int, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM strikes"); err != nil {
		return 0, fmt.Errorf("failed to count strikes: %w", err)
	}
	return count, nil
}

// GetTopBalances returns the highest active balances for a guild.
func GetTopBalances(db *sqlx.DB, guildID string, limit int) ([]model.UserBalance, error) {
	var balances []model.UserBalance
	query := `SELECT * FROM user_balances WHERE guild_id = ? AND active_points > 0 ORDER BY active_points DESC LIMIT ?`
	err := db.Select(&balances, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances for guild %s: %w", guildID, err)
	}
	return balances, nil
}
