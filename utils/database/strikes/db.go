package strikes

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init initializes the database and ensures all necessary tables are created.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := CreateTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// CreateTables creates all engine tables if they do not exist and applies
// column migrations from older schemas.
func CreateTables(db *sqlx.DB) error {
	strikesSchema := `CREATE TABLE IF NOT EXISTS strikes (
	          strike_id INTEGER PRIMARY KEY AUTOINCREMENT,
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          moderator_id TEXT NOT NULL,
	          offense_type TEXT DEFAULT '',
	          points INTEGER NOT NULL,
	          reason TEXT DEFAULT '',
	          evidence TEXT DEFAULT '',
	          created_at INTEGER NOT NULL,
	          expires_at INTEGER,
	          removed INTEGER NOT NULL DEFAULT 0,
	          removed_by TEXT,
	          removed_at INTEGER,
	          removed_reason TEXT
	      );`
	if _, err := db.Exec(strikesSchema); err != nil {
		return fmt.Errorf("failed to create strikes table: %w", err)
	}

	offenseSchema := `CREATE TABLE IF NOT EXISTS offense_values (
	          guild_id TEXT NOT NULL,
	          offense_type TEXT NOT NULL,
	          points INTEGER NOT NULL,
	          description TEXT DEFAULT '',
	          PRIMARY KEY (guild_id, offense_type)
	      );`
	if _, err := db.Exec(offenseSchema); err != nil {
		return fmt.Errorf("failed to create offense_values table: %w", err)
	}

	thresholdSchema := `CREATE TABLE IF NOT EXISTS thresholds (
	          guild_id TEXT NOT NULL,
	          points_required INTEGER NOT NULL,
	          action_type TEXT NOT NULL,
	          action_duration INTEGER NOT NULL DEFAULT 0,
	          action_data TEXT DEFAULT '',
	          PRIMARY KEY (guild_id, points_required)
	      );`
	if _, err := db.Exec(thresholdSchema); err != nil {
		return fmt.Errorf("failed to create thresholds table: %w", err)
	}

	balanceSchema := `CREATE TABLE IF NOT EXISTS user_balances (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          total_points INTEGER NOT NULL DEFAULT 0,
	          active_points INTEGER NOT NULL DEFAULT 0,
	          total_strike_count INTEGER NOT NULL DEFAULT 0,
	          active_strike_count INTEGER NOT NULL DEFAULT 0,
	          last_strike_at INTEGER NOT NULL DEFAULT 0,
	          last_actuated_points INTEGER NOT NULL DEFAULT 0,
	          PRIMARY KEY (guild_id, user_id)
	      );`
	if _, err := db.Exec(balanceSchema); err != nil {
		return fmt.Errorf("failed to create user_balances table: %w", err)
	}

	settingsSchema := `CREATE TABLE IF NOT EXISTS guild_settings (
	          guild_id TEXT PRIMARY KEY,
	          decay_enabled INTEGER NOT NULL DEFAULT 0,
	          decay_days INTEGER NOT NULL DEFAULT 30,
	          mod_log_channel TEXT DEFAULT ''
	      );`
	if _, err := db.Exec(settingsSchema); err != nil {
		return fmt.Errorf("failed to create guild_settings table: %w", err)
	}

	indexStatements := []string{
		`CREATE INDEX IF NOT EXISTS idx_strikes_guild_user ON strikes (guild_id, user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_strikes_expiry ON strikes (expires_at) WHERE removed = 0`,
	}
	for _, stmt := range indexStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Add new columns if they don't exist (for migration from old schema)
	alterStatements := []string{
		`ALTER TABLE strikes ADD COLUMN removed_reason TEXT`,
		`ALTER TABLE user_balances ADD COLUMN last_actuated_points INTEGER NOT NULL DEFAULT 0`,
	}
	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil && !strings.Contains(err.Error(), "duplicate column name") {
			return fmt.Errorf("failed to execute ALTER statement %s: %w", stmt, err)
		}
	}

	return nil
}
