package model

import (
	"database/sql"
	"time"
)

// ActionType is the kind of mitigation action a threshold triggers.
type ActionType string

const (
	ActionWarn       ActionType = "warn"
	ActionTimeout    ActionType = "timeout"
	ActionKick       ActionType = "kick"
	ActionBan        ActionType = "ban"
	ActionRoleAdd    ActionType = "role_add"
	ActionRoleRemove ActionType = "role_remove"
)

// DefaultOffensePoints is used when a strike references an offense type
// that has no catalog entry for the guild.
const DefaultOffensePoints = 1

// Strike status projections, computed at read time.
const (
	StrikeStatusActive  = "active"
	StrikeStatusRemoved = "removed"
	StrikeStatusExpired = "expired"
)

// StrikeRecord represents a single strike record in the database.
// The database table is named 'strikes'. Records are only ever
// soft-deleted via the removed_* columns.
type StrikeRecord struct {
	StrikeID      int64          `db:"strike_id"` // Primary Key, Auto-increment
	GuildID       string         `db:"guild_id"`
	UserID        string         `db:"user_id"`
	ModeratorID   string         `db:"moderator_id"`
	OffenseType   string         `db:"offense_type"`
	Points        int            `db:"points"`
	Reason        string         `db:"reason"`
	Evidence      string         `db:"evidence"` // message links or JSON evidence blob
	CreatedAt     int64          `db:"created_at"`
	ExpiresAt     sql.NullInt64  `db:"expires_at"` // null when guild decay is disabled
	Removed       bool           `db:"removed"`
	RemovedBy     sql.NullString `db:"removed_by"`
	RemovedAt     sql.NullInt64  `db:"removed_at"`
	RemovedReason sql.NullString `db:"removed_reason"`
}

// ActiveAt reports whether the strike still counts toward active points
// at the given instant.
func (r StrikeRecord) ActiveAt(now time.Time) bool {
	if r.Removed {
		return false
	}
	if r.ExpiresAt.Valid && r.ExpiresAt.Int64 <= now.Unix() {
		return false
	}
	return true
}

// Status returns the read-time projection of the record's state.
func (r StrikeRecord) Status(now time.Time) string {
	if r.Removed {
		return StrikeStatusRemoved
	}
	if r.ExpiresAt.Valid && r.ExpiresAt.Int64 <= now.Unix() {
		return StrikeStatusExpired
	}
	return StrikeStatusActive
}

// OffenseDefinition maps an offense type to its point value for a guild.
type OffenseDefinition struct {
	GuildID     string `db:"guild_id"`
	OffenseType string `db:"offense_type"`
	Points      int    `db:"points"`
	Description string `db:"description"`
}

// Threshold maps a point requirement to exactly one escalation action.
// At most one threshold exists per (guild_id, points_required).
type Threshold struct {
	GuildID        string `db:"guild_id"`
	PointsRequired int    `db:"points_required"`
	ActionType     string `db:"action_type"`
	ActionDuration int64  `db:"action_duration"` // seconds, 0 when the action has no duration
	ActionData     string `db:"action_data"`     // role ID for role_add/role_remove
}

// UserBalance is the cached aggregate over a user's strikes. It is a
// materialized view of the strikes table; the engine's recompute is its
// only writer.
type UserBalance struct {
	GuildID           string `db:"guild_id"`
	UserID            string `db:"user_id"`
	TotalPoints       int    `db:"total_points"`
	ActivePoints      int    `db:"active_points"`
	TotalStrikeCount  int    `db:"total_strike_count"`
	ActiveStrikeCount int    `db:"active_strike_count"`
	LastStrikeAt      int64  `db:"last_strike_at"`
	// LastActuatedPoints is the points_required of the highest threshold
	// tier already actuated for this user. Guards against re-triggering
	// the same tier on every subsequent strike.
	LastActuatedPoints int `db:"last_actuated_points"`
}

// GuildSettings holds per-guild moderation engine configuration.
type GuildSettings struct {
	GuildID       string `db:"guild_id"`
	DecayEnabled  bool   `db:"decay_enabled"`
	DecayDays     int    `db:"decay_days"`
	ModLogChannel string `db:"mod_log_channel"`
}

// DecayWindow returns the configured decay window as a duration.
func (g GuildSettings) DecayWindow() time.Duration {
	return time.Duration(g.DecayDays) * 24 * time.Hour
}

// EscalationAction describes the mitigation action selected by the
// evaluator. Execution is the caller's responsibility.
type EscalationAction struct {
	ActionType     ActionType
	PointsRequired int
	Duration       time.Duration
	RoleID         string
}
