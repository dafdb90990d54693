package moderation

import (
	"strike-bot/model"
	strikes_db "strike-bot/utils/database/strikes"
)

// SetOffenseValue creates or updates a catalog entry. Idempotent upsert;
// catalog entries are never hard-deleted.
func (e *Engine) SetOffenseValue(guildID, offenseType string, points int, description string) error {
	return strikes_db.UpsertOffenseValue(e.db, model.OffenseDefinition{
		GuildID:     guildID,
		OffenseType: offenseType,
		Points:      points,
		Description: description,
	})
}

// GetOffenseValue looks up a catalog entry. The boolean reports whether
// the offense type is configured; callers apply the default-points
// fallback themselves (AddStrike already does).
func (e *Engine) GetOffenseValue(guildID, offenseType string) (*model.OffenseDefinition, bool, error) {
	return strikes_db.GetOffenseValue(e.db, guildID, offenseType)
}

// ListOffenseValues returns the guild's offense catalog ordered by points.
func (e *Engine) ListOffenseValues(guildID string) ([]model.OffenseDefinition, error) {
	return strikes_db.ListOffenseValues(e.db, guildID)
}

// SetThreshold creates or updates the escalation tier at the given point
// requirement. durationSeconds and roleID apply to timed and role actions.
func (e *Engine) SetThreshold(guildID string, pointsRequired int, action model.ActionType, durationSeconds int64, roleID string) error {
	return strikes_db.UpsertThreshold(e.db, model.Threshold{
		GuildID:        guildID,
		PointsRequired: pointsRequired,
		ActionType:     string(action),
		ActionDuration: durationSeconds,
		ActionData:     roleID,
	})
}

// RemoveThreshold deletes the tier at the given point requirement.
// Returns false when no such tier exists.
func (e *Engine) RemoveThreshold(guildID string, pointsRequired int) (bool, error) {
	return strikes_db.DeleteThreshold(e.db, guildID, pointsRequired)
}

// ListThresholds returns the guild's escalation ladder, ascending.
func (e *Engine) ListThresholds(guildID string) ([]model.Threshold, error) {
	return strikes_db.ListThresholds(e.db, guildID)
}

// GetGuildSettings returns the guild's engine settings, or nil when the
// guild was never set up.
func (e *Engine) GetGuildSettings(guildID string) (*model.GuildSettings, error) {
	return strikes_db.GetGuildSettings(e.db, guildID)
}

// UpdateGuildSettings overwrites the guild's engine settings.
func (e *Engine) UpdateGuildSettings(settings model.GuildSettings) error {
	return strikes_db.UpsertGuildSettings(e.db, settings)
}

// EnsureGuild creates the guild's settings row on first contact and seeds
// the default offense catalog and escalation ladder. Re-running it for an
// already configured guild changes nothing.
func (e *Engine) EnsureGuild(settings model.GuildSettings) error {
	created, err := strikes_db.InsertGuildSettingsIfAbsent(e.db, settings)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	return e.seedDefaults(settings.GuildID)
}

func (e *Engine) seedDefaults(guildID string) error {
	offenses := []model.OffenseDefinition{
		{GuildID: guildID, OffenseType: "spam", Points: 1, Description: "Repeated or disruptive messages"},
		{GuildID: guildID, OffenseType: "advertising", Points: 2, Description: "Unsolicited advertising or self-promotion"},
		{GuildID: guildID, OffenseType: "nsfw", Points: 3, Description: "NSFW content outside allowed channels"},
		{GuildID: guildID, OffenseType: "harassment", Points: 3, Description: "Targeted harassment of another member"},
		{GuildID: guildID, OffenseType: "slurs", Points: 5, Description: "Slurs or hate speech"},
	}
	for _, def := range offenses {
		if err := strikes_db.UpsertOffenseValue(e.db, def); err != nil {
			return err
		}
	}

	ladder := []model.Threshold{
		{GuildID: guildID, PointsRequired: 3, ActionType: string(model.ActionWarn)},
		{GuildID: guildID, PointsRequired: 5, ActionType: string(model.ActionTimeout), ActionDuration: 3600},
		{GuildID: guildID, PointsRequired: 8, ActionType: string(model.ActionTimeout), ActionDuration: 86400},
		{GuildID: guildID, PointsRequired: 10, ActionType: string(model.ActionKick)},
		{GuildID: guildID, PointsRequired: 15, ActionType: string(model.ActionBan)},
	}
	for _, t := range ladder {
		if err := strikes_db.UpsertThreshold(e.db, t); err != nil {
			return err
		}
	}
	return nil
}
