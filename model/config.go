package model

import "time"

// ServerConfig holds the static per-guild configuration loaded from
// data/guild_config.json. Runtime moderation settings (decay window,
// thresholds, offense values) live in the database and are only seeded
// from here on first setup.
type ServerConfig struct {
	Name            string   `json:"name"`
	GuildID         string   `json:"guild_id"`
	Enable          bool     `json:"enable"`
	AdminRoleIDs    []string `json:"admin_role_ids"`
	ModLogChannelID string   `json:"mod_log_channel_id"`
	StatsChannelID  string   `json:"stats_channel_id"`
	DecayEnabled    bool     `json:"decay_enabled"`
	DecayDays       int      `json:"decay_days"`
}

// Config stores the application configuration.
type Config struct {
	BotToken         string
	AppID            string
	LogChannelID     string
	StrikeDBPath     string
	SweepInterval    time.Duration
	StatsInterval    time.Duration
	DeveloperUserIDs []string
	ServerConfigs    map[string]ServerConfig
}
