package model

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot provides an interface for bot functionality to avoid circular dependencies.
type Bot interface {
	GetConfig() *Config
	GetSession() *discordgo.Session
	GetDB() *sqlx.DB
}

// MitigationActuator executes an escalation action against the chat
// platform. Implementations must tolerate users who have already left
// the guild (return an error, never panic).
type MitigationActuator interface {
	Apply(guildID, userID string, action EscalationAction, reason string) error
}

// StrikeNotice carries the details of a recorded strike for delivery to
// the affected user or a guild channel.
type StrikeNotice struct {
	GuildID     string
	UserID      string
	ModeratorID string
	StrikeID    int64
	PointsAdded int
	TotalActive int
	Reason      string
	ActionTaken *EscalationAction
}

// Notifier delivers strike notifications. Delivery failures (closed DMs,
// missing channels) are logged and swallowed, never propagated.
type Notifier interface {
	NotifyUser(notice StrikeNotice)
	NotifyGuildChannel(channelID string, notice StrikeNotice)
}
