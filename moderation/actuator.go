package moderation

import (
	"fmt"
	"strike-bot/model"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordActuator executes escalation actions through a discordgo
// session. Failures (user left the guild, missing permissions) come back
// as plain errors; the caller logs them and moves on, the ledger is
// already committed.
type DiscordActuator struct {
	session *discordgo.Session
}

func NewDiscordActuator(s *discordgo.Session) *DiscordActuator {
	return &DiscordActuator{session: s}
}

// Apply executes a single escalation action against the guild member.
func (a *DiscordActuator) Apply(guildID, userID string, action model.EscalationAction, reason string) error {
	switch action.ActionType {
	case model.ActionWarn:
		// Warnings carry no API action; delivery happens via the Notifier.
		return nil
	case model.ActionTimeout:
		until := time.Now().Add(action.Duration)
		if err := a.session.GuildMemberTimeout(guildID, userID, &until); err != nil {
			return fmt.Errorf("failed to timeout user %s in guild %s: %w", userID, guildID, err)
		}
	case model.ActionKick:
		if err := a.session.GuildMemberDeleteWithReason(guildID, userID, reason); err != nil {
			return fmt.Errorf("failed to kick user %s from guild %s: %w", userID, guildID, err)
		}
	case model.ActionBan:
		if err := a.session.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
			return fmt.Errorf("failed to ban user %s from guild %s: %w", userID, guildID, err)
		}
	case model.ActionRoleAdd:
		if err := a.session.GuildMemberRoleAdd(guildID, userID, action.RoleID); err != nil {
			return fmt.Errorf("failed to add role %s to user %s: %w", action.RoleID, userID, err)
		}
	case model.ActionRoleRemove:
		if err := a.session.GuildMemberRoleRemove(guildID, userID, action.RoleID); err != nil {
			return fmt.Errorf("failed to remove role %s from user %s: %w", action.RoleID, userID, err)
		}
	default:
		return fmt.Errorf("unknown escalation action type %q", action.ActionType)
	}
	return nil
}
