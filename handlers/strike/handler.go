package strike

import (
	"fmt"
	"log"
	"strike-bot/bot"
	"strike-bot/model"
	"strike-bot/moderation"
	"strike-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleStrikeCommand records a strike, actuates the resulting escalation
// (if any) and notifies the user and the mod-log channel. The ledger
// write is authoritative: actuation and notification failures are
// reported but never undo the strike.
func HandleStrikeCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	// 1. Defer initial response
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	// 2. Parse command options
	cmdOptions := parseStrikeOptions(s, i)
	if cmdOptions.TargetUser == nil {
		utils.SendFollowUpError(s, i.Interaction, "No target user supplied.")
		return
	}
	if cmdOptions.OffenseType == "" && cmdOptions.Points <= 0 {
		utils.SendFollowUpError(s, i.Interaction, "Provide an offense type or an explicit point value.")
		return
	}

	// 3. Record the strike and evaluate escalation
	result, err := b.Engine.AddStrike(moderation.AddStrikeRequest{
		GuildID:     i.GuildID,
		UserID:      cmdOptions.TargetUser.ID,
		ModeratorID: i.Member.User.ID,
		OffenseType: cmdOptions.OffenseType,
		Points:      cmdOptions.Points,
		Reason:      cmdOptions.Reason,
		Evidence:    cmdOptions.Evidence,
	})
	if err != nil {
		log.Printf("Error recording strike: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to record the strike.")
		return
	}

	// 4. Actuate the escalation action outside the engine. A failure here
	// is logged and surfaced, the strike stays recorded.
	var actuationErr error
	if result.Action != nil {
		actuationErr = b.Actuator.Apply(i.GuildID, cmdOptions.TargetUser.ID, *result.Action, cmdOptions.Reason)
		if actuationErr != nil {
			log.Printf("Error actuating %s for user %s: %v", result.Action.ActionType, cmdOptions.TargetUser.ID, actuationErr)
			utils.LogError(s, b.GetConfig().LogChannelID, "Escalation", string(result.Action.ActionType),
				fmt.Sprintf("guild %s user %s: %v", i.GuildID, cmdOptions.TargetUser.ID, actuationErr))
		}
	}

	// 5. Notify the user and the mod-log channel
	notice := model.StrikeNotice{
		GuildID:     i.GuildID,
		UserID:      cmdOptions.TargetUser.ID,
		ModeratorID: i.Member.User.ID,
		StrikeID:    result.StrikeID,
		PointsAdded: result.Points,
		TotalActive: result.Balance.ActivePoints,
		Reason:      cmdOptions.Reason,
	}
	if result.Action != nil && actuationErr == nil {
		notice.ActionTaken = result.Action
	}
	b.Notifier.NotifyUser(notice)
	if settings, err := b.Engine.GetGuildSettings(i.GuildID); err == nil && settings != nil {
		b.Notifier.NotifyGuildChannel(settings.ModLogChannel, notice)
	}

	// 6. Respond to the moderator
	embed := buildStrikeEmbed(i, cmdOptions.TargetUser, result, actuationErr)
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}
