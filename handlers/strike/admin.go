package strike

import (
	"fmt"
	"log"
	"strike-bot/bot"
	"strike-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleStrikeAdminCommand dispatches the strike_admin subcommands.
func HandleStrikeAdminCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		utils.SendFollowUpError(s, i.Interaction, "Missing subcommand.")
		return
	}
	sub := options[0]

	switch sub.Name {
	case "remove":
		handleRemove(s, i, b, sub)
	case "clear":
		handleClear(s, i, b, sub)
	case "list":
		handleList(s, i, b, sub)
	default:
		utils.SendFollowUpError(s, i.Interaction, "Unknown subcommand.")
	}
}

func handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := subOptionMap(sub)
	id := opts["id"].IntValue()
	var reason string
	if reasonOpt, ok := opts["reason"]; ok {
		reason = reasonOpt.StringValue()
	}

	removed, err := b.Engine.RemoveStrike(id, i.Member.User.ID, reason)
	if err != nil {
		log.Printf("Error removing strike %d: %v", id, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to remove the strike.")
		return
	}
	if !removed {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Strike %d was not found or is already removed.", id))
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ Strike %d removed.", id))
}

func handleClear(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := subOptionMap(sub)
	targetUser := opts["user"].UserValue(s)
	var reason string
	if reasonOpt, ok := opts["reason"]; ok {
		reason = reasonOpt.StringValue()
	}

	cleared, err := b.Engine.ClearStrikes(i.GuildID, targetUser.ID, i.Member.User.ID, reason)
	if err != nil {
		log.Printf("Error clearing strikes for user %s: %v", targetUser.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to clear strikes.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ Cleared %d active strikes for %s.", cleared, targetUser.Mention()))
}

func handleList(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := subOptionMap(sub)
	targetUser := opts["user"].UserValue(s)

	records, err := b.Engine.ListStrikes(i.GuildID, targetUser.ID)
	if err != nil {
		log.Printf("Error listing strikes for user %s: %v", targetUser.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load strike history.")
		return
	}
	balance, err := b.Engine.GetBalance(i.GuildID, targetUser.ID)
	if err != nil {
		log.Printf("Error loading balance for user %s: %v", targetUser.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load strike balance.")
		return
	}

	embed := buildHistoryEmbed(targetUser, records, balance)
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}
