package strike

import (
	"fmt"
	"log"
	"strike-bot/bot"
	"strike-bot/model"
	"strike-bot/utils"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HandleStrikeConfigCommand dispatches the strike_config subcommand groups.
func HandleStrikeConfigCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 || len(options[0].Options) == 0 {
		utils.SendFollowUpError(s, i.Interaction, "Missing subcommand.")
		return
	}
	group := options[0]
	sub := group.Options[0]

	switch group.Name {
	case "offense":
		handleOffenseConfig(s, i, b, sub)
	case "threshold":
		handleThresholdConfig(s, i, b, sub)
	case "decay":
		handleDecayConfig(s, i, b, sub)
	default:
		utils.SendFollowUpError(s, i.Interaction, "Unknown subcommand group.")
	}
}

func handleOffenseConfig(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	switch sub.Name {
	case "set":
		opts := subOptionMap(sub)
		offenseType := strings.ToLower(strings.TrimSpace(opts["type"].StringValue()))
		points := int(opts["points"].IntValue())
		var description string
		if descOpt, ok := opts["description"]; ok {
			description = descOpt.StringValue()
		}

		if err := b.Engine.SetOffenseValue(i.GuildID, offenseType, points, description); err != nil {
			log.Printf("Error setting offense value: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to save the offense value.")
			return
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ Offense `%s` now counts %d points.", offenseType, points))

	case "list":
		defs, err := b.Engine.ListOffenseValues(i.GuildID)
		if err != nil {
			log.Printf("Error listing offense values: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to load the offense catalog.")
			return
		}
		if len(defs) == 0 {
			utils.SendFollowUp(s, i.Interaction, "No offense values configured. Unknown offenses count 1 point.")
			return
		}

		var builder strings.Builder
		for _, def := range defs {
			builder.WriteString(fmt.Sprintf("`%s` — %d pts", def.OffenseType, def.Points))
			if def.Description != "" {
				builder.WriteString(" — " + def.Description)
			}
			builder.WriteString("\n")
		}
		utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
			Title:       "Offense Catalog",
			Description: builder.String(),
			Color:       0x5865F2,
		})

	default:
		utils.SendFollowUpError(s, i.Interaction, "Unknown offense subcommand.")
	}
}

func handleThresholdConfig(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	switch sub.Name {
	case "set":
		opts := subOptionMap(sub)
		points := int(opts["points"].IntValue())
		action := model.ActionType(opts["action"].StringValue())

		var durationSeconds int64
		if durationOpt, ok := opts["duration"]; ok {
			d, err := utils.ParseDuration(durationOpt.StringValue())
			if err != nil {
				utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("Invalid duration: %v", err))
				return
			}
			durationSeconds = int64(d.Seconds())
		}
		if action == model.ActionTimeout && durationSeconds <= 0 {
			utils.SendFollowUpError(s, i.Interaction, "Timeout actions need a duration, e.g. 1h.")
			return
		}

		var roleID string
		if roleOpt, ok := opts["role"]; ok {
			roleID = roleOpt.RoleValue(s, i.GuildID).ID
		}
		if (action == model.ActionRoleAdd || action == model.ActionRoleRemove) && roleID == "" {
			utils.SendFollowUpError(s, i.Interaction, "Role actions need a role.")
			return
		}

		if err := b.Engine.SetThreshold(i.GuildID, points, action, durationSeconds, roleID); err != nil {
			log.Printf("Error setting threshold: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to save the threshold.")
			return
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ At %d points: %s.", points, action))

	case "remove":
		opts := subOptionMap(sub)
		points := int(opts["points"].IntValue())

		removed, err := b.Engine.RemoveThreshold(i.GuildID, points)
		if err != nil {
			log.Printf("Error removing threshold: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to remove the threshold.")
			return
		}
		if !removed {
			utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("No threshold configured at %d points.", points))
			return
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ Threshold at %d points removed.", points))

	case "list":
		thresholds, err := b.Engine.ListThresholds(i.GuildID)
		if err != nil {
			log.Printf("Error listing thresholds: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to load the escalation ladder.")
			return
		}
		if len(thresholds) == 0 {
			utils.SendFollowUp(s, i.Interaction, "No thresholds configured; strikes accumulate without escalation.")
			return
		}

		var builder strings.Builder
		for _, t := range thresholds {
			builder.WriteString(fmt.Sprintf("%d pts → %s", t.PointsRequired, t.ActionType))
			if t.ActionDuration > 0 {
				builder.WriteString(fmt.Sprintf(" (%ds)", t.ActionDuration))
			}
			if t.ActionData != "" {
				builder.WriteString(fmt.Sprintf(" <@&%s>", t.ActionData))
			}
			builder.WriteString("\n")
		}
		utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
			Title:       "Escalation Ladder",
			Description: builder.String(),
			Color:       0x5865F2,
		})

	default:
		utils.SendFollowUpError(s, i.Interaction, "Unknown threshold subcommand.")
	}
}

func handleDecayConfig(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	if sub.Name != "set" {
		utils.SendFollowUpError(s, i.Interaction, "Unknown decay subcommand.")
		return
	}

	opts := subOptionMap(sub)
	enabled := opts["enabled"].BoolValue()
	days := 30
	if daysOpt, ok := opts["days"]; ok {
		days = int(daysOpt.IntValue())
	}
	if days <= 0 {
		utils.SendFollowUpError(s, i.Interaction, "Decay days must be positive.")
		return
	}

	settings, err := b.Engine.GetGuildSettings(i.GuildID)
	if err != nil {
		log.Printf("Error loading guild settings: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load guild settings.")
		return
	}
	if settings == nil {
		settings = &model.GuildSettings{GuildID: i.GuildID}
	}
	settings.DecayEnabled = enabled
	settings.DecayDays = days

	if err := b.Engine.UpdateGuildSettings(*settings); err != nil {
		log.Printf("Error updating guild settings: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to save guild settings.")
		return
	}

	if enabled {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ Strikes now expire after %d days. Existing strikes keep their original expiry.", days))
	} else {
		utils.SendFollowUp(s, i.Interaction, "✅ Strike expiry disabled. New strikes no longer expire.")
	}
}
