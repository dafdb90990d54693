package strike

import (
	"fmt"
	"strike-bot/model"
	"strike-bot/moderation"
	"strike-bot/utils"
	"time"

	"github.com/bwmarrin/discordgo"
)

// buildStrikeEmbed creates the embed announcing a recorded strike.
func buildStrikeEmbed(i *discordgo.InteractionCreate, targetUser *discordgo.User, result *moderation.AddStrikeResult, actuationErr error) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Strike Recorded",
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: targetUser.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: targetUser.Mention(), Inline: true},
			{Name: "Points", Value: fmt.Sprintf("%d", result.Points), Inline: true},
			{Name: "Active Total", Value: fmt.Sprintf("%d", result.Balance.ActivePoints), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     15105570, // Orange
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("By %s | Strike ID: %d", i.Member.User.Username, result.StrikeID),
		},
	}

	switch {
	case result.Action == nil:
		// No tier crossed, nothing to add.
	case actuationErr != nil:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Escalation",
			Value: fmt.Sprintf("⚠️ %s at %d points could not be executed, see log channel.", result.Action.ActionType, result.Action.PointsRequired),
		})
		embed.Color = 15158332 // Red
	default:
		value := fmt.Sprintf("%s (tier %d)", result.Action.ActionType, result.Action.PointsRequired)
		if result.Action.Duration > 0 {
			value += ", " + utils.FormatDuration(result.Action.Duration)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Escalation",
			Value: value,
		})
		embed.Color = 15158332 // Red
	}

	return embed
}

// buildHistoryEmbed creates the strike history embed for strike_admin list.
func buildHistoryEmbed(targetUser *discordgo.User, records []model.StrikeRecord, balance *model.UserBalance) *discordgo.MessageEmbed {
	now := time.Now()

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Strike history for %s", targetUser.Username),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: targetUser.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Active Points", Value: fmt.Sprintf("%d", balance.ActivePoints), Inline: true},
			{Name: "Lifetime Points", Value: fmt.Sprintf("%d", balance.TotalPoints), Inline: true},
			{Name: "Active / Total Strikes", Value: fmt.Sprintf("%d / %d", balance.ActiveStrikeCount, balance.TotalStrikeCount), Inline: true},
		},
		Color: 0x5865F2,
	}

	if len(records) == 0 {
		embed.Description = "No strikes recorded."
		return embed
	}

	// Show the most recent strikes first, capped to keep the embed small.
	const maxShown = 10
	var description string
	shown := 0
	for idx := len(records) - 1; idx >= 0 && shown < maxShown; idx-- {
		r := records[idx]
		line := fmt.Sprintf("`#%d` %d pts", r.StrikeID, r.Points)
		if r.OffenseType != "" {
			line += fmt.Sprintf(" [%s]", r.OffenseType)
		}
		line += fmt.Sprintf(" — %s — <t:%d:R>", r.Status(now), r.CreatedAt)
		if r.Reason != "" {
			line += " — " + r.Reason
		}
		description += line + "\n"
		shown++
	}
	if len(records) > maxShown {
		description += fmt.Sprintf("… and %d older strikes\n", len(records)-maxShown)
	}
	embed.Description = description

	return embed
}
