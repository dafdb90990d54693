package moderation

import (
	"fmt"
	"log"
	"strike-bot/model"
	"strike-bot/utils"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier delivers strike notices over DM and guild channels.
// Delivery failures (closed DMs, deleted channels) are logged and
// swallowed.
type DiscordNotifier struct {
	session *discordgo.Session
}

func NewDiscordNotifier(s *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{session: s}
}

// NotifyUser sends the strike notice to the affected user as a DM.
func (n *DiscordNotifier) NotifyUser(notice model.StrikeNotice) {
	channel, err := n.session.UserChannelCreate(notice.UserID)
	if err != nil {
		log.Printf("Error creating private channel with user %s: %v", notice.UserID, err)
		return
	}
	if _, err := n.session.ChannelMessageSendEmbed(channel.ID, noticeEmbed(notice, true)); err != nil {
		log.Printf("Error sending strike notice to user %s: %v", notice.UserID, err)
	}
}

// NotifyGuildChannel posts the strike notice to a guild channel, usually
// the configured mod-log channel.
func (n *DiscordNotifier) NotifyGuildChannel(channelID string, notice model.StrikeNotice) {
	if channelID == "" {
		return
	}
	if _, err := n.session.ChannelMessageSendEmbed(channelID, noticeEmbed(notice, false)); err != nil {
		log.Printf("Error sending strike notice to channel %s: %v", channelID, err)
	}
}

func noticeEmbed(notice model.StrikeNotice, dm bool) *discordgo.MessageEmbed {
	title := "Strike Recorded"
	if dm {
		title = "You received a strike"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: 15105570, // Orange
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Points Added", Value: fmt.Sprintf("%d", notice.PointsAdded), Inline: true},
			{Name: "Active Points", Value: fmt.Sprintf("%d", notice.TotalActive), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Strike ID: %d", notice.StrikeID),
		},
	}

	if !dm {
		embed.Fields = append([]*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", notice.UserID), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", notice.ModeratorID), Inline: true},
		}, embed.Fields...)
	}

	if notice.Reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Reason", Value: notice.Reason})
	}

	if notice.ActionTaken != nil {
		value := string(notice.ActionTaken.ActionType)
		if notice.ActionTaken.Duration > 0 {
			value += " (" + utils.FormatDuration(notice.ActionTaken.Duration) + ")"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Action Taken", Value: value})
		embed.Color = 15158332 // Red
	}

	return embed
}
