package tasks

import (
	"fmt"
	"log"
	"sort"
	"strike-bot/utils"
	strikes_db "strike-bot/utils/database/strikes"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// GenerateStrikeStatsEmbed builds the per-moderator strike activity embed
// for a guild over the given window.
func GenerateStrikeStatsEmbed(db *sqlx.DB, guildID string, duration time.Duration) (*discordgo.MessageEmbed, error) {
	since := time.Now().Add(-duration)
	stats, err := strikes_db.GetModeratorStrikeStats(db, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator strike stats for guild %s: %w", guildID, err)
	}

	total, err := strikes_db.GetTotalStrikeCount(db, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get total strike count for guild %s: %w", guildID, err)
	}

	var sortedModerators []string
	for moderatorID := range stats {
		sortedModerators = append(sortedModerators, moderatorID)
	}
	sort.Slice(sortedModerators, func(i, j int) bool {
		return stats[sortedModerators[i]] > stats[sortedModerators[j]]
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**Total strikes: %d**\n\n", total))
	for rank, moderatorID := range sortedModerators {
		builder.WriteString(fmt.Sprintf("%d. <@%s> — %d\n", rank+1, moderatorID, stats[moderatorID]))
	}
	if len(sortedModerators) == 0 {
		builder.WriteString("No strikes recorded in this window.")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Strike activity, last %s", utils.FormatDuration(duration)),
		Description: builder.String(),
		Color:       0x5865F2,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	return embed, nil
}

// UpdateStrikeStats posts the stats embed to the guild's stats channel.
func UpdateStrikeStats(s *discordgo.Session, db *sqlx.DB, guildID, channelID string, duration time.Duration) {
	if channelID == "" {
		return
	}

	embed, err := GenerateStrikeStatsEmbed(db, guildID, duration)
	if err != nil {
		log.Printf("Error generating strike stats for guild %s: %v", guildID, err)
		return
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Error sending strike stats to channel %s: %v", channelID, err)
	}
}
