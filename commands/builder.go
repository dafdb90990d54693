package commands

import (
	"strike-bot/commands/defs"
	"strike-bot/model"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the slash command set registered for a guild.
func GenerateCommands(serverCfg *model.ServerConfig) []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Strike,
		defs.StrikeAdmin,
		defs.StrikeConfig,
		defs.ModStatus,
	}
}
