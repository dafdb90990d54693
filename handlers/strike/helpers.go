package strike

import (
	"github.com/bwmarrin/discordgo"
)

// ParsedOptions holds the parsed options from the strike command interaction.
type ParsedOptions struct {
	TargetUser  *discordgo.User
	OffenseType string
	Points      int
	Reason      string
	Evidence    string
}

// parseStrikeOptions extracts the command options from the interaction.
func parseStrikeOptions(s *discordgo.Session, i *discordgo.InteractionCreate) ParsedOptions {
	options := i.ApplicationCommandData().Options
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}

	var parsed ParsedOptions
	if userOpt, ok := optionMap["user"]; ok {
		parsed.TargetUser = userOpt.UserValue(s)
	}
	if offenseOpt, ok := optionMap["offense"]; ok {
		parsed.OffenseType = offenseOpt.StringValue()
	}
	if pointsOpt, ok := optionMap["points"]; ok {
		parsed.Points = int(pointsOpt.IntValue())
	}
	if reasonOpt, ok := optionMap["reason"]; ok {
		parsed.Reason = reasonOpt.StringValue()
	}
	if evidenceOpt, ok := optionMap["evidence"]; ok {
		parsed.Evidence = evidenceOpt.StringValue()
	}
	return parsed
}

// subOptionMap flattens a subcommand's options into a name-keyed map.
func subOptionMap(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		m[opt.Name] = opt
	}
	return m
}
