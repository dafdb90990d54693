package handlers

import (
	"log"
	"strike-bot/bot"
	"strike-bot/handlers/strike"
	"strike-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"strike": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			strike.HandleStrikeCommand(s, i, b)
		},
		"strike_admin": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			strike.HandleStrikeAdminCommand(s, i, b)
		},
		"strike_config": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			strike.HandleStrikeConfigCommand(s, i, b)
		},
		"mod_status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
}

// requireAdmin rejects the interaction unless the member holds a
// configured admin role or is a developer.
func requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) bool {
	serverConfig, ok := b.GetConfig().ServerConfigs[i.GuildID]
	if !ok {
		log.Printf("Could not find server config for guild: %s", i.GuildID)
		utils.SendSimpleResponse(s, i, "This server is not configured.")
		return false
	}
	if i.Member == nil {
		utils.SendSimpleResponse(s, i, "This command can only be used inside a guild.")
		return false
	}

	level := utils.CheckPermission(i.Member.Roles, i.Member.User.ID, serverConfig.AdminRoleIDs, b.GetConfig().DeveloperUserIDs)
	if level == utils.GuestPermission {
		utils.SendSimpleResponse(s, i, "You do not have permission to use this command.")
		return false
	}
	return true
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
				h(s, i)
			}
		}
	})
}
