package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strike-bot/model"
	"strike-bot/utils"
	"syscall"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering commands for enabled guilds...")
	b.RegisteredCommands = make([]*discordgo.ApplicationCommand, 0)
	for _, serverCfg := range b.GetConfig().ServerConfigs {
		if !serverCfg.Enable {
			continue
		}
		b.RefreshCommands(serverCfg.GuildID)
		b.ensureGuildSetup(serverCfg)
	}

	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "System", "Startup", "Bot has started successfully.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

// ensureGuildSetup seeds the guild's engine configuration on first contact.
func (b *Bot) ensureGuildSetup(serverCfg model.ServerConfig) {
	settings := model.GuildSettings{
		GuildID:       serverCfg.GuildID,
		DecayEnabled:  serverCfg.DecayEnabled,
		DecayDays:     serverCfg.DecayDays,
		ModLogChannel: serverCfg.ModLogChannelID,
	}
	if err := b.Engine.EnsureGuild(settings); err != nil {
		log.Printf("Error ensuring guild setup for %s: %v", serverCfg.GuildID, err)
	}
}
