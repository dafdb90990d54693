package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strike-bot/model"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and the guild
// config JSON file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("STRIKE_DB_PATH", "data/strikes.db")
	v.SetDefault("GUILD_CONFIG_PATH", "data/guild_config.json")
	v.SetDefault("SWEEP_INTERVAL", "1h")
	v.SetDefault("STATS_INTERVAL", "1h")

	token := v.GetString("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := v.GetString("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logChannelID := v.GetString("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	sweepInterval := v.GetDuration("SWEEP_INTERVAL")
	if sweepInterval <= 0 {
		log.Printf("Warning: Invalid SWEEP_INTERVAL value %q, using default of 1h", v.GetString("SWEEP_INTERVAL"))
		sweepInterval = time.Hour
	}

	statsInterval := v.GetDuration("STATS_INTERVAL")
	if statsInterval <= 0 {
		statsInterval = time.Hour
	}

	cfg := &model.Config{
		BotToken:         token,
		AppID:            appID,
		LogChannelID:     logChannelID,
		StrikeDBPath:     v.GetString("STRIKE_DB_PATH"),
		SweepInterval:    sweepInterval,
		StatsInterval:    statsInterval,
		DeveloperUserIDs: splitIDs(v.GetString("DEVELOPER_USER_IDS")),
		ServerConfigs:    make(map[string]model.ServerConfig),
	}

	if err := loadGuildConfigs(v.GetString("GUILD_CONFIG_PATH"), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

func loadGuildConfigs(path string, cfg *model.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: Guild config file not found at %s, skipping.", path)
			return nil
		}
		return err
	}

	var servers []model.ServerConfig
	if err := json.Unmarshal(data, &servers); err != nil {
		return fmt.Errorf("failed to parse guild config %s: %w", path, err)
	}

	for _, sc := range servers {
		if sc.GuildID == "" {
			log.Printf("Warning: Skipping guild config entry %q with empty guild_id", sc.Name)
			continue
		}
		if sc.DecayEnabled && sc.DecayDays <= 0 {
			sc.DecayDays = 30
		}
		cfg.ServerConfigs[sc.GuildID] = sc
	}
	return nil
}
