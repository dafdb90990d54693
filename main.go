package main

import (
	"log"
	"os"
	"path/filepath"
	"strike-bot/bot"
	"strike-bot/config"
	"strike-bot/handlers"
	strikes_db "strike-bot/utils/database/strikes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.StrikeDBPath), os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := strikes_db.Init(cfg.StrikeDBPath)
	if err != nil {
		log.Fatalf("Error initializing strike database: %v", err)
	}
	defer db.Close()

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	b.Run()

	defer b.Close()
}
