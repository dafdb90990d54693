package bot

import (
	"log"
	"strike-bot/model"
	"strike-bot/moderation"
	"strike-bot/scanner"
	"strike-bot/tasks"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetDB() *sqlx.DB
	GetSession() *discordgo.Session
	GetEngine() *moderation.Engine
}

// Scheduler manages all scheduled tasks.
type Scheduler struct {
	bot  BotProvider
	done chan struct{}
	wg   sync.WaitGroup

	sweepTicker *time.Ticker
	statsTicker *time.Ticker
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.startScheduledTasks()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) startScheduledTasks() {
	defer s.wg.Done()

	cfg := s.bot.GetConfig()
	s.sweepTicker = time.NewTicker(cfg.SweepInterval)
	s.statsTicker = time.NewTicker(cfg.StatsInterval)

	defer s.sweepTicker.Stop()
	defer s.statsTicker.Stop()

	// Run one sweep at startup so balances left stale across a restart
	// catch up immediately.
	s.runDecaySweep()

	for {
		select {
		case <-s.sweepTicker.C:
			s.runDecaySweep()
		case <-s.statsTicker.C:
			s.updateStrikeStats()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) runDecaySweep() {
	log.Println("Running decay sweep...")
	result := scanner.RunDecaySweep(s.bot.GetEngine())
	log.Printf("Decay sweep done: %d guilds, %d balances refreshed, %d errors",
		result.GuildsVisited, result.UsersRefreshed, result.Errors)
}

func (s *Scheduler) updateStrikeStats() {
	cfg := s.bot.GetConfig()

	var wg sync.WaitGroup
	workerLimit := 5
	guard := make(chan struct{}, workerLimit)

	for _, serverCfg := range cfg.ServerConfigs {
		if !serverCfg.Enable || serverCfg.StatsChannelID == "" {
			continue
		}
		wg.Add(1)
		guard <- struct{}{}

		go func(sc model.ServerConfig) {
			defer func() {
				<-guard
				wg.Done()
			}()
			tasks.UpdateStrikeStats(s.bot.GetSession(), s.bot.GetDB(), sc.GuildID, sc.StatsChannelID, cfg.StatsInterval)
		}(serverCfg)
	}

	wg.Wait()
}
