package scanner

import (
	"log"
	"strike-bot/moderation"
	"time"
)

// perGuildBudget caps how long a sweep spends inside a single guild so
// one slow guild cannot stall the whole cycle.
const perGuildBudget = 30 * time.Second

// SweepResult summarizes one decay sweep cycle.
type SweepResult struct {
	GuildsVisited  int
	UsersRefreshed int
	Errors         int
}

// RunDecaySweep recomputes the cached balance of every user that still
// carries active strikes. A strike stops counting the instant its expiry
// passes, but nothing refreshes the cache at that moment; the sweep keeps
// displayed totals from going stale between strike events. It performs no
// mitigation actuation.
func RunDecaySweep(engine *moderation.Engine) SweepResult {
	var result SweepResult

	candidates, err := engine.SweepCandidates()
	if err != nil {
		log.Printf("Error listing decay sweep candidates: %v", err)
		result.Errors++
		return result
	}

	// Candidates arrive ordered by guild, so settings lookups and the
	// per-guild budget work on contiguous runs.
	currentGuild := ""
	guildDeadline := time.Time{}
	skipGuild := false

	for _, key := range candidates {
		if key.GuildID != currentGuild {
			currentGuild = key.GuildID
			guildDeadline = time.Now().Add(perGuildBudget)
			skipGuild = false
			result.GuildsVisited++

			settings, err := engine.GetGuildSettings(key.GuildID)
			if err != nil {
				log.Printf("Error loading settings for guild %s during sweep: %v", key.GuildID, err)
				result.Errors++
				skipGuild = true
			} else if settings == nil || !settings.DecayEnabled {
				// Nothing expires in guilds without decay.
				skipGuild = true
			}
		}
		if skipGuild {
			continue
		}
		if time.Now().After(guildDeadline) {
			log.Printf("Decay sweep budget exceeded for guild %s, deferring remaining users to next cycle", key.GuildID)
			skipGuild = true
			continue
		}

		if _, err := engine.Recompute(key.GuildID, key.UserID); err != nil {
			log.Printf("Error recomputing balance for user %s in guild %s: %v", key.UserID, key.GuildID, err)
			result.Errors++
			continue
		}
		result.UsersRefreshed++
	}

	return result
}
