package moderation

import (
	"strike-bot/model"
	strikes_db "strike-bot/utils/database/strikes"
	"time"
)

// recomputeLocked rebuilds the materialized balance row from the ledger.
// Caller must hold the (guild, user) lock.
//
// Invariant maintained here:
//
//	activePoints = Σ points of strikes with removed = false and
//	               (expires_at is null or expires_at > now)
//	totalPoints  = Σ points of every strike ever created
func (e *Engine) recomputeLocked(guildID, userID string, now time.Time) (*model.UserBalance, error) {
	records, err := strikes_db.GetStrikesByUser(e.db, guildID, userID)
	if err != nil {
		return nil, err
	}

	balance := model.UserBalance{GuildID: guildID, UserID: userID}
	for _, r := range records {
		balance.TotalPoints += r.Points
		balance.TotalStrikeCount++
		if r.CreatedAt > balance.LastStrikeAt {
			balance.LastStrikeAt = r.CreatedAt
		}
		if r.ActiveAt(now) {
			balance.ActivePoints += r.Points
			balance.ActiveStrikeCount++
		}
	}

	prev, err := strikes_db.GetBalance(e.db, guildID, userID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		balance.LastActuatedPoints = prev.LastActuatedPoints
	}

	// Dropping below a previously actuated tier re-arms it: clamp the
	// actuation watermark down to the highest tier the current points
	// still satisfy.
	if balance.ActivePoints < balance.LastActuatedPoints {
		thresholds, err := strikes_db.ListThresholds(e.db, guildID)
		if err != nil {
			return nil, err
		}
		balance.LastActuatedPoints = highestTierPoints(thresholds, balance.ActivePoints)
	}

	if err := strikes_db.UpsertBalance(e.db, balance); err != nil {
		return nil, err
	}
	return &balance, nil
}
