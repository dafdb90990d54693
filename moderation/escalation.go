package moderation

import (
	"strike-bot/model"
	strikes_db "strike-bot/utils/database/strikes"
	"time"
)

// evaluateLocked selects the single highest threshold satisfied by the
// freshly recomputed active points. A tier fires at most once: it only
// fires when it strictly exceeds the last actuated tier, and re-arms only
// after the balance drops below it (see recomputeLocked). Caller must
// hold the (guild, user) lock.
//
// "No threshold applies" is a normal outcome and returns (nil, nil).
func (e *Engine) evaluateLocked(guildID string, balance *model.UserBalance) (*model.EscalationAction, error) {
	thresholds, err := strikes_db.ListThresholds(e.db, guildID)
	if err != nil {
		return nil, err
	}

	tier := highestTier(thresholds, balance.ActivePoints)
	if tier == nil || tier.PointsRequired <= balance.LastActuatedPoints {
		return nil, nil
	}

	balance.LastActuatedPoints = tier.PointsRequired
	if err := strikes_db.UpsertBalance(e.db, *balance); err != nil {
		return nil, err
	}

	return &model.EscalationAction{
		ActionType:     model.ActionType(tier.ActionType),
		PointsRequired: tier.PointsRequired,
		Duration:       time.Duration(tier.ActionDuration) * time.Second,
		RoleID:         tier.ActionData,
	}, nil
}

// highestTier returns the last threshold in the ascending ladder whose
// requirement is within activePoints, or nil when none applies.
func highestTier(thresholds []model.Threshold, activePoints int) *model.Threshold {
	var tier *model.Threshold
	for i := range thresholds {
		if thresholds[i].PointsRequired > activePoints {
			break
		}
		tier = &thresholds[i]
	}
	return tier
}

func highestTierPoints(thresholds []model.Threshold, activePoints int) int {
	tier := highestTier(thresholds, activePoints)
	if tier == nil {
		return 0
	}
	return tier.PointsRequired
}
