// Package moderation implements the violation scoring and escalation
// engine: a per-guild offense catalog, a threshold ladder, an
// append-mostly strike ledger, a cached per-user point balance, and the
// escalation evaluation that selects at most one mitigation action per
// ledger mutation.
//
// The engine never talks to the Discord API itself. Callers execute the
// returned EscalationAction through a MitigationActuator after the engine
// call has committed; a failing or slow mitigation can therefore never
// roll back or block the ledger.
package moderation

import (
	"database/sql"
	"strike-bot/model"
	"strike-bot/utils"
	strikes_db "strike-bot/utils/database/strikes"
	"time"

	"github.com/jmoiron/sqlx"
)

// Engine owns the strike ledger and the derived user balances. All
// mutations for a single (guild, user) pair are serialized through a
// keyed mutex; different users never contend.
type Engine struct {
	db    *sqlx.DB
	locks *utils.KeyedMutex
}

func NewEngine(db *sqlx.DB) *Engine {
	return &Engine{
		db:    db,
		locks: utils.NewKeyedMutex(),
	}
}

func lockKey(guildID, userID string) string {
	return guildID + ":" + userID
}

// AddStrikeRequest describes a violation to record. Points above zero
// override the catalog lookup; otherwise OffenseType is resolved against
// the guild's offense catalog, falling back to model.DefaultOffensePoints
// for unknown types.
type AddStrikeRequest struct {
	GuildID     string
	UserID      string
	ModeratorID string
	OffenseType string
	Points      int
	Reason      string
	Evidence    string
}

// AddStrikeResult reports the committed strike, the refreshed balance and
// the escalation action the caller must actuate, if any.
type AddStrikeResult struct {
	StrikeID int64
	Points   int
	Balance  model.UserBalance
	Action   *model.EscalationAction
}

// AddStrike appends a strike to the ledger, recomputes the user's balance
// and evaluates the escalation ladder. Once the insert has committed the
// strike is recorded regardless of what happens downstream.
func (e *Engine) AddStrike(req AddStrikeRequest) (*AddStrikeResult, error) {
	points := req.Points
	if points <= 0 {
		def, found, err := strikes_db.GetOffenseValue(e.db, req.GuildID, req.OffenseType)
		if err != nil {
			return nil, err
		}
		if found {
			points = def.Points
		} else {
			points = model.DefaultOffensePoints
		}
	}

	settings, err := strikes_db.GetGuildSettings(e.db, req.GuildID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := model.StrikeRecord{
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		ModeratorID: req.ModeratorID,
		OffenseType: req.OffenseType,
		Points:      points,
		Reason:      req.Reason,
		Evidence:    req.Evidence,
		CreatedAt:   now.Unix(),
	}
	if settings != nil && settings.DecayEnabled && settings.DecayDays > 0 {
		record.ExpiresAt = sql.NullInt64{Int64: now.Add(settings.DecayWindow()).Unix(), Valid: true}
	}

	unlock := e.locks.Lock(lockKey(req.GuildID, req.UserID))
	defer unlock()

	id, err := strikes_db.InsertStrike(e.db, record)
	if err != nil {
		return nil, err
	}

	balance, err := e.recomputeLocked(req.GuildID, req.UserID, now)
	if err != nil {
		return nil, err
	}

	action, err := e.evaluateLocked(req.GuildID, balance)
	if err != nil {
		return nil, err
	}

	return &AddStrikeResult{
		StrikeID: id,
		Points:   points,
		Balance:  *balance,
		Action:   action,
	}, nil
}

// RemoveStrike soft-deletes a single strike and refreshes the user's
// balance. Returns false without error when the strike does not exist or
// is already removed, so retries are no-ops.
func (e *Engine) RemoveStrike(strikeID int64, removedBy, reason string) (bool, error) {
	record, err := strikes_db.GetStrikeByID(e.db, strikeID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}

	unlock := e.locks.Lock(lockKey(record.GuildID, record.UserID))
	defer unlock()

	removed, err := strikes_db.MarkStrikeRemoved(e.db, strikeID, removedBy, reason, time.Now())
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	if _, err := e.recomputeLocked(record.GuildID, record.UserID, time.Now()); err != nil {
		return true, err
	}
	return true, nil
}

// ClearStrikes soft-deletes every active strike for a user in one logical
// operation and returns the number of strikes affected. A subsequent
// AddStrike starts escalation from zero.
func (e *Engine) ClearStrikes(guildID, userID, removedBy, reason string) (int, error) {
	unlock := e.locks.Lock(lockKey(guildID, userID))
	defer unlock()

	now := time.Now()
	cleared, err := strikes_db.ClearActiveStrikes(e.db, guildID, userID, removedBy, reason, now)
	if err != nil {
		return 0, err
	}

	if _, err := e.recomputeLocked(guildID, userID, now); err != nil {
		return cleared, err
	}
	return cleared, nil
}

// Recompute refreshes the cached balance for a user from the ledger. The
// decay sweeper calls this for every user that still carries active
// strikes, because expiry is time-driven and nothing else touches the
// cache when a strike ages out.
func (e *Engine) Recompute(guildID, userID string) (*model.UserBalance, error) {
	unlock := e.locks.Lock(lockKey(guildID, userID))
	defer unlock()

	return e.recomputeLocked(guildID, userID, time.Now())
}

// GetBalance returns the cached balance. It never recomputes; staleness
// is bounded by the sweep interval. Users without any recorded strike get
// a zero balance.
func (e *Engine) GetBalance(guildID, userID string) (*model.UserBalance, error) {
	balance, err := strikes_db.GetBalance(e.db, guildID, userID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return &model.UserBalance{GuildID: guildID, UserID: userID}, nil
	}
	return balance, nil
}

// GetStrike retrieves a single strike record, or nil when unknown.
func (e *Engine) GetStrike(strikeID int64) (*model.StrikeRecord, error) {
	return strikes_db.GetStrikeByID(e.db, strikeID)
}

// ListStrikes returns a user's full strike history, oldest first.
func (e *Engine) ListStrikes(guildID, userID string) ([]model.StrikeRecord, error) {
	return strikes_db.GetStrikesByUser(e.db, guildID, userID)
}

// SweepCandidates lists every (guild, user) whose cached balance still
// carries active strikes. Only those rows can change during a decay sweep.
func (e *Engine) SweepCandidates() ([]strikes_db.BalanceKey, error) {
	return strikes_db.ListStaleBalances(e.db)
}
