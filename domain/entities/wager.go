package entities

import (
	"fmt"
	"strings"
	"time"
)

// WagerStatus represents the settlement lifecycle state of a wager
type WagerStatus string

const (
	WagerStatusPending   WagerStatus = "pending"
	WagerStatusCompleted WagerStatus = "completed"
)

// Verdict represents the graded outcome of a wager or a single leg
type Verdict string

const (
	VerdictPending Verdict = "pending"
	VerdictWin     Verdict = "win"
	VerdictLoss    Verdict = "loss"
	VerdictVoid    Verdict = "void"
)

// Operator represents the comparison a leg is graded against
type Operator string

const (
	OperatorOver      Operator = "over"
	OperatorUnder     Operator = "under"
	OperatorMoneyline Operator = "moneyline"
)

// StatType represents the statistic a proposition is written on
type StatType string

const (
	StatPoints    StatType = "points"
	StatRebounds  StatType = "rebounds"
	StatAssists   StatType = "assists"
	StatThrees    StatType = "threes"
	StatSteals    StatType = "steals"
	StatBlocks    StatType = "blocks"
	StatMoneyline StatType = "moneyline"
)

// statAliases maps provider-side metric names onto canonical stat types
var statAliases = map[string]StatType{
	"points":    StatPoints,
	"pts":       StatPoints,
	"rebounds":  StatRebounds,
	"reb":       StatRebounds,
	"assists":   StatAssists,
	"ast":       StatAssists,
	"threes":    StatThrees,
	"fg3m":      StatThrees,
	"3pm":       StatThrees,
	"steals":    StatSteals,
	"stl":       StatSteals,
	"blocks":    StatBlocks,
	"blk":       StatBlocks,
	"moneyline": StatMoneyline,
	"ml":        StatMoneyline,
	"h2h":       StatMoneyline,
}

// ParseStatType normalizes a raw stat string into a canonical StatType
func ParseStatType(raw string) (StatType, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if st, ok := statAliases[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown stat type %q", raw)
}

// ParseOperator normalizes a raw operator string
func ParseOperator(raw string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "over", "o":
		return OperatorOver, nil
	case "under", "u":
		return OperatorUnder, nil
	case "moneyline", "ml":
		return OperatorMoneyline, nil
	}
	return "", fmt.Errorf("unknown operator %q", raw)
}

// Wager represents a placed bet: a single proposition or a multi-leg parlay.
// The verdict is pending if and only if the status is pending; once completed
// a wager is never reopened by the settlement flow.
type Wager struct {
	ID        int64       `db:"id"`
	PlacedAt  time.Time   `db:"placed_at"`
	Verdict   Verdict     `db:"verdict"`
	Status    WagerStatus `db:"status"`
	Outcome   *bool       `db:"outcome"`
	SettledAt *time.Time  `db:"settled_at"`
	Legs      []*Leg      `db:"-"`
}

// Leg represents one proposition within a wager
type Leg struct {
	ID          int64      `db:"id"`
	WagerID     int64      `db:"wager_id"`
	PlayerID    *int64     `db:"player_id"`
	PlayerName  *string    `db:"player_name"`
	Team        string     `db:"team"`
	Opponent    *string    `db:"opponent"`
	StatType    StatType   `db:"stat_type"`
	Operator    Operator   `db:"operator"`
	Line        float64    `db:"line"`
	GameDate    time.Time  `db:"game_date"`
	GameID      *string    `db:"game_id"`
	ActualValue *float64   `db:"actual_value"`
	Verdict     Verdict    `db:"verdict"`
	CreatedAt   time.Time  `db:"created_at"`
}

// IsPending checks whether the wager is awaiting settlement
func (w *Wager) IsPending() bool {
	return w.Status == WagerStatusPending
}

// IsParlay checks whether the wager has more than one leg
func (w *Wager) IsParlay() bool {
	return len(w.Legs) > 1
}

// Complete records the final verdict and flips the wager to completed.
// The outcome flag is true only for a winning verdict.
func (w *Wager) Complete(verdict Verdict, at time.Time) {
	won := verdict == VerdictWin
	w.Verdict = verdict
	w.Status = WagerStatusCompleted
	w.Outcome = &won
	w.SettledAt = &at
}

// IsPlayerProp checks whether the leg targets a specific player's stat line
func (l *Leg) IsPlayerProp() bool {
	return l.PlayerID != nil
}

// IsResolved checks whether the leg carries a terminal verdict
func (l *Leg) IsResolved() bool {
	return l.Verdict != VerdictPending
}

// IsVoid checks whether the leg is excluded from the win condition
func (l *Leg) IsVoid() bool {
	return l.Verdict == VerdictVoid
}

// Resolve records the matched game, observed value, and verdict on the leg
func (l *Leg) Resolve(gameID string, actual float64, verdict Verdict) {
	l.GameID = &gameID
	l.ActualValue = &actual
	l.Verdict = verdict
}

// Void marks the leg void against the given game
func (l *Leg) Void(gameID string) {
	l.GameID = &gameID
	l.Verdict = VerdictVoid
}
