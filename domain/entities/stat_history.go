package entities

import "fmt"

// WindowKind identifies one of the fixed hit-rate sample windows
type WindowKind string

const (
	WindowLast5      WindowKind = "last5"
	WindowLast10     WindowKind = "last10"
	WindowHeadToHead WindowKind = "head_to_head"
	WindowSeason     WindowKind = "season"
)

// StatWindow is one historical sample for a proposition: the raw observed
// values (newest first) plus the cached hit/total pair derived from them.
// Values are an immutable snapshot; only Hits and Total are recomputed
// when the offered line moves.
type StatWindow struct {
	Values []float64 `json:"values"`
	Hits   int       `json:"hits"`
	Total  int       `json:"total"`
}

// StatHistory is the cached rolling-performance record for one
// (player, stat type) proposition.
type StatHistory struct {
	PlayerID   int64       `json:"player_id"`
	StatType   StatType    `json:"stat_type"`
	CachedLine float64     `json:"cached_line"`
	Last5      *StatWindow `json:"last5,omitempty"`
	Last10     *StatWindow `json:"last10,omitempty"`
	HeadToHead *StatWindow `json:"head_to_head,omitempty"`
	Season     *StatWindow `json:"season,omitempty"`
}

// Key returns the cache key for this proposition
func (h *StatHistory) Key() string {
	return PropKey(h.PlayerID, h.StatType)
}

// PropKey builds the canonical cache key for a (player, stat type) pair
func PropKey(playerID int64, stat StatType) string {
	return fmt.Sprintf("prop:%d:%s", playerID, stat)
}

// Windows returns the present windows keyed by kind. Absent windows
// (e.g. no head-to-head meetings yet) are omitted.
func (h *StatHistory) Windows() map[WindowKind]*StatWindow {
	out := make(map[WindowKind]*StatWindow, 4)
	if h.Last5 != nil {
		out[WindowLast5] = h.Last5
	}
	if h.Last10 != nil {
		out[WindowLast10] = h.Last10
	}
	if h.HeadToHead != nil {
		out[WindowHeadToHead] = h.HeadToHead
	}
	if h.Season != nil {
		out[WindowSeason] = h.Season
	}
	return out
}

// HasWindows checks whether any raw-value window is stored at all
func (h *StatHistory) HasWindows() bool {
	return h.Last5 != nil || h.Last10 != nil || h.HeadToHead != nil || h.Season != nil
}
