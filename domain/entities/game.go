package entities

import "time"

// Game is a provider game record, read-only to the settlement core.
// Team naming is inconsistent across providers, so both the abbreviation
// and the full name are carried for each side.
type Game struct {
	ID          string
	Date        time.Time
	HomeAbbr    string
	HomeName    string
	AwayAbbr    string
	AwayName    string
	Status      string
	HomeScore   *int
	AwayScore   *int
	TipOff      time.Time
	CompletedAt *time.Time
}

// IsPlaceholder checks for provider rows that don't name both sides.
// These show up in schedule feeds and must never match a leg.
func (g *Game) IsPlaceholder() bool {
	return (g.HomeAbbr == "" && g.HomeName == "") || (g.AwayAbbr == "" && g.AwayName == "")
}

// HasScores checks whether both final scores are present
func (g *Game) HasScores() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// TeamScores holds the pre-resolved final scores for a game
type TeamScores struct {
	Home int
	Away int
}
