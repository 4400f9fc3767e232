package domain

import (
	"sort"
	"time"
)

// Game names accepted into game_history.
const (
	GameWorldle     = "worldle"
	GameWordle      = "wordle"
	GameTravle      = "travle"
	GameTravleUSA   = "travle_usa"
	GameTravleGBR   = "travle_gbr"
	GameFactle      = "factle"
	GameBoxOffice   = "boxoffice"
	GameAtlantic    = "atlantic"
	GameConnections = "connections"
	GameEmovi       = "emovi"
	GameCrosswordle = "crosswordle"
)

// ScoreRecord is one row of game_history. Metric semantics differ per game;
// Metric02 is always the 0/1 completion flag when present.
type ScoreRecord struct {
	GameDate    string
	GameName    string
	GameScore   string
	AddedAt     time.Time
	SubmitterID string
	GameDetail  *string
	Metric01    *float64
	Metric02    *int
	Metric03    *int
}

// Completed reports whether the completion flag is set to 1.
func (r *ScoreRecord) Completed() bool {
	return r != nil && r.Metric02 != nil && *r.Metric02 == 1
}

var knownGames = map[string]struct{}{
	GameWorldle:     {},
	GameWordle:      {},
	GameTravle:      {},
	GameTravleUSA:   {},
	GameTravleGBR:   {},
	GameFactle:      {},
	GameBoxOffice:   {},
	GameAtlantic:    {},
	GameConnections: {},
	GameEmovi:       {},
	GameCrosswordle: {},
}

func IsKnownGame(name string) bool {
	_, ok := knownGames[name]
	return ok
}

// KnownGames lists the accepted game names in sorted order.
func KnownGames() []string {
	out := make([]string, 0, len(knownGames))
	for name := range knownGames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
