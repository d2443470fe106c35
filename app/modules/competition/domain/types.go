package competitiondomain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoleCount is the number of holes in a round.
const HoleCount = 18

// Format is the competition format.
type Format string

const (
	FormatIndividual Format = "individual"
	FormatTeam       Format = "team"
)

// TeamScoringMode selects how team standings are computed.
type TeamScoringMode string

const (
	ScoringMatchPlay        TeamScoringMode = "match_play"
	ScoringAggregateStrokes TeamScoringMode = "aggregate_strokes"
)

// Player identifies who produced a score entry.
// It is either a Member or a Guest.
type Player interface {
	// Key returns a stable identifier unique across members and guests.
	Key() string
	isPlayer()
}

// Member is a registered club member.
type Member struct {
	PlayerID string
}

func (m Member) Key() string { return "member:" + m.PlayerID }
func (Member) isPlayer()     {}

// Guest is an unregistered player identified only by the name they supplied.
type Guest struct {
	GuestName string
}

func (g Guest) Key() string { return "guest:" + g.GuestName }
func (Guest) isPlayer()     {}

// HoleCard holds per-hole strokes. A zero value marks a hole with no usable score.
type HoleCard [HoleCount]int

// At returns the strokes for hole index h and whether the value is usable.
func (c *HoleCard) At(h int) (int, bool) {
	if c == nil || h < 0 || h >= HoleCount {
		return 0, false
	}
	v := c[h]
	return v, v > 0
}

// Usable reports whether at least one hole carries a usable value.
func (c *HoleCard) Usable() bool {
	if c == nil {
		return false
	}
	for _, v := range c {
		if v > 0 {
			return true
		}
	}
	return false
}

// ScoreEntry is one player's result in one competition.
type ScoreEntry struct {
	ID            string
	CompetitionID string
	Player        Player
	DisplayName   string
	GroupNumber   *int
	TeamName      string
	Holes         *HoleCard
	TotalStrokes  *int
	NetStrokes    *int
	Handicap      decimal.Decimal
	AssignedRank  *int
}

// IsGuest reports whether the entry belongs to an unregistered player.
func (e ScoreEntry) IsGuest() bool {
	_, ok := e.Player.(Guest)
	return ok
}

// PlayerKey returns the player's key, or an empty string when no player is attached.
func (e ScoreEntry) PlayerKey() string {
	if e.Player == nil {
		return ""
	}
	return e.Player.Key()
}

// Competition is the tournament-level configuration.
type Competition struct {
	ID               string
	Title            string
	StartTime        time.Time
	EndTime          time.Time
	Location         string
	Format           Format
	TeamScoringMode  TeamScoringMode
	TeamDisplayNames map[string]string
	TeamColors       map[string]string
}

// ResolvedScoringMode returns the team scoring mode, defaulting to match play.
func (c Competition) ResolvedScoringMode() TeamScoringMode {
	if c.TeamScoringMode == "" {
		return ScoringMatchPlay
	}
	return c.TeamScoringMode
}

// Group is a pairing or flight within a competition.
// Entries lists every entry of the group; Teams only those with a team assignment.
type Group struct {
	CompetitionID string
	GroupNumber   int
	Entries       []ScoreEntry
	Teams         []TeamRoster
}

// TeamRoster is one team's members inside a group.
type TeamRoster struct {
	TeamName string
	Members  []ScoreEntry
}

// RankedEntry is an individual entry with its computed rank.
type RankedEntry struct {
	Entry ScoreEntry
	// Rank is shared by entries with equal total strokes.
	Rank int
	// Position is the 1-based slot in sorted order.
	Position int
}

// RankingResult is the stroke-play ordering of a competition's entries.
type RankingResult struct {
	Ranked   []RankedEntry
	Unscored []ScoreEntry
}

// TeamStanding is a team's aggregated result for a competition.
type TeamStanding struct {
	TeamName    string  `json:"team_name"`
	DisplayName string  `json:"display_name"`
	Color       string  `json:"color"`
	Score       float64 `json:"score"`
	ScoreLabel  string  `json:"score_label"`
	Rank        int     `json:"rank"`
}
