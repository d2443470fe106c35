package competitiondomain

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

const testCompetitionID = "comp-1"

var (
	decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	pointsComparer  = cmp.Comparer(func(a, b Points) bool { return a.Cmp(b) == 0 })
)

func ip(v int) *int { return &v }

// flatCard returns a card with the same strokes on every hole.
func flatCard(strokes int) *HoleCard {
	var c HoleCard
	for i := range c {
		c[i] = strokes
	}
	return &c
}

// splitCard returns a card with front strokes on holes 1..n and back strokes after.
func splitCard(n, front, back int) *HoleCard {
	var c HoleCard
	for i := range c {
		if i < n {
			c[i] = front
		} else {
			c[i] = back
		}
	}
	return &c
}

func teamEntry(name, team string, group int, holes *HoleCard) ScoreEntry {
	return ScoreEntry{
		ID:            name,
		CompetitionID: testCompetitionID,
		Player:        Member{PlayerID: name},
		DisplayName:   name,
		GroupNumber:   ip(group),
		TeamName:      team,
		Holes:         holes,
	}
}

func strokeEntry(name string, total int) ScoreEntry {
	return ScoreEntry{
		ID:            name,
		CompetitionID: testCompetitionID,
		Player:        Member{PlayerID: name},
		DisplayName:   name,
		TotalStrokes:  ip(total),
	}
}

func netEntry(name, team string, group, total, net int) ScoreEntry {
	e := teamEntry(name, team, group, nil)
	e.TotalStrokes = ip(total)
	e.NetStrokes = ip(net)
	return e
}

func teamCompetition(mode TeamScoringMode) Competition {
	return Competition{
		ID:              testCompetitionID,
		Title:           "Club Cup",
		StartTime:       time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC),
		Format:          FormatTeam,
		TeamScoringMode: mode,
	}
}

func groupsOf(format Format, entries ...ScoreEntry) []Group {
	groups, _ := GroupEntries(testCompetitionID, format, entries)
	return groups
}
