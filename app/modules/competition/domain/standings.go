package competitiondomain

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// TeamPalette is the ordered color set used when a competition has no explicit
// team colors. Colors are handed out by sorted team name.
var TeamPalette = []string{
	"#1E88E5", // blue
	"#E53935", // red
	"#43A047", // green
	"#FB8C00", // orange
	"#8E24AA", // purple
	"#00897B", // teal
	"#D81B60", // pink
	"#FDD835", // yellow
}

// AssignTeamColors maps each team to its explicit color, or to the palette color
// at the team's index in sorted-name order.
func AssignTeamColors(teams []string, explicit map[string]string) map[string]string {
	names := slices.Clone(teams)
	slices.Sort(names)
	names = slices.Compact(names)

	colors := make(map[string]string, len(names))
	for i, name := range names {
		if c := strings.TrimSpace(explicit[name]); c != "" {
			colors[name] = c
			continue
		}
		colors[name] = TeamPalette[i%len(TeamPalette)]
	}
	return colors
}

// TeamDisplayName resolves a raw team name through the competition's display map.
func TeamDisplayName(c Competition, team string) string {
	if name := strings.TrimSpace(c.TeamDisplayNames[team]); name != "" {
		return name
	}
	return team
}

// MatchStandings orders teams by match points, highest first. Only teams with a
// total, that is teams from scored groups, are listed.
func MatchStandings(c Competition, result MatchResult) []TeamStanding {
	teams := mapKeys(result.Totals)
	colors := AssignTeamColors(teams, c.TeamColors)

	standings := make([]TeamStanding, 0, len(teams))
	for _, name := range teams {
		p := result.Totals[name]
		standings = append(standings, TeamStanding{
			TeamName:    name,
			DisplayName: TeamDisplayName(c, name),
			Color:       colors[name],
			Score:       p.Float64(),
			ScoreLabel:  p.String(),
		})
	}

	slices.SortFunc(standings, func(a, b TeamStanding) int {
		if d := result.Totals[b.TeamName].Cmp(result.Totals[a.TeamName]); d != 0 {
			return d
		}
		return cmp.Compare(a.TeamName, b.TeamName)
	})
	assignStandingRanks(standings, func(a, b TeamStanding) bool {
		return result.Totals[a.TeamName].Cmp(result.Totals[b.TeamName]) == 0
	})
	return standings
}

// StrokeStandings orders teams by summed strokes, lowest first.
func StrokeStandings(c Competition, result StrokeResult) []TeamStanding {
	teams := mapKeys(result.Totals)
	colors := AssignTeamColors(teams, c.TeamColors)

	standings := make([]TeamStanding, 0, len(teams))
	for _, name := range teams {
		total := result.Totals[name]
		standings = append(standings, TeamStanding{
			TeamName:    name,
			DisplayName: TeamDisplayName(c, name),
			Color:       colors[name],
			Score:       float64(total),
			ScoreLabel:  strconv.Itoa(total),
		})
	}

	slices.SortFunc(standings, func(a, b TeamStanding) int {
		if d := cmp.Compare(result.Totals[a.TeamName], result.Totals[b.TeamName]); d != 0 {
			return d
		}
		return cmp.Compare(a.TeamName, b.TeamName)
	})
	assignStandingRanks(standings, func(a, b TeamStanding) bool {
		return result.Totals[a.TeamName] == result.Totals[b.TeamName]
	})
	return standings
}

// assignStandingRanks gives tied teams the same rank; the next distinct score
// takes its position (1, 1, 3).
func assignStandingRanks(standings []TeamStanding, tied func(a, b TeamStanding) bool) {
	for i := range standings {
		if i > 0 && tied(standings[i], standings[i-1]) {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
