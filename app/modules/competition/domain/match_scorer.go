package competitiondomain

import (
	"slices"
)

// HoleResult is the outcome of a single hole in a match-play group.
type HoleResult struct {
	// Hole is the 1-based hole number.
	Hole int
	// BestBalls holds the best-ball score of every team with a usable value.
	BestBalls map[string]int
	// Winners lists the teams sharing the lowest best-ball, sorted by name.
	Winners []string
	// Awarded holds the points each team received on this hole.
	Awarded map[string]Points
}

// Played reports whether any team had a usable score on the hole.
func (h HoleResult) Played() bool {
	return len(h.Winners) > 0
}

// GroupMatchResult is the match-play outcome of one group.
type GroupMatchResult struct {
	CompetitionID string
	GroupNumber   int
	Teams         []string
	Holes         []HoleResult
	Points        map[string]Points
	HolesPlayed   int
	Incomplete    bool
	Reason        string
}

// MatchResult is the match-play outcome of a competition.
type MatchResult struct {
	Groups  []GroupMatchResult
	Totals  map[string]Points
	Winners []string
	Issues  []Issue
}

// bestBall returns the lowest usable score among a roster's members at hole h.
func bestBall(roster TeamRoster, h int) (int, bool) {
	best, found := 0, false
	for _, m := range roster.Members {
		v, ok := m.Holes.At(h)
		if !ok {
			continue
		}
		if !found || v < best {
			best, found = v, true
		}
	}
	return best, found
}

// ScoreHole compares the teams' best balls at hole index h (0-based).
// One point is split evenly between the teams sharing the lowest best ball.
// Teams without a usable value sit the hole out; a hole nobody scored awards nothing.
func ScoreHole(teams []TeamRoster, h int) HoleResult {
	result := HoleResult{
		Hole:      h + 1,
		BestBalls: make(map[string]int, len(teams)),
		Awarded:   make(map[string]Points, len(teams)),
	}

	low, scored := 0, false
	for _, t := range teams {
		v, ok := bestBall(t, h)
		if !ok {
			continue
		}
		result.BestBalls[t.TeamName] = v
		if !scored || v < low {
			low, scored = v, true
		}
	}

	for _, t := range teams {
		result.Awarded[t.TeamName] = Points{}
	}
	if !scored {
		return result
	}

	for name, v := range result.BestBalls {
		if v == low {
			result.Winners = append(result.Winners, name)
		}
	}
	slices.Sort(result.Winners)

	share := NewPoints(1, int64(len(result.Winners)))
	for _, name := range result.Winners {
		result.Awarded[name] = share
	}
	return result
}

// ScoreMatchGroup scores all holes of a group. Groups with fewer than two teams,
// or where no team member has a usable hole card, are marked incomplete and
// award no points.
func ScoreMatchGroup(g Group) GroupMatchResult {
	result := GroupMatchResult{
		CompetitionID: g.CompetitionID,
		GroupNumber:   g.GroupNumber,
		Teams:         teamNames(g.Teams),
		Points:        make(map[string]Points, len(g.Teams)),
	}

	if len(g.Teams) < 2 {
		result.Incomplete = true
		result.Reason = "fewer than two teams in group"
		return result
	}
	if !anyUsableCard(g.Teams) {
		result.Incomplete = true
		result.Reason = "no usable hole scores in group"
		return result
	}

	result.Holes = make([]HoleResult, 0, HoleCount)
	for h := 0; h < HoleCount; h++ {
		result.Holes = append(result.Holes, ScoreHole(g.Teams, h))
	}

	result.Points = tallyHoles(result.Teams, result.Holes)
	for _, hole := range result.Holes {
		if hole.Played() {
			result.HolesPlayed++
		}
	}
	return result
}

// tallyHoles reduces per-hole awards into a fresh per-team point table.
func tallyHoles(teams []string, holes []HoleResult) map[string]Points {
	table := make(map[string]Points, len(teams))
	for _, name := range teams {
		total := Points{}
		for _, hole := range holes {
			total = total.Add(hole.Awarded[name])
		}
		table[name] = total
	}
	return table
}

// ScoreMatchCompetition sums group points across all groups. Incomplete groups
// contribute nothing and are reported as issues; a team seen only in incomplete
// groups has no total. Winners holds every team tied on the highest total.
func ScoreMatchCompetition(groups []Group) MatchResult {
	result := MatchResult{
		Totals: make(map[string]Points),
	}
	contenders := make(map[string]bool)

	for _, g := range groups {
		gr := ScoreMatchGroup(g)
		result.Groups = append(result.Groups, gr)

		if gr.Incomplete {
			result.Issues = append(result.Issues, Issue{
				Kind:          IssueIncompleteGroup,
				CompetitionID: g.CompetitionID,
				GroupNumber:   intPtr(g.GroupNumber),
				Detail:        gr.Reason,
			})
			continue
		}

		for _, name := range gr.Teams {
			result.Totals[name] = result.Totals[name].Add(gr.Points[name])
			contenders[name] = true
		}
	}

	result.Winners = topTeams(contenders, func(a, b string) int {
		return result.Totals[a].Cmp(result.Totals[b])
	})
	return result
}

func teamNames(rosters []TeamRoster) []string {
	names := make([]string, len(rosters))
	for i, r := range rosters {
		names[i] = r.TeamName
	}
	slices.Sort(names)
	return names
}

func anyUsableCard(rosters []TeamRoster) bool {
	for _, r := range rosters {
		for _, m := range r.Members {
			if m.Holes.Usable() {
				return true
			}
		}
	}
	return false
}

// topTeams returns every team that compares highest under better(a, b) > 0
// meaning a is better than b. The result is sorted by name.
func topTeams(teams map[string]bool, better func(a, b string) int) []string {
	var winners []string
	for name := range teams {
		switch {
		case len(winners) == 0:
			winners = []string{name}
		case better(name, winners[0]) > 0:
			winners = []string{name}
		case better(name, winners[0]) == 0:
			winners = append(winners, name)
		}
	}
	slices.Sort(winners)
	return winners
}
