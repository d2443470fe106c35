package competitiondomain

// StrokeGroupResult holds per-team stroke sums inside one group.
type StrokeGroupResult struct {
	GroupNumber int
	Totals      map[string]int
}

// StrokeResult is the aggregate-strokes outcome of a competition.
type StrokeResult struct {
	Groups  []StrokeGroupResult
	Totals  map[string]int
	Winners []string
	Issues  []Issue
}

// countedStrokes returns net strokes, falling back to total strokes.
func countedStrokes(e ScoreEntry) (int, bool) {
	if e.NetStrokes != nil {
		return *e.NetStrokes, true
	}
	if e.TotalStrokes != nil {
		return *e.TotalStrokes, true
	}
	return 0, false
}

// ScoreStrokeGroup sums each team's counted strokes within a group.
// Members without any stroke value are skipped and reported.
func ScoreStrokeGroup(g Group) (StrokeGroupResult, []Issue) {
	result := StrokeGroupResult{
		GroupNumber: g.GroupNumber,
		Totals:      make(map[string]int, len(g.Teams)),
	}
	var issues []Issue

	for _, team := range g.Teams {
		sum, counted := 0, 0
		for _, m := range team.Members {
			v, ok := countedStrokes(m)
			if !ok {
				issues = append(issues, Issue{
					Kind:          IssueUnscorableEntry,
					CompetitionID: g.CompetitionID,
					GroupNumber:   intPtr(g.GroupNumber),
					Subject:       m.DisplayName,
					Detail:        "no net or total strokes, skipped in team total",
				})
				continue
			}
			sum += v
			counted++
		}
		if counted > 0 {
			result.Totals[team.TeamName] = sum
		}
	}

	return result, issues
}

// ScoreStrokeCompetition adds per-group team sums across the competition.
// Lower totals are better; every team tied on the lowest total is a winner.
func ScoreStrokeCompetition(groups []Group) StrokeResult {
	result := StrokeResult{
		Totals: make(map[string]int),
	}

	for _, g := range groups {
		gr, issues := ScoreStrokeGroup(g)
		result.Groups = append(result.Groups, gr)
		result.Issues = append(result.Issues, issues...)
		for name, sum := range gr.Totals {
			result.Totals[name] += sum
		}
	}

	contenders := make(map[string]bool, len(result.Totals))
	for name := range result.Totals {
		contenders[name] = true
	}
	result.Winners = topTeams(contenders, func(a, b string) int {
		// fewer strokes is better
		return result.Totals[b] - result.Totals[a]
	})
	return result
}
