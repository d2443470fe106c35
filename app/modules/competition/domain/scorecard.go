package competitiondomain

// Scorecard is the detailed result view of one competition.
type Scorecard struct {
	Competition Competition
	// Entries lists every entry, including those without a team or strokes.
	Entries []ScoreEntry
	Groups  []Group
	// Ranking is the stroke-play listing of all entries, for every format.
	Ranking   RankingResult
	Match     *MatchResult
	Stroke    *StrokeResult
	Standings []TeamStanding
	Winners   []string
	Issues    []Issue
}

// Incomplete reports whether any data-quality issue was found.
func (s Scorecard) Incomplete() bool {
	return len(s.Issues) > 0
}

// Usable reports whether the scorecard has any computed result to show.
func (s Scorecard) Usable() bool {
	switch {
	case s.Competition.Format == FormatIndividual:
		return len(s.Ranking.Ranked) > 0
	case s.Match != nil:
		for _, g := range s.Match.Groups {
			if !g.Incomplete {
				return true
			}
		}
		return false
	case s.Stroke != nil:
		return len(s.Stroke.Totals) > 0
	}
	return false
}

// BuildScorecard runs the grouping and scoring pipeline for one competition.
// Team competitions are scored by their scoring mode; every competition also
// gets an individual stroke-play listing.
func BuildScorecard(c Competition, entries []ScoreEntry) (Scorecard, error) {
	issues, err := validateCompetition(c)
	if err != nil {
		return Scorecard{}, err
	}
	if len(entries) == 0 {
		return Scorecard{}, ErrNoEntries
	}

	groups, groupIssues := GroupEntries(c.ID, c.Format, entries)
	issues = append(issues, groupIssues...)

	ranking, err := RankIndividuals(entries)
	if err != nil {
		return Scorecard{}, err
	}

	card := Scorecard{
		Competition: c,
		Entries:     sortedEntries(entries),
		Groups:      groups,
		Ranking:     ranking,
	}

	switch c.Format {
	case FormatIndividual:
		for _, e := range ranking.Unscored {
			issues = append(issues, Issue{
				Kind:          IssueUnscorableEntry,
				CompetitionID: c.ID,
				GroupNumber:   e.GroupNumber,
				Subject:       e.DisplayName,
				Detail:        "no total strokes, excluded from ranking",
			})
		}
		if len(ranking.Ranked) > 0 {
			card.Winners = winningNames(ranking)
		}

	case FormatTeam:
		if c.ResolvedScoringMode() == ScoringAggregateStrokes {
			result := ScoreStrokeCompetition(groups)
			card.Stroke = &result
			card.Standings = StrokeStandings(c, result)
			card.Winners = result.Winners
			issues = append(issues, result.Issues...)
		} else {
			result := ScoreMatchCompetition(groups)
			card.Match = &result
			card.Standings = MatchStandings(c, result)
			card.Winners = result.Winners
			issues = append(issues, result.Issues...)
		}
	}

	card.Issues = issues
	return card, nil
}

// winningNames lists the display names of every entry sharing rank 1.
func winningNames(r RankingResult) []string {
	var names []string
	for _, e := range r.Ranked {
		if e.Rank != 1 {
			break
		}
		names = append(names, e.Entry.DisplayName)
	}
	return names
}
