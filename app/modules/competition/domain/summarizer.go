package competitiondomain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"
)

// DefaultSummaryLimit is the number of finished competitions shown on the dashboard.
const DefaultSummaryLimit = 2

// PodiumEntry is one individual finisher in a summary.
type PodiumEntry struct {
	Name         string `json:"name"`
	TotalStrokes int    `json:"total_strokes"`
	NetStrokes   *int   `json:"net_strokes,omitempty"`
	Rank         int    `json:"rank"`
	IsGuest      bool   `json:"is_guest"`
}

// CompetitionSummary is the dashboard result of one finished competition.
type CompetitionSummary struct {
	CompetitionID string          `json:"competition_id"`
	Title         string          `json:"title"`
	Location      string          `json:"location"`
	EndTime       time.Time       `json:"end_time"`
	Format        Format          `json:"format"`
	ScoringMode   TeamScoringMode `json:"scoring_mode,omitempty"`
	Podium        []PodiumEntry   `json:"podium,omitempty"`
	Standings     []TeamStanding  `json:"standings,omitempty"`
	Winners       []string        `json:"winners"`
	Incomplete    bool            `json:"incomplete"`
	Issues        []Issue         `json:"issues,omitempty"`
}

// SelectFinished returns competitions that ended strictly before now, most recent
// first, capped at limit. Equal end times are ordered by id.
func SelectFinished(now time.Time, competitions []Competition, limit int) []Competition {
	var finished []Competition
	for _, c := range competitions {
		if c.EndTime.Before(now) {
			finished = append(finished, c)
		}
	}

	slices.SortFunc(finished, func(a, b Competition) int {
		if c := b.EndTime.Compare(a.EndTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if limit > 0 && len(finished) > limit {
		finished = finished[:limit]
	}
	return finished
}

// Summarize builds dashboard summaries for the most recently finished
// competitions. entries is keyed by competition id. Selected competitions without
// usable entries are omitted, so fewer than limit summaries may be returned.
// Competitions with an invalid format or scoring mode are skipped as well and
// reported as invalid_configuration issues.
// A non-positive limit uses DefaultSummaryLimit.
func Summarize(now time.Time, competitions []Competition, entries map[string][]ScoreEntry, limit int) ([]CompetitionSummary, []Issue, error) {
	if len(competitions) == 0 {
		return nil, nil, ErrNoCompetitions
	}
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	var (
		summaries []CompetitionSummary
		skipped   []Issue
	)
	for _, c := range SelectFinished(now, competitions, limit) {
		card, err := BuildScorecard(c, entries[c.ID])
		switch {
		case errors.Is(err, ErrNoEntries):
			continue
		case errors.Is(err, ErrInvalidFormat), errors.Is(err, ErrInvalidScoringMode):
			skipped = append(skipped, Issue{
				Kind:          IssueInvalidConfiguration,
				CompetitionID: c.ID,
				Subject:       c.Title,
				Detail:        err.Error(),
			})
			continue
		case err != nil:
			return nil, nil, fmt.Errorf("competition %s: %w", c.ID, err)
		}
		if !card.Usable() {
			continue
		}
		summaries = append(summaries, SummarizeScorecard(card))
	}
	return summaries, skipped, nil
}

// SummarizeScorecard condenses a scorecard into its dashboard summary.
func SummarizeScorecard(card Scorecard) CompetitionSummary {
	c := card.Competition
	s := CompetitionSummary{
		CompetitionID: c.ID,
		Title:         c.Title,
		Location:      c.Location,
		EndTime:       c.EndTime,
		Format:        c.Format,
		Winners:       card.Winners,
		Incomplete:    card.Incomplete(),
		Issues:        card.Issues,
	}

	if c.Format == FormatTeam {
		s.ScoringMode = c.ResolvedScoringMode()
		s.Standings = card.Standings
		return s
	}

	for _, r := range Podium(card.Ranking, PodiumSize) {
		s.Podium = append(s.Podium, PodiumEntry{
			Name:         r.Entry.DisplayName,
			TotalStrokes: *r.Entry.TotalStrokes,
			NetStrokes:   r.Entry.NetStrokes,
			Rank:         r.Rank,
			IsGuest:      r.Entry.IsGuest(),
		})
	}
	return s
}
