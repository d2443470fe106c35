package competitionhandlers

import (
	"slices"
	"time"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
)

type entryResponse struct {
	Name         string `json:"name"`
	IsGuest      bool   `json:"is_guest"`
	GroupNumber  *int   `json:"group_number,omitempty"`
	TeamName     string `json:"team_name,omitempty"`
	Holes        []*int `json:"holes,omitempty"`
	TotalStrokes *int   `json:"total_strokes,omitempty"`
	NetStrokes   *int   `json:"net_strokes,omitempty"`
	Handicap     string `json:"handicap"`
}

type rankedEntryResponse struct {
	Position int `json:"position"`
	Rank     int `json:"rank"`
	entryResponse
}

type groupResponse struct {
	GroupNumber int                                 `json:"group_number"`
	Teams       []string                            `json:"teams"`
	Points      map[string]competitiondomain.Points `json:"points,omitempty"`
	Strokes     map[string]int                      `json:"strokes,omitempty"`
	HolesPlayed int                                 `json:"holes_played,omitempty"`
	Incomplete  bool                                `json:"incomplete"`
	Reason      string                              `json:"reason,omitempty"`
}

type scorecardResponse struct {
	CompetitionID string                            `json:"competition_id"`
	Title         string                            `json:"title"`
	Location      string                            `json:"location,omitempty"`
	StartTime     time.Time                         `json:"start_time"`
	EndTime       time.Time                         `json:"end_time"`
	Format        competitiondomain.Format          `json:"format"`
	ScoringMode   competitiondomain.TeamScoringMode `json:"scoring_mode,omitempty"`
	Ranking       []rankedEntryResponse             `json:"ranking"`
	Unscored      []entryResponse                   `json:"unscored,omitempty"`
	Groups        []groupResponse                   `json:"groups,omitempty"`
	Standings     []competitiondomain.TeamStanding  `json:"standings,omitempty"`
	Winners       []string                          `json:"winners"`
	Incomplete    bool                              `json:"incomplete"`
	Issues        []competitiondomain.Issue         `json:"issues,omitempty"`
}

func newScorecardResponse(card *competitiondomain.Scorecard) scorecardResponse {
	c := card.Competition
	resp := scorecardResponse{
		CompetitionID: c.ID,
		Title:         c.Title,
		Location:      c.Location,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		Format:        c.Format,
		Ranking:       make([]rankedEntryResponse, 0, len(card.Ranking.Ranked)),
		Standings:     card.Standings,
		Winners:       card.Winners,
		Incomplete:    card.Incomplete(),
		Issues:        card.Issues,
	}
	if c.Format == competitiondomain.FormatTeam {
		resp.ScoringMode = c.ResolvedScoringMode()
	}
	if resp.Winners == nil {
		resp.Winners = []string{}
	}

	for _, r := range card.Ranking.Ranked {
		resp.Ranking = append(resp.Ranking, rankedEntryResponse{
			Position:      r.Position,
			Rank:          r.Rank,
			entryResponse: newEntryResponse(r.Entry),
		})
	}
	for _, e := range card.Ranking.Unscored {
		resp.Unscored = append(resp.Unscored, newEntryResponse(e))
	}

	switch {
	case card.Match != nil:
		for _, g := range card.Match.Groups {
			resp.Groups = append(resp.Groups, groupResponse{
				GroupNumber: g.GroupNumber,
				Teams:       g.Teams,
				Points:      g.Points,
				HolesPlayed: g.HolesPlayed,
				Incomplete:  g.Incomplete,
				Reason:      g.Reason,
			})
		}
	case card.Stroke != nil:
		for _, g := range card.Stroke.Groups {
			teams := make([]string, 0, len(g.Totals))
			for team := range g.Totals {
				teams = append(teams, team)
			}
			slices.Sort(teams)
			resp.Groups = append(resp.Groups, groupResponse{
				GroupNumber: g.GroupNumber,
				Teams:       teams,
				Strokes:     g.Totals,
			})
		}
	}
	return resp
}

func newEntryResponse(e competitiondomain.ScoreEntry) entryResponse {
	out := entryResponse{
		Name:         e.DisplayName,
		IsGuest:      e.IsGuest(),
		GroupNumber:  e.GroupNumber,
		TeamName:     e.TeamName,
		TotalStrokes: e.TotalStrokes,
		NetStrokes:   e.NetStrokes,
		Handicap:     e.Handicap.StringFixed(1),
	}
	if e.Holes != nil {
		// missing holes are null, never 0
		out.Holes = make([]*int, competitiondomain.HoleCount)
		for h := range out.Holes {
			if v, ok := e.Holes.At(h); ok {
				out.Holes[h] = &v
			}
		}
	}
	return out
}
