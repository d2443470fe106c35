package competitionservice

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/results"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetRanking = "Ranking"
	SheetHoles   = "Holes"
	SheetTeams   = "Teams"
	SheetIssues  = "Issues"
)

// ExportScorecard builds an XLSX workbook of the scorecard.
func (s *CompetitionService) ExportScorecard(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "ExportScorecard", competitionID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		cardResult, err := s.getScorecardLogic(ctx, s.conn(), competitionID)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		if cardResult.IsFailure() {
			return results.FailureResult[[]byte, error](*cardResult.Failure), nil
		}

		data, err := BuildScorecardWorkbook(*cardResult.Success)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to build workbook: %w", err)
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
	return unwrap(result, err)
}

// BuildScorecardWorkbook writes the ranking, hole cards, team standings and
// data-quality issues of a scorecard into an XLSX workbook.
func BuildScorecardWorkbook(card *competitiondomain.Scorecard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRanking); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, header: header}
	w.rankingSheet(card)
	w.holesSheet(card)
	if card.Competition.Format == competitiondomain.FormatTeam {
		w.teamsSheet(card)
	}
	if len(card.Issues) > 0 {
		w.issuesSheet(card)
	}
	if w.err != nil {
		return nil, w.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so sheet builders can write rows unchecked.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) newSheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *sheetWriter) row(sheet string, row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) headerRow(sheet string, row int, titles ...any) {
	w.row(sheet, row, titles...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(titles), row)
	w.err = w.f.SetCellStyle(sheet, first, last, w.header)
	if w.err == nil {
		w.err = w.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: row, TopLeftCell: fmt.Sprintf("A%d", row+1), ActivePane: "bottomLeft"})
	}
}

func (w *sheetWriter) rankingSheet(card *competitiondomain.Scorecard) {
	w.headerRow(SheetRanking, 1, "Position", "Rank", "Player", "Guest", "Group", "Team", "Total", "Net", "Handicap")
	row := 2
	for _, r := range card.Ranking.Ranked {
		w.row(SheetRanking, row, append([]any{r.Position, r.Rank}, entryColumns(r.Entry)...)...)
		row++
	}
	for _, e := range card.Ranking.Unscored {
		w.row(SheetRanking, row, append([]any{nil, nil}, entryColumns(e)...)...)
		row++
	}
}

func entryColumns(e competitiondomain.ScoreEntry) []any {
	return []any{
		e.DisplayName,
		yesNo(e.IsGuest()),
		optionalInt(e.GroupNumber),
		e.TeamName,
		optionalInt(e.TotalStrokes),
		optionalInt(e.NetStrokes),
		e.Handicap.InexactFloat64(),
	}
}

func (w *sheetWriter) holesSheet(card *competitiondomain.Scorecard) {
	titles := []any{"Player", "Group", "Team"}
	for h := 1; h <= competitiondomain.HoleCount; h++ {
		titles = append(titles, strconv.Itoa(h))
	}
	titles = append(titles, "Out", "In", "Total")

	w.newSheet(SheetHoles)
	w.headerRow(SheetHoles, 1, titles...)

	half := competitiondomain.HoleCount / 2
	for i, e := range card.Entries {
		values := []any{e.DisplayName, optionalInt(e.GroupNumber), e.TeamName}
		out, in := 0, 0
		for h := 0; h < competitiondomain.HoleCount; h++ {
			v, ok := e.Holes.At(h)
			if !ok {
				values = append(values, nil)
				continue
			}
			values = append(values, v)
			if h < half {
				out += v
			} else {
				in += v
			}
		}
		if e.Holes.Usable() {
			values = append(values, out, in, out+in)
		}
		w.row(SheetHoles, i+2, values...)
	}
}

func (w *sheetWriter) teamsSheet(card *competitiondomain.Scorecard) {
	w.newSheet(SheetTeams)
	w.headerRow(SheetTeams, 1, "Rank", "Team", "Display Name", "Color", "Score")

	row := 2
	for _, st := range card.Standings {
		w.row(SheetTeams, row, st.Rank, st.TeamName, st.DisplayName, st.Color, st.ScoreLabel)
		row++
	}

	row++
	switch {
	case card.Match != nil:
		w.row(SheetTeams, row, "Group", "Team", "Points", "Holes Played", "Incomplete")
		row++
		for _, g := range card.Match.Groups {
			for _, team := range g.Teams {
				w.row(SheetTeams, row, g.GroupNumber, team, g.Points[team].String(), g.HolesPlayed, yesNo(g.Incomplete))
				row++
			}
		}
	case card.Stroke != nil:
		w.row(SheetTeams, row, "Group", "Team", "Strokes")
		row++
		for _, g := range card.Stroke.Groups {
			for _, team := range sortedTeams(g.Totals) {
				w.row(SheetTeams, row, g.GroupNumber, team, g.Totals[team])
				row++
			}
		}
	}
}

func (w *sheetWriter) issuesSheet(card *competitiondomain.Scorecard) {
	w.newSheet(SheetIssues)
	w.headerRow(SheetIssues, 1, "Kind", "Group", "Subject", "Detail")
	for i, issue := range card.Issues {
		w.row(SheetIssues, i+2, string(issue.Kind), optionalInt(issue.GroupNumber), issue.Subject, issue.Detail)
	}
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func sortedTeams(totals map[string]int) []string {
	teams := make([]string, 0, len(totals))
	for team := range totals {
		teams = append(teams, team)
	}
	slices.Sort(teams)
	return teams
}
