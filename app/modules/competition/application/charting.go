package competitionservice

import (
	"bytes"
	"context"
	"fmt"
	"math"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/results"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// individualChartSize is the number of finishers drawn for individual events.
const individualChartSize = 10

// ChartPalette holds the colors used by rendered charts.
type ChartPalette struct {
	Background drawing.Color
	TextColor  drawing.Color
	Bar        drawing.Color
}

// DefaultChartPalette is the portal's light theme.
var DefaultChartPalette = ChartPalette{
	Background: drawing.ColorFromHex("F7F5EF"),
	TextColor:  drawing.ColorFromHex("1F2A1F"),
	Bar:        drawing.ColorFromHex("2E7D32"),
}

// RenderStandingsChart draws team standings, or the individual leaders, as a PNG.
func (s *CompetitionService) RenderStandingsChart(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "RenderStandingsChart", competitionID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		cardResult, err := s.getScorecardLogic(ctx, s.conn(), competitionID)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		if cardResult.IsFailure() {
			return results.FailureResult[[]byte, error](*cardResult.Failure), nil
		}

		png, err := GenerateStandingsChart(*cardResult.Success, DefaultChartPalette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
	return unwrap(result, err)
}

// GenerateStandingsChart produces a PNG bar chart of a scorecard.
// Team events plot team scores in standing order; individual events plot the
// total strokes of the leading finishers.
func GenerateStandingsChart(card *competitiondomain.Scorecard, palette ChartPalette) ([]byte, error) {
	bars, yName := standingsBars(card)
	if len(bars) == 0 {
		return renderNoDataPlaceholder(palette, "No results yet")
	}

	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:  card.Competition.Title,
		Width:  max(480, 120+len(bars)*90),
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		BarWidth:   60,
		BarSpacing: 30,
		XAxis: chart.Style{
			FontColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Name: yName,
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			// Headroom above the tallest bar; a zero range cannot be rendered.
			Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(top * 1.1)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func standingsBars(card *competitiondomain.Scorecard) ([]chart.Value, string) {
	if card == nil {
		return nil, ""
	}

	if card.Competition.Format == competitiondomain.FormatTeam {
		bars := make([]chart.Value, 0, len(card.Standings))
		for _, st := range card.Standings {
			color := drawing.ColorFromHex(st.Color)
			bars = append(bars, chart.Value{
				Label: fmt.Sprintf("%s (%s)", st.DisplayName, st.ScoreLabel),
				Value: st.Score,
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
		if card.Stroke != nil {
			return bars, "Strokes"
		}
		return bars, "Points"
	}

	leaders := competitiondomain.Podium(card.Ranking, individualChartSize)
	bars := make([]chart.Value, 0, len(leaders))
	for _, r := range leaders {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%d. %s", r.Rank, r.Entry.DisplayName),
			Value: float64(*r.Entry.TotalStrokes),
		})
	}
	return bars, "Strokes"
}

// renderNoDataPlaceholder draws a plain card with a message, used when there is
// nothing to plot.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
