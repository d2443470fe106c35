package competitionhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newTestServer(service *FakeCompetitionService) http.Handler {
	r := chi.NewRouter()
	Routes(r, newTestHandlers(service, nil), RouteOptions{AllowedOrigins: []string{"https://portal.example"}})
	return r
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func individualCard(t *testing.T, competitionID uuid.UUID) *competitiondomain.Scorecard {
	t.Helper()
	card, err := competitiondomain.BuildScorecard(
		competitiondomain.Competition{
			ID:     competitionID.String(),
			Title:  "Spring Medal",
			Format: competitiondomain.FormatIndividual,
		},
		[]competitiondomain.ScoreEntry{
			{
				ID:           "a",
				Player:       competitiondomain.Member{PlayerID: "p1"},
				DisplayName:  "Alice",
				GroupNumber:  ptr(1),
				TotalStrokes: ptr(72),
				Handicap:     decimal.RequireFromString("2.4"),
			},
			{
				ID:           "b",
				Player:       competitiondomain.Guest{GuestName: "Carol"},
				DisplayName:  "Carol",
				GroupNumber:  ptr(1),
				TotalStrokes: ptr(74),
			},
			{
				ID:          "c",
				Player:      competitiondomain.Member{PlayerID: "p2"},
				DisplayName: "Bob",
				GroupNumber: ptr(2),
			},
		},
	)
	require.NoError(t, err)
	return &card
}

func TestHandleHTTPScorecard(t *testing.T) {
	competitionID := uuid.New()

	tests := []struct {
		name         string
		target       string
		setupService func(*FakeCompetitionService)
		wantStatus   int
	}{
		{
			name:   "success",
			target: "/api/competitions/" + competitionID.String() + "/scorecard",
			setupService: func(f *FakeCompetitionService) {
				f.GetScorecardFunc = func(ctx context.Context, id uuid.UUID) (*competitiondomain.Scorecard, error) {
					return individualCard(t, id), nil
				}
			},
			wantStatus: http.StatusOK,
		},
		{
			name:         "invalid id",
			target:       "/api/competitions/not-a-uuid/scorecard",
			setupService: func(f *FakeCompetitionService) {},
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:         "not found",
			target:       "/api/competitions/" + competitionID.String() + "/scorecard",
			setupService: func(f *FakeCompetitionService) {},
			wantStatus:   http.StatusNotFound,
		},
		{
			name:   "no scores",
			target: "/api/competitions/" + competitionID.String() + "/scorecard",
			setupService: func(f *FakeCompetitionService) {
				f.GetScorecardFunc = func(ctx context.Context, id uuid.UUID) (*competitiondomain.Scorecard, error) {
					return nil, competitionservice.ErrNoScores
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "internal error",
			target: "/api/competitions/" + competitionID.String() + "/scorecard",
			setupService: func(f *FakeCompetitionService) {
				f.GetScorecardFunc = func(ctx context.Context, id uuid.UUID) (*competitiondomain.Scorecard, error) {
					return nil, errors.New("connection refused")
				}
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewFakeCompetitionService()
			tt.setupService(service)

			rr := serve(t, newTestServer(service), tt.target)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rr.Body.String(), "connection refused")
			}
		})
	}
}

func TestHandleHTTPScorecard_Body(t *testing.T) {
	competitionID := uuid.New()
	service := NewFakeCompetitionService()
	service.GetScorecardFunc = func(ctx context.Context, id uuid.UUID) (*competitiondomain.Scorecard, error) {
		return individualCard(t, id), nil
	}

	rr := serve(t, newTestServer(service), "/api/competitions/"+competitionID.String()+"/scorecard")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		CompetitionID string `json:"competition_id"`
		Format        string `json:"format"`
		Ranking       []struct {
			Position int    `json:"position"`
			Rank     int    `json:"rank"`
			Name     string `json:"name"`
			IsGuest  bool   `json:"is_guest"`
			Handicap string `json:"handicap"`
		} `json:"ranking"`
		Unscored []struct {
			Name string `json:"name"`
		} `json:"unscored"`
		Winners    []string `json:"winners"`
		Incomplete bool     `json:"incomplete"`
		Issues     []struct {
			Kind string `json:"kind"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	assert.Equal(t, competitionID.String(), body.CompetitionID)
	assert.Equal(t, "individual", body.Format)
	require.Len(t, body.Ranking, 2)
	assert.Equal(t, "Alice", body.Ranking[0].Name)
	assert.Equal(t, 1, body.Ranking[0].Rank)
	assert.Equal(t, "2.4", body.Ranking[0].Handicap)
	assert.Equal(t, "Carol", body.Ranking[1].Name)
	assert.True(t, body.Ranking[1].IsGuest)
	assert.Equal(t, "0.0", body.Ranking[1].Handicap)
	require.Len(t, body.Unscored, 1)
	assert.Equal(t, "Bob", body.Unscored[0].Name)
	assert.Equal(t, []string{"Alice"}, body.Winners)
	assert.True(t, body.Incomplete)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "unscorable_entry", body.Issues[0].Kind)
}

func TestNewScorecardResponse_StrokeGroups(t *testing.T) {
	card := &competitiondomain.Scorecard{
		Competition: competitiondomain.Competition{
			ID:              "cup",
			Format:          competitiondomain.FormatTeam,
			TeamScoringMode: competitiondomain.ScoringAggregateStrokes,
		},
		Stroke: &competitiondomain.StrokeResult{
			Groups: []competitiondomain.StrokeGroupResult{
				{GroupNumber: 1, Totals: map[string]int{"Red": 140, "Blue": 150}},
			},
			Totals: map[string]int{"Red": 140, "Blue": 150},
		},
	}

	resp := newScorecardResponse(card)

	assert.Equal(t, competitiondomain.ScoringAggregateStrokes, resp.ScoringMode)
	assert.Equal(t, []string{}, resp.Winners)
	assert.Empty(t, resp.Ranking)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, []string{"Blue", "Red"}, resp.Groups[0].Teams)
	assert.Equal(t, 140, resp.Groups[0].Strokes["Red"])
	assert.Nil(t, resp.Groups[0].Points)
}

func TestNewEntryResponse_MissingHolesAreNull(t *testing.T) {
	card := competitiondomain.HoleCard{}
	for h := range card {
		card[h] = 4
	}
	card[2] = 0
	card[17] = 0

	entry := competitiondomain.ScoreEntry{
		Player:      competitiondomain.Member{PlayerID: "p1"},
		DisplayName: "Alice",
		Holes:       &card,
	}

	resp := newEntryResponse(entry)

	require.Len(t, resp.Holes, competitiondomain.HoleCount)
	assert.Equal(t, ptr(4), resp.Holes[0])
	assert.Nil(t, resp.Holes[2])
	assert.Nil(t, resp.Holes[17])

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded struct {
		Holes []json.RawMessage `json:"holes"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Holes, competitiondomain.HoleCount)
	assert.Equal(t, "null", string(decoded.Holes[2]))
	assert.Equal(t, "4", string(decoded.Holes[1]))

	assert.Nil(t, newEntryResponse(competitiondomain.ScoreEntry{DisplayName: "Bob"}).Holes)
}

func TestHandleHTTPStandingsChart(t *testing.T) {
	competitionID := uuid.New()
	service := NewFakeCompetitionService()
	service.RenderStandingsChartFunc = func(ctx context.Context, id uuid.UUID) ([]byte, error) {
		assert.Equal(t, competitionID, id)
		return []byte("\x89PNG"), nil
	}

	rr := serve(t, newTestServer(service), "/api/competitions/"+competitionID.String()+"/standings.png")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rr.Body.String())

	rr = serve(t, newTestServer(NewFakeCompetitionService()), "/api/competitions/"+competitionID.String()+"/standings.png")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleHTTPScorecardExport(t *testing.T) {
	competitionID := uuid.New()
	service := NewFakeCompetitionService()
	service.ExportScorecardFunc = func(ctx context.Context, id uuid.UUID) ([]byte, error) {
		return []byte("PK"), nil
	}

	rr := serve(t, newTestServer(service), "/api/competitions/"+competitionID.String()+"/scorecard.xlsx")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="scorecard-`+competitionID.String()+`.xlsx"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, []string{"ExportScorecard"}, service.Trace())
}

func TestHandleHTTPDashboard(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantNow    time.Time
		wantLimit  int
	}{
		{
			name:       "defaults",
			target:     "/api/dashboard/results",
			wantStatus: http.StatusOK,
			wantNow:    now,
			wantLimit:  competitiondomain.DefaultSummaryLimit,
		},
		{
			name:       "explicit limit",
			target:     "/api/dashboard/results?limit=5",
			wantStatus: http.StatusOK,
			wantNow:    now,
			wantLimit:  5,
		},
		{
			name:       "as of date",
			target:     "/api/dashboard/results?as_of=2026-05-10",
			wantStatus: http.StatusOK,
			wantNow:    time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
			wantLimit:  competitiondomain.DefaultSummaryLimit,
		},
		{
			name:       "limit too large",
			target:     "/api/dashboard/results?limit=21",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "limit not a number",
			target:     "/api/dashboard/results?limit=two",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unparseable as_of",
			target:     "/api/dashboard/results?as_of=blorp",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotNow time.Time
			var gotLimit int
			service := NewFakeCompetitionService()
			service.GetDashboardResultsFunc = func(ctx context.Context, asOf time.Time, limit int) ([]competitiondomain.CompetitionSummary, error) {
				gotNow, gotLimit = asOf, limit
				return []competitiondomain.CompetitionSummary{{CompetitionID: "c1", Winners: []string{"Alice"}}}, nil
			}

			rr := serve(t, newTestServer(service), tt.target)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, service.Trace())
				return
			}
			assert.True(t, tt.wantNow.Equal(gotNow), "want %s, got %s", tt.wantNow, gotNow)
			assert.Equal(t, tt.wantLimit, gotLimit)

			var body []competitiondomain.CompetitionSummary
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			require.Len(t, body, 1)
			assert.Equal(t, "c1", body[0].CompetitionID)
		})
	}
}

func TestHandleHTTPDashboard_ServiceError(t *testing.T) {
	service := NewFakeCompetitionService()
	service.GetDashboardResultsFunc = func(ctx context.Context, now time.Time, limit int) ([]competitiondomain.CompetitionSummary, error) {
		return nil, errors.New("timeout")
	}

	rr := serve(t, newTestServer(service), "/api/dashboard/results")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
