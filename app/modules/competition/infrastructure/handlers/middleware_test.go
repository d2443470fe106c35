package competitionhandlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portaljwt "github.com/Black-And-White-Club/golf-club-portal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/results", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/results", nil)
	req.RemoteAddr = "198.51.100.1:5555"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "other clients keep their own budget")
}

func TestIPRateLimiter_PrunesIdleEntries(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	for i := 0; i <= cleanupThreshold; i++ {
		limiter.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	assert.Equal(t, cleanupThreshold+1, limiter.size())

	now = now.Add(maxIdleAge + time.Minute)
	limiter.GetLimiter("192.0.2.1")
	assert.Equal(t, 1, limiter.size())
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORSMiddleware([]string{"https://portal.example"})(next)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "https://portal.example", wantStatus: http.StatusOK, wantAllow: "https://portal.example"},
		{name: "unknown origin", method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "https://portal.example", wantStatus: http.StatusNoContent, wantAllow: "https://portal.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/dashboard/results", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := portaljwt.NewService("club-secret", time.Hour)
	officer, err := tokens.GenerateToken("treasurer", portaljwt.RoleOfficer, 0)
	require.NoError(t, err)
	member, err := tokens.GenerateToken("player", portaljwt.RoleMember, 0)
	require.NoError(t, err)
	forged, err := portaljwt.NewService("other-secret", time.Hour).GenerateToken("treasurer", portaljwt.RoleOfficer, 0)
	require.NoError(t, err)

	var subject string
	handler := RequireRole(tokens, portaljwt.RoleOfficer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if ok {
			subject = claims.Subject
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "officer", header: "Bearer " + officer, want: http.StatusOK},
		{name: "member", header: "Bearer " + member, want: http.StatusForbidden},
		{name: "forged", header: "Bearer " + forged, want: http.StatusUnauthorized},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + officer, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
	assert.Equal(t, "treasurer", subject)
}

func TestRoutes_GuardsExportOnly(t *testing.T) {
	service := NewFakeCompetitionService()
	service.ExportScorecardFunc = func(ctx context.Context, id uuid.UUID) ([]byte, error) {
		return []byte("PK"), nil
	}
	r := chi.NewRouter()
	Routes(r, newTestHandlers(service, nil), RouteOptions{Tokens: portaljwt.NewService("club-secret", time.Hour)})

	id := uuid.New()
	export := serve(t, r, "/api/competitions/"+id.String()+"/scorecard.xlsx")
	assert.Equal(t, http.StatusUnauthorized, export.Code)

	dashboard := serve(t, r, "/api/dashboard/results")
	assert.Equal(t, http.StatusOK, dashboard.Code)
}
