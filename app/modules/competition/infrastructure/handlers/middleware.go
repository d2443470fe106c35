package competitionhandlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	portaljwt "github.com/Black-And-White-Club/golf-club-portal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle IP entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	ips map[string]*ipEntry
	mu  sync.Mutex
	r   rate.Limit
	b   int
	now func() time.Time
}

// NewIPRateLimiter creates a limiter allowing r requests per second with bursts of b.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*ipEntry),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

// GetLimiter returns the limiter for ip, pruning idle entries once the map
// grows past cleanupThreshold.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if len(i.ips) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range i.ips {
			if e.lastSeen.Before(cutoff) {
				delete(i.ips, k)
			}
		}
	}

	e, exists := i.ips[ip]
	if !exists {
		e = &ipEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = e
	}
	e.lastSeen = now

	return e.limiter
}

func (i *IPRateLimiter) size() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// RateLimitMiddleware rejects requests over the client's budget with 429.
func RateLimitMiddleware(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.GetLimiter(ip).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware sets CORS headers for the configured origins. With no
// origins it adds no headers.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := origins[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
					w.Header().Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type claimsKey struct{}

// ClaimsFromContext returns the token claims stored by RequireRole.
func ClaimsFromContext(ctx context.Context) (*portaljwt.PortalClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*portaljwt.PortalClaims)
	return claims, ok
}

// RequireRole admits requests carrying a bearer token whose role allows role.
// Missing or invalid tokens get 401, insufficient roles 403.
func RequireRole(tokens portaljwt.Service, role portaljwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="golf-club-portal"`)
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, portaljwt.ErrExpiredToken) {
					msg = "token expired"
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="golf-club-portal", error="invalid_token"`)
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			if !portaljwt.Role(claims.Role).Allows(role) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// RouteOptions configures the middleware around the competition API.
type RouteOptions struct {
	// Limiter throttles requests per client IP. Nil disables throttling.
	Limiter        *IPRateLimiter
	AllowedOrigins []string
	// Tokens guards the scorecard export with officer tokens. Nil leaves it public.
	Tokens portaljwt.Service
}

// Routes mounts the competition API on r.
func Routes(r chi.Router, h Handlers, opts RouteOptions) {
	r.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware(opts.AllowedOrigins))
		if opts.Limiter != nil {
			r.Use(RateLimitMiddleware(opts.Limiter))
		}

		r.Get("/dashboard/results", h.HandleHTTPDashboard)
		r.Route("/competitions/{competitionID}", func(r chi.Router) {
			r.Get("/scorecard", h.HandleHTTPScorecard)
			r.Get("/standings.png", h.HandleHTTPStandingsChart)
			r.Group(func(r chi.Router) {
				if opts.Tokens != nil {
					r.Use(RequireRole(opts.Tokens, portaljwt.RoleOfficer))
				}
				r.Get("/scorecard.xlsx", h.HandleHTTPScorecardExport)
			})
		})
	})
}
