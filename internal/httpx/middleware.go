package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/service"
)

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		})
	}
}

type actorKey struct{}

func withActor(ctx context.Context, a service.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the caller set by Authenticate.
func ActorFrom(ctx context.Context) (service.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(service.Actor)
	return a, ok
}

// Accounts loads the stored user behind a token.
type Accounts interface {
	Me(ctx context.Context, actor service.Actor) (booking.User, error)
}

// Authenticate requires a valid Bearer token whose user still exists. Role and
// email come from the stored user, so promotions and demotions apply to
// tokens issued before them.
func Authenticate(tokens *auth.Tokens, accounts Accounts, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
				return
			}
			claims, err := tokens.ParseValidate(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
				return
			}
			u, err := accounts.Me(r.Context(), service.Actor{ID: claims.Sub})
			if errors.Is(err, booking.ErrNotFound) {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "account no longer exists"})
				return
			}
			if err != nil {
				log.Error("load token user", "sub", claims.Sub, "request_id", middleware.GetReqID(r.Context()), "err", err)
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
				return
			}
			a := service.Actor{ID: u.ID, Role: u.Role, Email: u.Email}
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), a)))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, _ := ActorFrom(r.Context())
			if _, ok := allowed[string(a.Role)]; !ok {
				writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	maxSize  int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		maxSize:  10000,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.RLock()
	l, ok := rl.limiters[key]
	rl.mu.RUnlock()
	if ok {
		return l
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok = rl.limiters[key]; ok {
		return l
	}
	if len(rl.limiters) >= rl.maxSize {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	l = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = l
	return l
}

func (rl *RateLimiter) Allow(key string) bool { return rl.get(key).Allow() }

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.Allow(ip) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP relies on middleware.RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
