package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/service"
)

func NewRouter(log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// API mounts every club endpoint on a router.
type API struct {
	Svc          *service.Service
	Tokens       *auth.Tokens
	Log          *slog.Logger
	LoginLimiter *RateLimiter
}

func (a *API) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if a.LoginLimiter != nil {
			r.Use(a.LoginLimiter.Middleware)
		}
		r.Post("/auth/login", a.login)
		r.Post("/auth/register", a.register)
	})

	r.Get("/courts", a.listCourts)
	r.Get("/courts/{id}", a.getCourt)
	r.Get("/courts/{id}/availability", a.courtAvailability)
	r.Get("/courts/{id}/slots", a.courtSlots)
	r.Get("/calendar/week", a.week)
	r.Get("/news", a.listNews)
	r.Get("/news/latest", a.latestNews)
	r.Get("/news/{id}", a.getNews)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(a.Tokens, a.Svc, a.logger()))
		r.Get("/me", a.me)
		r.Patch("/me", a.updateMe)

		r.Get("/reservations/mine", a.myReservations)
		r.Get("/reservations/quote", a.quote)
		r.Post("/reservations", a.book)
		r.Get("/reservations/{id}", a.getReservation)
		r.Post("/reservations/{id}/cancel", a.cancelReservation)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole("admin"))
			r.Get("/dashboard", a.dashboard)
			r.Get("/reports", a.reports)

			r.Post("/courts", a.createCourt)
			r.Patch("/courts/{id}", a.updateCourt)
			r.Delete("/courts/{id}", a.deleteCourt)
			r.Post("/courts/{id}/toggle", a.toggleCourt)

			r.Get("/blocks", a.listBlocks)
			r.Post("/blocks", a.createBlock)
			r.Patch("/blocks/{id}", a.updateBlock)
			r.Delete("/blocks/{id}", a.deleteBlock)

			r.Get("/reservations", a.adminReservations)
			r.Patch("/reservations/{id}/status", a.updateReservationStatus)
			r.Delete("/reservations/{id}", a.deleteReservation)
			r.Post("/reservations/bulk-cancel", a.bulkCancel)
			r.Post("/reservations/bulk-delete", a.bulkDelete)

			r.Get("/users", a.adminUsers)
			r.Post("/users/{id}/toggle-role", a.toggleRole)
			r.Delete("/users/{id}", a.deleteUser)
		})
	})
}
