package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func (a *API) listNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := booking.NewsFilter{Category: q.Get("category")}
	if s := q.Get("featured"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			badRequest(w, "featured must be true or false")
			return
		}
		f.Featured = &b
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	ns, err := a.Svc.ListNews(ctx, f)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (a *API) latestNews(w http.ResponseWriter, r *http.Request) {
	limit := booking.DefaultNewsSize
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	ns, err := a.Svc.LatestNews(ctx, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (a *API) getNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	n, err := a.Svc.GetNews(ctx, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
