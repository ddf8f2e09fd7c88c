package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func (a *API) listCourts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	q := r.URL.Query()
	cs, err := a.Svc.ListCourts(ctx, booking.CourtFilter{Type: q.Get("type"), Search: q.Get("q")})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (a *API) getCourt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	c, err := a.Svc.GetCourt(ctx, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) courtAvailability(w http.ResponseWriter, r *http.Request) {
	d, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	av, err := a.Svc.Availability(ctx, chi.URLParam(r, "id"), d)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}

func (a *API) courtSlots(w http.ResponseWriter, r *http.Request) {
	d, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	slots, err := a.Svc.BookableStarts(ctx, chi.URLParam(r, "id"), d)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (a *API) week(w http.ResponseWriter, r *http.Request) {
	d, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	ctx, cancel := ctxFor(r, 5*time.Second)
	defer cancel()

	wk, err := a.Svc.Week(ctx, d)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

// ---- admin ----

func (a *API) createCourt(w http.ResponseWriter, r *http.Request) {
	var c booking.Court
	if !decode(w, r, &c) {
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.CreateCourt(ctx, c)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *API) updateCourt(w http.ResponseWriter, r *http.Request) {
	var p booking.CourtPatch
	if !decode(w, r, &p) {
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.UpdateCourt(ctx, chi.URLParam(r, "id"), p)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) toggleCourt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.ToggleCourt(ctx, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) deleteCourt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	if err := a.Svc.DeleteCourt(ctx, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
