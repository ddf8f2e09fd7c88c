package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/service"
)

type bookResp struct {
	booking.Reservation
	Idempotent bool `json:"idempotent"`
}

func (a *API) book(w http.ResponseWriter, r *http.Request) {
	var req service.BookRequest
	if !decode(w, r, &req) {
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	actor, _ := ActorFrom(r.Context())

	ctx, cancel := ctxFor(r, 5*time.Second)
	defer cancel()

	res, existed, err := a.Svc.Book(ctx, actor, req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	code := http.StatusCreated
	if existed {
		code = http.StatusOK
	}
	writeJSON(w, code, bookResp{Reservation: res, Idempotent: existed})
}

func (a *API) quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := booking.ParseClock(q.Get("start"))
	if err != nil {
		badRequest(w, "start: "+err.Error())
		return
	}
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.Quote(ctx, actor, q.Get("court_id"), start)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) myReservations(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.MyReservations(ctx, actor)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getReservation(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.GetReservation(ctx, actor, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) cancelReservation(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.Cancel(ctx, actor, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- admin ----

func (a *API) adminReservations(w http.ResponseWriter, r *http.Request) {
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}
	q := r.URL.Query()
	f := booking.ReservationFilter{
		Status:   q.Get("status"),
		CourtID:  q.Get("court"),
		Search:   q.Get("q"),
		DateFrom: from,
		DateTo:   to,
	}
	ctx, cancel := ctxFor(r, 5*time.Second)
	defer cancel()

	out, err := a.Svc.AdminReservations(ctx, f)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type statusReq struct {
	Status booking.Status `json:"status"`
}

func (a *API) updateReservationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.UpdateStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) deleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	if err := a.Svc.DeleteReservation(ctx, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkReq struct {
	IDs []string `json:"ids"`
}

func (a *API) bulkCancel(w http.ResponseWriter, r *http.Request) {
	a.bulk(w, r, a.Svc.BulkCancel)
}

func (a *API) bulkDelete(w http.ResponseWriter, r *http.Request) {
	a.bulk(w, r, a.Svc.BulkDelete)
}

func (a *API) bulk(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, ids []string) []service.BulkResult) {
	var req bulkReq
	if !decode(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		badRequest(w, "ids are required")
		return
	}
	ctx, cancel := ctxFor(r, 10*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, map[string]any{"results": fn(ctx, req.IDs)})
}
