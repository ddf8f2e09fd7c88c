package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 5*time.Second)
	defer cancel()

	d, err := a.Svc.Dashboard(ctx)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *API) reports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 5*time.Second)
	defer cancel()

	st, err := a.Svc.Stats(ctx, booking.Period(r.URL.Query().Get("period")))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ---- blocks ----

func (a *API) listBlocks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	bs, err := a.Svc.ListBlocks(ctx, r.URL.Query().Get("court"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (a *API) createBlock(w http.ResponseWriter, r *http.Request) {
	var b booking.CourtBlock
	if !decode(w, r, &b) {
		return
	}
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.CreateBlock(ctx, actor, b)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *API) updateBlock(w http.ResponseWriter, r *http.Request) {
	var b booking.CourtBlock
	if !decode(w, r, &b) {
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	out, err := a.Svc.UpdateBlock(ctx, chi.URLParam(r, "id"), b)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) deleteBlock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	if err := a.Svc.DeleteBlock(ctx, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- users ----

func (a *API) adminUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx, cancel := ctxFor(r, 5*time.Second)
	defer cancel()

	out, err := a.Svc.AdminUsers(ctx, booking.UserFilter{Role: q.Get("role"), Search: q.Get("q")})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) toggleRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	u, err := a.Svc.ToggleRole(ctx, actor, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	if err := a.Svc.DeleteUser(ctx, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
