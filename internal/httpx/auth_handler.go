package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-court-reservations/internal/service"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(w, "email and password are required")
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	sess, err := a.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	sess, err := a.Svc.Register(ctx, req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	u, err := a.Svc.Me(ctx, actor)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) updateMe(w http.ResponseWriter, r *http.Request) {
	var p service.ProfilePatch
	if !decode(w, r, &p) {
		return
	}
	actor, _ := ActorFrom(r.Context())
	ctx, cancel := ctxFor(r, 3*time.Second)
	defer cancel()

	u, err := a.Svc.UpdateProfile(ctx, actor, p)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
