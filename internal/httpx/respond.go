package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/service"
)

const maxBody = 1 << 20

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusOf(err error) int {
	var v *booking.ValidationError
	switch {
	case errors.As(err, &v):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrConflict),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrCourtUnavailable),
		errors.Is(err, booking.ErrAdminDelete),
		errors.Is(err, booking.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError maps domain errors to status codes. Internal errors are logged
// and hidden from the client.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	body := errorBody{Error: err.Error()}
	var v *booking.ValidationError
	if errors.As(err, &v) {
		body.Error = "validation failed"
		body.Fields = v.Fields
	}
	if code >= http.StatusInternalServerError {
		a.logger().Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
		body.Error = http.StatusText(code)
	}
	writeJSON(w, code, body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "invalid json: "+err.Error())
		return false
	}
	return true
}

func (a *API) logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}

// ctxFor derives the per-request timeout context and tags it with the request id.
func ctxFor(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := service.WithTrace(r.Context(), middleware.GetReqID(r.Context()))
	return context.WithTimeout(ctx, d)
}

func queryDate(w http.ResponseWriter, r *http.Request, key string) (booking.Date, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return booking.Date{}, true
	}
	d, err := booking.ParseDate(s)
	if err != nil {
		badRequest(w, key+": "+err.Error())
		return booking.Date{}, false
	}
	return d, true
}
