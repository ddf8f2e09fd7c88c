package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/kafka"
	"github.com/ariefcatur/go-court-reservations/internal/memstore"
	"github.com/ariefcatur/go-court-reservations/internal/redisx"
	"github.com/ariefcatur/go-court-reservations/internal/seed"
	"github.com/ariefcatur/go-court-reservations/internal/service"
)

var now = time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

type harness struct {
	srv *httptest.Server
	t   *testing.T
}

func newHarness(t *testing.T, limiter *RateLimiter) *harness {
	t.Helper()
	auth.Cost = bcrypt.MinCost
	store, err := memstore.NewDemo(now)
	require.NoError(t, err)
	store.Now = func() time.Time { return now }

	mr := miniredis.RunT(t)
	rdb := redisx.New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := &auth.Tokens{Secret: []byte("test-secret"), TTL: time.Hour, Now: func() time.Time { return now }}
	svc := &service.Service{
		Store:     store,
		Cache:     &redisx.Cache{RDB: rdb, Service: "court-api"},
		Publisher: kafka.Nop{},
		Tokens:    tokens,
		Log:       log,
		Name:      "court-api",
		Location:  time.UTC,
		Now:       func() time.Time { return now },
	}
	r := NewRouter(log)
	(&API{Svc: svc, Tokens: tokens, Log: log, LoginLimiter: limiter}).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &harness{srv: srv, t: t}
}

func (h *harness) do(method, path, token string, body any, headers ...string) (*http.Response, []byte) {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	require.NoError(h.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, out
}

func (h *harness) login(email, pw string) string {
	h.t.Helper()
	resp, body := h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": pw})
	require.Equal(h.t, http.StatusOK, resp.StatusCode, string(body))
	var sess service.Session
	require.NoError(h.t, json.Unmarshal(body, &sess))
	return sess.Token
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, nil)
	resp, body := h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestPublicEndpoints(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.do(http.MethodGet, "/courts?type=tennis", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var courts []booking.Court
	require.NoError(t, json.Unmarshal(body, &courts))
	assert.Len(t, courts, 2)

	resp, _ = h.do(http.MethodGet, "/courts/99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = h.do(http.MethodGet, "/courts/1/availability?date=2026-03-10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var av booking.CourtAvailability
	require.NoError(t, json.Unmarshal(body, &av))
	assert.Len(t, av.BlockedSlots, 2)

	resp, _ = h.do(http.MethodGet, "/courts/1/availability?date=10-03-2026", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = h.do(http.MethodGet, "/courts/3/slots?date=2026-03-11", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var slots []booking.Interval
	require.NoError(t, json.Unmarshal(body, &slots))
	assert.Len(t, slots, 6, "18:00 demo booking takes 17:00 and 18:30")

	resp, body = h.do(http.MethodGet, "/calendar/week?date=2026-03-12", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var wk booking.WeekCalendar
	require.NoError(t, json.Unmarshal(body, &wk))
	assert.Equal(t, "2026-03-09", wk.WeekStart.String())

	resp, body = h.do(http.MethodGet, "/news/latest", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var news []booking.News
	require.NoError(t, json.Unmarshal(body, &news))
	assert.Len(t, news, 3)

	resp, _ = h.do(http.MethodGet, "/news?featured=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t, nil)
	resp, _ := h.do(http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = h.do(http.MethodGet, "/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": seed.AdminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	user := h.login(seed.MemberEmail, seed.MemberPassword)
	resp, _ = h.do(http.MethodGet, "/admin/dashboard", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := h.do(http.MethodGet, "/me", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "password")
}

func TestBookingFlow(t *testing.T) {
	h := newHarness(t, nil)
	guest := h.login(seed.GuestEmail, seed.GuestPassword)

	resp, body := h.do(http.MethodGet, "/reservations/quote?court_id=3&start=18:30", guest, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var q booking.Quote
	require.NoError(t, json.Unmarshal(body, &q))
	assert.Equal(t, int64(6000), q.TotalPriceCents)

	req := map[string]string{"court_id": "3", "date": "2026-03-10", "start_time": "18:30"}
	resp, body = h.do(http.MethodPost, "/reservations", guest, req, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created bookResp
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(6000), created.TotalPriceCents)
	assert.False(t, created.Idempotent)

	resp, body = h.do(http.MethodPost, "/reservations", guest, req, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var replay bookResp
	require.NoError(t, json.Unmarshal(body, &replay))
	assert.True(t, replay.Idempotent)
	assert.Equal(t, created.ID, replay.ID)

	resp, body = h.do(http.MethodPost, "/reservations", guest, req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	resp, body = h.do(http.MethodPost, "/reservations", guest, map[string]string{"court_id": "3", "date": "2026-03-10", "start_time": "18:00"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Contains(t, e.Fields, "start_time")

	resp, _ = h.do(http.MethodPost, "/reservations", guest, map[string]any{"court_id": "3", "surprise": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	member := h.login(seed.MemberEmail, seed.MemberPassword)
	resp, _ = h.do(http.MethodGet, "/reservations/"+created.ID, member, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = h.do(http.MethodPost, "/reservations/"+created.ID+"/cancel", member, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = h.do(http.MethodPost, "/reservations/"+created.ID+"/cancel", guest, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled booking.Reservation
	require.NoError(t, json.Unmarshal(body, &cancelled))
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)

	resp, body = h.do(http.MethodGet, "/reservations/mine", guest, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine service.MyReservations
	require.NoError(t, json.Unmarshal(body, &mine))
	assert.Len(t, mine.Upcoming, 2)
	assert.Len(t, mine.Past, 1)
}

func TestAdminEndpoints(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login(seed.AdminEmail, seed.AdminPassword)

	resp, body := h.do(http.MethodGet, "/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d booking.Dashboard
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, 5, d.TotalReservations)

	resp, _ = h.do(http.MethodGet, "/admin/reports?period=decade", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = h.do(http.MethodPost, "/admin/courts", admin, map[string]any{
		"name": "Court 4", "type": "football", "location": "West Field", "price_per_hour_cents": 4000, "available": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var c booking.Court
	require.NoError(t, json.Unmarshal(body, &c))

	resp, body = h.do(http.MethodPost, "/admin/courts/"+c.ID+"/toggle", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &c))
	assert.False(t, c.Available)

	resp, body = h.do(http.MethodPost, "/admin/blocks", admin, map[string]any{
		"court_id": "3", "start_date": "2026-03-12", "end_date": "2026-03-12",
		"start_time": "10:00", "end_time": "12:00", "type": "event", "reason": "Junior clinic",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = h.do(http.MethodPatch, "/admin/reservations/4/status", admin, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, _ = h.do(http.MethodPatch, "/admin/reservations/4/status", admin, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = h.do(http.MethodPost, "/admin/reservations/bulk-cancel", admin, map[string]any{"ids": []string{"1", "nope"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bulk struct {
		Results []service.BulkResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(body, &bulk))
	require.Len(t, bulk.Results, 2)
	assert.Empty(t, bulk.Results[0].Error)
	assert.NotEmpty(t, bulk.Results[1].Error)

	resp, body = h.do(http.MethodGet, "/admin/reservations?status=cancelled", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var views []service.ReservationView
	require.NoError(t, json.Unmarshal(body, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Central Court", views[0].CourtName)

	resp, _ = h.do(http.MethodDelete, "/admin/users/2", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = h.do(http.MethodDelete, "/admin/users/3", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = h.do(http.MethodGet, "/admin/users?role=all", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users service.UserList
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Equal(t, 2, users.Stats.Total)
}

func TestTokenFollowsStoredRole(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login(seed.AdminEmail, seed.AdminPassword)

	resp, body := h.do(http.MethodPost, "/admin/users/1/toggle-role", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	promoted := h.login(seed.MemberEmail, seed.MemberPassword)
	resp, _ = h.do(http.MethodGet, "/admin/users", promoted, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = h.do(http.MethodPost, "/admin/users/1/toggle-role", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, _ = h.do(http.MethodGet, "/admin/users", promoted, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "demoted user keeps an admin token")

	guest := h.login(seed.GuestEmail, seed.GuestPassword)
	resp, _ = h.do(http.MethodGet, "/admin/users", guest, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = h.do(http.MethodPost, "/admin/users/3/toggle-role", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = h.do(http.MethodGet, "/admin/users", guest, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTokenOfDeletedUserIsRejected(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login(seed.AdminEmail, seed.AdminPassword)
	guest := h.login(seed.GuestEmail, seed.GuestPassword)

	resp, _ := h.do(http.MethodGet, "/me", guest, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.do(http.MethodDelete, "/admin/users/3", admin, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = h.do(http.MethodGet, "/me", guest, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = h.do(http.MethodPost, "/reservations", guest, map[string]any{
		"court_id": "3", "date": "2026-03-11", "start_time": "08:00",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	h := newHarness(t, NewRateLimiter(0.001, 2))
	creds := map[string]string{"email": seed.AdminEmail, "password": "wrong"}

	for i := 0; i < 2; i++ {
		resp, _ := h.do(http.MethodPost, "/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := h.do(http.MethodPost, "/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = h.do(http.MethodGet, "/courts", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "only auth routes are limited")
}
