// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TomaszStojek/gatehouse/internal/auth"
	"github.com/TomaszStojek/gatehouse/internal/auth/memory"
	"github.com/TomaszStojek/gatehouse/internal/observability"
	"github.com/TomaszStojek/gatehouse/internal/web"
)

type harness struct {
	t        *testing.T
	server   *web.Server
	service  *auth.Service
	users    *memory.UserDirectory
	sessions *memory.SessionStore
	metrics  *observability.Metrics
	now      time.Time
}

func newHarness(t *testing.T, cfg auth.ServiceConfig) *harness {
	t.Helper()

	h := &harness{
		t:        t,
		users:    memory.NewUserDirectory(),
		sessions: memory.NewSessionStore(),
		metrics:  observability.NewMetrics(prometheus.NewRegistry()),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return h.now }
	h.sessions.SetClock(clock)

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.service, err = auth.NewAuthServiceWithLogger(h.users, h.sessions, hasher, cfg, logger)
	require.NoError(t, err)
	h.service.SetClock(clock)

	h.server, err = web.NewServer(web.Options{
		Auth:     h.service,
		Sessions: h.sessions,
		Logger:   logger,
		Metrics:  h.metrics,
	})
	require.NoError(t, err)
	h.server.SetClock(clock)
	h.server.SetPicker(func(int) int { return 0 })
	return h
}

func (h *harness) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	h.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == web.CookieName {
			return c
		}
	}
	return nil
}

func registration(username, name, password string) url.Values {
	return url.Values{"username": {username}, "name": {name}, "password": {password}}
}

func login(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// register creates a@x.com/Alice and returns its session cookie.
func (h *harness) register() *http.Cookie {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/submitUser", registration("a@x.com", "Alice", "pw12345"), nil)
	require.Equal(h.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	c := sessionCookie(rec)
	require.NotNil(h.t, c)
	return c
}

func TestHome(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{})

	t.Run("anonymous", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		decodeJSON(t, rec, &body)
		assert.Equal(t, false, body["authenticated"])
		assert.NotContains(t, body, "links")

		var forms struct {
			Forms map[string]struct {
				Method string   `json:"method"`
				Action string   `json:"action"`
				Fields []string `json:"fields"`
			} `json:"forms"`
		}
		decodeJSON(t, rec, &forms)
		assert.Equal(t, http.MethodPost, forms.Forms["signup"].Method)
		assert.Equal(t, "/submitUser", forms.Forms["signup"].Action)
		assert.Equal(t, []string{"username", "name", "password"}, forms.Forms["signup"].Fields)
		assert.Equal(t, http.MethodPost, forms.Forms["login"].Method)
		assert.Equal(t, "/loggingin", forms.Forms["login"].Action)

		for _, f := range forms.Forms {
			get := h.do(http.MethodGet, f.Action, nil, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, get.Code, f.Action)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/", nil, h.register())
		var body map[string]any
		decodeJSON(t, rec, &body)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, "Hello, Alice!", body["greeting"])
	})
}

func TestRegister(t *testing.T) {
	t.Run("sets session cookie and redirects to members", func(t *testing.T) {
		h := newHarness(t, auth.ServiceConfig{})
		rec := h.do(http.MethodPost, "/submitUser", registration("a@x.com", "Alice", "pw12345"), nil)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/members", rec.Header().Get("Location"))

		c := sessionCookie(rec)
		require.NotNil(t, c)
		assert.Len(t, c.Value, 2*auth.SessionTokenBytes)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.WithinDuration(t, h.now.Add(auth.DefaultSessionTTL), c.Expires, time.Second)

		sess, err := h.sessions.Get(context.Background(), c.Value)
		require.NoError(t, err)
		assert.True(t, sess.Authenticated)
		assert.Equal(t, auth.RoleUser, sess.Role)
		assert.Equal(t, "Alice", sess.DisplayName)
	})

	t.Run("invalid input is 400 and writes nothing", func(t *testing.T) {
		h := newHarness(t, auth.ServiceConfig{})
		rec := h.do(http.MethodPost, "/submitUser", registration("not-an-email", "Alice", "pw12345"), nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, sessionCookie(rec))

		var body struct {
			Fields []struct {
				Field string `json:"field"`
			} `json:"fields"`
		}
		decodeJSON(t, rec, &body)
		require.Len(t, body.Fields, 1)
		assert.Equal(t, "username", body.Fields[0].Field)

		users, err := h.users.ListAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.Zero(t, h.sessions.Len())
	})

	t.Run("multibyte password within 20 characters is 400 not 500", func(t *testing.T) {
		h := newHarness(t, auth.ServiceConfig{})
		rec := h.do(http.MethodPost, "/submitUser", registration("a@x.com", "Alice", strings.Repeat("😀", 20)), nil)

		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		var body struct {
			Fields []struct {
				Field string `json:"field"`
			} `json:"fields"`
		}
		decodeJSON(t, rec, &body)
		require.Len(t, body.Fields, 1)
		assert.Equal(t, "password", body.Fields[0].Field)
		assert.Zero(t, h.sessions.Len())
	})

	t.Run("multibyte password at the byte limit registers", func(t *testing.T) {
		h := newHarness(t, auth.ServiceConfig{})
		password := strings.Repeat("😀", 18)
		rec := h.do(http.MethodPost, "/submitUser", registration("a@x.com", "Alice", password), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

		c := sessionCookie(rec)
		require.NotNil(t, c)
		members := h.do(http.MethodGet, "/members", nil, c)
		assert.Equal(t, http.StatusOK, members.Code)

		relogin := h.do(http.MethodPost, "/loggingin", login("a@x.com", password), nil)
		assert.Equal(t, http.StatusSeeOther, relogin.Code)
	})

	t.Run("duplicate username is 409", func(t *testing.T) {
		h := newHarness(t, auth.ServiceConfig{})
		h.register()

		rec := h.do(http.MethodPost, "/submitUser", registration("a@x.com", "Other", "different"), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Nil(t, sessionCookie(rec))
	})

	t.Run("counts attempts by outcome", func(t *testing.T) {
		h := newHarness(t, auth.ServiceConfig{})
		h.register()
		h.do(http.MethodPost, "/submitUser", registration("bad", "Alice", "pw"), nil)

		assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.AuthAttempts.WithLabelValues("register", observability.OutcomeSuccess)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.AuthAttempts.WithLabelValues("register", observability.OutcomeRejected)), 0)
	})
}

func TestLogin(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{})
	first := h.register()

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		wrong := h.do(http.MethodPost, "/loggingin", login("a@x.com", "nope"), nil)
		unknown := h.do(http.MethodPost, "/loggingin", login("b@x.com", "pw12345"), nil)

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
		assert.Contains(t, wrong.Body.String(), "wrong password or username")
		assert.Nil(t, sessionCookie(wrong))
	})

	t.Run("username longer than 20 is 400", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/loggingin", login(strings.Repeat("u", 21), "pw"), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]any
		decodeJSON(t, rec, &body)
		assert.Equal(t, "invalid login, please try again", body["error"])
		assert.NotContains(t, body, "fields")
		assert.NotContains(t, rec.Body.String(), "maxLength")
		assert.NotContains(t, rec.Body.String(), "20")
	})

	t.Run("long email registers but cannot log in", func(t *testing.T) {
		long := "averylongaddress@example.com"
		rec := h.do(http.MethodPost, "/submitUser", registration(long, "Long", "pw12345"), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

		rec = h.do(http.MethodPost, "/loggingin", login(long, "pw12345"), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success rotates the token", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/loggingin", login("a@x.com", "pw12345"), first)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/members", rec.Header().Get("Location"))

		second := sessionCookie(rec)
		require.NotNil(t, second)
		assert.NotEqual(t, first.Value, second.Value)

		assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/members", nil, second).Code)

		old := h.do(http.MethodGet, "/members", nil, first)
		assert.Equal(t, http.StatusSeeOther, old.Code)
		assert.Equal(t, "/", old.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{})
	c := h.register()

	rec := h.do(http.MethodGet, "/logout", nil, c)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
	assert.Zero(t, h.sessions.Len())

	assert.Equal(t, http.StatusSeeOther, h.do(http.MethodGet, "/members", nil, c).Code)

	t.Run("anonymous logout is harmless", func(t *testing.T) {
		assert.Equal(t, http.StatusSeeOther, h.do(http.MethodPost, "/logout", nil, nil).Code)
	})
}

func TestMembers(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{})

	t.Run("anonymous is redirected home", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/members", nil, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.GuardDenials.WithLabelValues("session")), 0)
	})

	t.Run("unknown token is redirected and cookie cleared", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/members", nil, &http.Cookie{Name: web.CookieName, Value: "bogus"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		c := sessionCookie(rec)
		require.NotNil(t, c)
		assert.Negative(t, c.MaxAge)
	})

	t.Run("authenticated gets greeting and image", func(t *testing.T) {
		h.server.SetPicker(func(n int) int { return n - 1 })
		rec := h.do(http.MethodGet, "/members", nil, h.register())
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Greeting string    `json:"greeting"`
			Image    web.Image `json:"image"`
		}
		decodeJSON(t, rec, &body)
		assert.Equal(t, "Hello, Alice!", body.Greeting)
		assert.Equal(t, "grass", body.Image.Kind)
		assert.Equal(t, "/grass.jpg", body.Image.Src)
	})
}

func TestSessionExpiry(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{SessionTTL: time.Hour})
	c := h.register()

	h.now = h.now.Add(59 * time.Minute)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/members", nil, c).Code)

	h.now = h.now.Add(2 * time.Minute)
	rec := h.do(http.MethodGet, "/members", nil, c)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, h.sessions.Len(), "expired session is deleted when presented")
}

func TestSlidingExpiry(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{SessionTTL: time.Hour, Sliding: true})
	c := h.register()

	for i := 0; i < 3; i++ {
		h.now = h.now.Add(50 * time.Minute)
		rec := h.do(http.MethodGet, "/members", nil, c)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)

		refreshed := sessionCookie(rec)
		require.NotNil(t, refreshed)
		assert.Equal(t, c.Value, refreshed.Value)
		assert.WithinDuration(t, h.now.Add(time.Hour), refreshed.Expires, time.Second)
	}
}

func TestAdmin(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{})
	userCookie := h.register()

	rec := h.do(http.MethodPost, "/submitUser", registration("b@x.com", "Bob", "pw12345"), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	t.Run("anonymous is redirected", func(t *testing.T) {
		assert.Equal(t, http.StatusSeeOther, h.do(http.MethodGet, "/admin/users", nil, nil).Code)
	})

	t.Run("user is forbidden on every request", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/admin/users", nil, userCookie).Code)
		}
		assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/admin/users/b@x.com/promote", nil, userCookie).Code)
		assert.InDelta(t, 4, testutil.ToFloat64(h.metrics.GuardDenials.WithLabelValues("role")), 0)
	})

	require.NoError(t, h.service.Promote(context.Background(), "a@x.com"))

	t.Run("existing session keeps its old role", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/admin/users", nil, userCookie).Code)
	})

	rec = h.do(http.MethodPost, "/loggingin", login("a@x.com", "pw12345"), userCookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	adminCookie := sessionCookie(rec)

	t.Run("admin lists users", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin/users", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var users []auth.UserSummary
		decodeJSON(t, rec, &users)
		assert.Equal(t, []auth.UserSummary{
			{Username: "a@x.com", Role: auth.RoleAdmin},
			{Username: "b@x.com", Role: auth.RoleUser},
		}, users)
	})

	t.Run("admin promotes and demotes", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/admin/users/b@x.com/promote", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		bob, err := h.users.FindByUsername(context.Background(), "b@x.com")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, bob.Role)

		rec = h.do(http.MethodPost, "/admin/users/b@x.com/demote", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		bob, err = h.users.FindByUsername(context.Background(), "b@x.com")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleUser, bob.Role)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/admin/users/nobody@x.com/demote", nil, adminCookie).Code)
	})
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, auth.ServiceConfig{})
	rec := h.do(http.MethodGet, "/does/not/exist", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page not found - 404", rec.Body.String())
}

func TestNewServerRequiresCollaborators(t *testing.T) {
	_, err := web.NewServer(web.Options{Sessions: memory.NewSessionStore()})
	assert.Error(t, err)

	_, err = web.NewServer(web.Options{Auth: &auth.Service{}})
	assert.Error(t, err)
}
