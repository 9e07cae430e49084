package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/redis"
	appCtx "github.com/baechuer/real-time-ressys/services/verification-service/internal/pkg/context"
)

// ---- fakes ----

type fakeAuthn struct {
	p      authz.Principal
	err    error
	calls  int
	gotTok string
}

func (f *fakeAuthn) Authenticate(_ context.Context, token string) (authz.Principal, error) {
	f.calls++
	f.gotTok = token
	return f.p, f.err
}

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusTeapot)
}

type nextRecorder struct {
	calls int
	got   authz.Principal
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.got, _ = PrincipalFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func withPrincipal(req *http.Request, p authz.Principal) *http.Request {
	return req.WithContext(WithPrincipal(req.Context(), p))
}

// ---- Auth ----

func TestAuth_MissingHeader(t *testing.T) {
	authn := &fakeAuthn{}
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	Auth(authn, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 0, nx.calls)
	assert.Equal(t, 0, authn.calls)
	assert.True(t, domain.Is(we.last, "token_missing"))
}

func TestAuth_NotBearer(t *testing.T) {
	authn := &fakeAuthn{}
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	Auth(authn, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 0, nx.calls)
	assert.True(t, domain.Is(we.last, "token_invalid"))
}

func TestAuth_AuthenticateError_Propagates(t *testing.T) {
	authn := &fakeAuthn{err: domain.ErrTokenExpired()}
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	Auth(authn, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 0, nx.calls)
	assert.True(t, domain.Is(we.last, "token_expired"))
}

func TestAuth_InjectsPrincipal(t *testing.T) {
	p := authz.Principal{ID: "u1", Role: "founder", VerificationStatus: domain.StatusPending}
	authn := &fakeAuthn{p: p}
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer  tok-123 ")
	Auth(authn, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, nx.calls)
	assert.Equal(t, "tok-123", authn.gotTok)
	assert.Equal(t, p, nx.got)
	assert.Equal(t, 0, we.calls)
}

func TestOptionalAuth(t *testing.T) {
	p := authz.Principal{ID: "u1", Role: "investor"}

	cases := []struct {
		name    string
		header  string
		err     error
		wantID  string
		authnOK bool
	}{
		{"no header", "", nil, "", false},
		{"not bearer", "Basic abc", nil, "", false},
		{"expired", "Bearer tok", domain.ErrTokenExpired(), "", true},
		{"valid", "Bearer tok", nil, "u1", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			authn := &fakeAuthn{p: p, err: c.err}
			nx := &nextRecorder{}

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			OptionalAuth(authn)(nx).ServeHTTP(rec, req)

			require.Equal(t, 1, nx.calls, "request always passes through")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, c.wantID, nx.got.ID)
			assert.Equal(t, c.authnOK, authn.calls == 1)
		})
	}
}

// ---- RBAC / verified ----

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role string
		ok   bool
	}{
		{"founder", true},
		{"admin", true},
		{"investor", false},
		{"user", false},
	}
	for _, c := range cases {
		we := &writeErrRecorder{}
		nx := &nextRecorder{}
		req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), authz.Principal{ID: "u", Role: c.role})

		RequireRole(domain.Roles(domain.RoleFounder, domain.RoleAdmin), we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

		if c.ok {
			assert.Equal(t, 1, nx.calls, c.role)
		} else {
			assert.Equal(t, 0, nx.calls, c.role)
			assert.True(t, domain.Is(we.last, "insufficient_role"), c.role)
		}
	}
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	RequireRole(domain.Roles(domain.RoleAdmin), we.fn)(nx).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 0, nx.calls)
	assert.True(t, domain.Is(we.last, "token_invalid"))
}

func TestRequireVerified(t *testing.T) {
	cases := []struct {
		name string
		p    authz.Principal
		ok   bool
	}{
		{"admin", authz.Principal{ID: "a", Role: "admin"}, true},
		{"verified founder", authz.Principal{ID: "f", Role: "founder", RoleVerified: true, VerificationStatus: domain.StatusApproved}, true},
		{"pending founder", authz.Principal{ID: "f", Role: "founder", VerificationStatus: domain.StatusPending}, false},
		{"rejected investor", authz.Principal{ID: "i", Role: "investor", VerificationStatus: domain.StatusRejected}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			we := &writeErrRecorder{}
			nx := &nextRecorder{}
			req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), c.p)

			RequireVerified(we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

			if c.ok {
				assert.Equal(t, 1, nx.calls)
				return
			}
			assert.Equal(t, 0, nx.calls)
			require.True(t, domain.Is(we.last, "verification_required"))
			assert.Equal(t, string(c.p.VerificationStatus), we.last.(*domain.Error).Meta["verification_status"])
		})
	}
}

// ---- Request ID ----

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = appCtx.RequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, got)
	assert.Equal(t, got, rr.Header().Get(HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "rid-7")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "rid-7", got)
}

func TestRequestID_ReplacesUnusableIDs(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = appCtx.RequestID(r.Context())
	}))

	for _, bad := range []string{"has space", strings.Repeat("a", 129), "caf\u00e9"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderXRequestID, bad)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.NotEqual(t, bad, got)
		assert.Len(t, got, 36, "uuid minted for %q", bad)
		assert.Equal(t, got, rr.Header().Get(HeaderXRequestID))
	}
}

// ---- Rate limit ----

type failingLimiter struct{ calls int }

func (f *failingLimiter) Allow(context.Context, string, int, time.Duration) (redis.Decision, error) {
	f.calls++
	return redis.Decision{}, errors.New("redis down")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestRateLimit_Redis_BlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redis.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	we := &writeErrRecorder{}
	h := RateLimitFixedWindow(redis.NewFixedWindowLimiter(c), FixedWindowConfig{RouteKey: "login", Limit: 2, Window: time.Minute}, we.fn)(okHandler())

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		last = rr
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTeapot}, codes)
	require.True(t, domain.Is(we.last, "rate_limited"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FallsBackToLocalLimiter(t *testing.T) {
	lim := &failingLimiter{}
	we := &writeErrRecorder{}
	h := RateLimitFixedWindow(lim, FixedWindowConfig{RouteKey: "register", Limit: 1, Window: time.Minute}, we.fn)(okHandler())

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, 2, lim.calls)
	assert.Equal(t, []int{http.StatusOK, http.StatusTeapot}, codes)
	assert.True(t, domain.Is(we.last, "rate_limited"))
}

func TestRateLimit_NilLimiterUsesLocal(t *testing.T) {
	we := &writeErrRecorder{}
	h := RateLimitFixedWindow(nil, FixedWindowConfig{RouteKey: "submit", Limit: 1, Window: time.Minute}, we.fn)(okHandler())

	a := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), authz.Principal{ID: "u1", Role: "founder"})
	b := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), authz.Principal{ID: "u2", Role: "founder"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, a)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, b)
	assert.Equal(t, http.StatusOK, rr.Code, "different users have separate budgets")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, a)
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRateLimit_ZeroLimitDisables(t *testing.T) {
	we := &writeErrRecorder{}
	h := RateLimitFixedWindow(&failingLimiter{}, FixedWindowConfig{Limit: 0}, we.fn)(okHandler())

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestMetrics_PassesThroughStatus(t *testing.T) {
	h := Metrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
}
