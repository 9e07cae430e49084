package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- fakes ----------

func write(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}

type fakeHealth struct{}

func (fakeHealth) Healthz(w http.ResponseWriter, r *http.Request) { write(w, "healthz") }
func (fakeHealth) Readyz(w http.ResponseWriter, r *http.Request)  { write(w, "readyz") }

type fakeAuth struct{}

func (fakeAuth) Register(w http.ResponseWriter, r *http.Request)              { write(w, "register") }
func (fakeAuth) Login(w http.ResponseWriter, r *http.Request)                 { write(w, "login") }
func (fakeAuth) Me(w http.ResponseWriter, r *http.Request)                    { write(w, "me") }
func (fakeAuth) CreateFounderProfile(w http.ResponseWriter, r *http.Request)  { write(w, "profile_founder") }
func (fakeAuth) CreateInvestorProfile(w http.ResponseWriter, r *http.Request) { write(w, "profile_investor") }
func (fakeAuth) DeleteUser(w http.ResponseWriter, r *http.Request)            { write(w, "delete_user") }

type fakeVerification struct{}

func (fakeVerification) Submit(w http.ResponseWriter, r *http.Request) { write(w, "submit") }
func (fakeVerification) Status(w http.ResponseWriter, r *http.Request) { write(w, "status") }
func (fakeVerification) List(w http.ResponseWriter, r *http.Request)   { write(w, "list") }
func (fakeVerification) Get(w http.ResponseWriter, r *http.Request)    { write(w, "get") }
func (fakeVerification) Review(w http.ResponseWriter, r *http.Request) { write(w, "review") }
func (fakeVerification) Delete(w http.ResponseWriter, r *http.Request) { write(w, "delete") }

type fakeStartups struct{}

func (fakeStartups) Create(w http.ResponseWriter, r *http.Request)           { write(w, "startup_create") }
func (fakeStartups) List(w http.ResponseWriter, r *http.Request)             { write(w, "startup_list") }
func (fakeStartups) Get(w http.ResponseWriter, r *http.Request)              { write(w, "startup_get") }
func (fakeStartups) Update(w http.ResponseWriter, r *http.Request)           { write(w, "startup_update") }
func (fakeStartups) Delete(w http.ResponseWriter, r *http.Request)           { write(w, "startup_delete") }
func (fakeStartups) ExpressInterest(w http.ResponseWriter, r *http.Request)  { write(w, "interest_create") }
func (fakeStartups) ListInterests(w http.ResponseWriter, r *http.Request)    { write(w, "interest_list") }
func (fakeStartups) WithdrawInterest(w http.ResponseWriter, r *http.Request) { write(w, "interest_delete") }

type fakeWaitlist struct{}

func (fakeWaitlist) Join(w http.ResponseWriter, r *http.Request)    { write(w, "waitlist_join") }
func (fakeWaitlist) List(w http.ResponseWriter, r *http.Request)    { write(w, "waitlist_list") }
func (fakeWaitlist) Export(w http.ResponseWriter, r *http.Request)  { write(w, "waitlist_export") }
func (fakeWaitlist) Approve(w http.ResponseWriter, r *http.Request) { write(w, "waitlist_approve") }
func (fakeWaitlist) Delete(w http.ResponseWriter, r *http.Request)  { write(w, "waitlist_delete") }

type fakeViews struct{}

func (fakeViews) Record(w http.ResponseWriter, r *http.Request)  { write(w, "view_record") }
func (fakeViews) Stats(w http.ResponseWriter, r *http.Request)   { write(w, "view_stats") }
func (fakeViews) Summary(w http.ResponseWriter, r *http.Request) { write(w, "view_summary") }

type fakeConnections struct{}

func (fakeConnections) Request(w http.ResponseWriter, r *http.Request)    { write(w, "conn_request") }
func (fakeConnections) Mine(w http.ResponseWriter, r *http.Request)       { write(w, "conn_mine") }
func (fakeConnections) Inbox(w http.ResponseWriter, r *http.Request)      { write(w, "conn_inbox") }
func (fakeConnections) ForStartup(w http.ResponseWriter, r *http.Request) { write(w, "conn_startup") }
func (fakeConnections) Answer(w http.ResponseWriter, r *http.Request)     { write(w, "conn_answer") }
func (fakeConnections) Delete(w http.ResponseWriter, r *http.Request)     { write(w, "conn_delete") }

// tag records which middlewares ran, in order.
func tag(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-MW", name)
			next.ServeHTTP(w, r)
		})
	}
}

func newDeps() Deps {
	return Deps{
		Health:       fakeHealth{},
		Auth:         fakeAuth{},
		Verification: fakeVerification{},
		Startups:     fakeStartups{},
		Waitlist:     fakeWaitlist{},
		Views:        fakeViews{},
		Connections:  fakeConnections{},
		AuthMW:       tag("auth"),
		OptionalMW:   tag("optional"),
		AdminMW:      tag("admin"),
		FounderMW:    tag("founder"),
		InvestorMW:   tag("investor"),
		BuilderMW:    tag("builder"),
		BackerMW:     tag("backer"),
		VerifiedMW:   tag("verified"),
		RegisterRL:   tag("rl_register"),
		LoginRL:      tag("rl_login"),
		SubmitRL:     tag("rl_submit"),
		WaitlistRL:   tag("rl_waitlist"),
	}
}

func TestNew_RejectsMissingDeps(t *testing.T) {
	d := newDeps()
	d.Verification = nil
	_, err := New(d)
	assert.Error(t, err)

	d = newDeps()
	d.VerifiedMW = nil
	_, err = New(d)
	assert.Error(t, err)

	d = newDeps()
	d.Connections = nil
	_, err = New(d)
	assert.Error(t, err)

	d = newDeps()
	d.OptionalMW = nil
	_, err = New(d)
	assert.Error(t, err)
}

func TestNew_RateLimitersOptional(t *testing.T) {
	d := newDeps()
	d.RegisterRL, d.LoginRL, d.SubmitRL = nil, nil, nil

	h, err := New(d)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	assert.Equal(t, "login", rr.Body.String())
}

func TestRoutes(t *testing.T) {
	h, err := New(newDeps())
	require.NoError(t, err)

	cases := []struct {
		method, path string
		body         string
		mws          []string
	}{
		{http.MethodGet, "/healthz", "healthz", nil},
		{http.MethodGet, "/readyz", "readyz", nil},
		{http.MethodPost, "/api/v1/auth/register", "register", []string{"rl_register"}},
		{http.MethodPost, "/api/v1/auth/login", "login", []string{"rl_login"}},
		{http.MethodGet, "/api/v1/auth/me", "me", []string{"auth"}},
		{http.MethodPost, "/api/v1/profiles/founder", "profile_founder", []string{"auth", "founder"}},
		{http.MethodPost, "/api/v1/profiles/investor", "profile_investor", []string{"auth", "investor"}},

		{http.MethodPost, "/api/v1/verification/submit", "submit", []string{"auth", "rl_submit"}},
		{http.MethodGet, "/api/v1/verification/status", "status", []string{"auth"}},
		{http.MethodGet, "/api/v1/verification", "list", []string{"auth", "admin"}},
		{http.MethodGet, "/api/v1/verification/r1", "get", []string{"auth"}},
		{http.MethodPut, "/api/v1/verification/r1/review", "review", []string{"auth", "admin"}},
		{http.MethodDelete, "/api/v1/verification/r1", "delete", []string{"auth", "admin"}},
		{http.MethodDelete, "/api/v1/admin/users/u1", "delete_user", []string{"auth", "admin"}},

		{http.MethodGet, "/api/v1/startups", "startup_list", []string{"auth"}},
		{http.MethodGet, "/api/v1/startups/s1", "startup_get", []string{"auth"}},
		{http.MethodPost, "/api/v1/startups", "startup_create", []string{"auth", "builder", "verified"}},
		{http.MethodPut, "/api/v1/startups/s1", "startup_update", []string{"auth", "builder", "verified"}},
		{http.MethodDelete, "/api/v1/startups/s1", "startup_delete", []string{"auth", "builder", "verified"}},
		{http.MethodPost, "/api/v1/startups/s1/interests", "interest_create", []string{"auth", "backer", "verified"}},
		{http.MethodGet, "/api/v1/startups/s1/interests", "interest_list", []string{"auth"}},
		{http.MethodDelete, "/api/v1/interests/in1", "interest_delete", []string{"auth", "backer"}},

		{http.MethodPost, "/api/v1/waitlist", "waitlist_join", []string{"rl_waitlist"}},
		{http.MethodGet, "/api/v1/waitlist", "waitlist_list", []string{"auth", "admin"}},
		{http.MethodGet, "/api/v1/waitlist/export", "waitlist_export", []string{"auth", "admin"}},
		{http.MethodPatch, "/api/v1/waitlist/w1/approve", "waitlist_approve", []string{"auth", "admin"}},
		{http.MethodDelete, "/api/v1/waitlist/w1", "waitlist_delete", []string{"auth", "admin"}},

		{http.MethodPost, "/api/v1/views/startups/s1", "view_record", []string{"optional"}},
		{http.MethodGet, "/api/v1/views/startups/s1/stats", "view_stats", []string{"auth"}},
		{http.MethodGet, "/api/v1/views/startups", "view_summary", []string{"auth"}},

		{http.MethodPost, "/api/v1/connections", "conn_request", []string{"auth"}},
		{http.MethodGet, "/api/v1/connections/mine", "conn_mine", []string{"auth"}},
		{http.MethodGet, "/api/v1/connections/inbox", "conn_inbox", []string{"auth"}},
		{http.MethodGet, "/api/v1/connections/startup/s1", "conn_startup", []string{"auth"}},
		{http.MethodPut, "/api/v1/connections/c1", "conn_answer", []string{"auth"}},
		{http.MethodDelete, "/api/v1/connections/c1", "conn_delete", []string{"auth"}},
	}

	for _, c := range cases {
		t.Run(c.method+" "+c.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(c.method, c.path, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, c.body, rr.Body.String())
			assert.Equal(t, c.mws, rr.Header().Values("X-MW"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, err := New(newDeps())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	h, err := New(newDeps())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
