package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/verification"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

func metaOf(t *testing.T, err error) map[string]string {
	t.Helper()
	de, ok := err.(*domain.Error)
	require.True(t, ok, "expected *domain.Error, got %T", err)
	return de.Meta
}

func TestRegisterRequest_Validate(t *testing.T) {
	cases := []struct {
		name  string
		req   RegisterRequest
		code  string
		field string
	}{
		{"ok", RegisterRequest{Email: " A@B.io ", Password: "longenough"}, "", ""},
		{"ok with role", RegisterRequest{Email: "a@b.io", Password: "longenough", Role: "founder"}, "", ""},
		{"missing email", RegisterRequest{Password: "longenough"}, "missing_field", "email"},
		{"bad email", RegisterRequest{Email: "nope", Password: "longenough"}, "invalid_field", "email"},
		{"missing password", RegisterRequest{Email: "a@b.io"}, "missing_field", "password"},
		{"short password", RegisterRequest{Email: "a@b.io", Password: "short"}, "weak_password", ""},
		{"admin role", RegisterRequest{Email: "a@b.io", Password: "longenough", Role: "admin"}, "invalid_role", ""},
		{"unknown role", RegisterRequest{Email: "a@b.io", Password: "longenough", Role: "startup"}, "invalid_role", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate()
			if c.code == "" {
				require.NoError(t, err)
				return
			}
			require.True(t, domain.Is(err, c.code), "expected %s, got %v", c.code, err)
			if c.field != "" {
				assert.Equal(t, c.field, metaOf(t, err)["field"])
			}
		})
	}
}

func TestRegisterRequest_NormalizesEmail(t *testing.T) {
	r := RegisterRequest{Email: "  Mixed@Case.IO ", Password: "longenough"}
	require.NoError(t, r.Validate())
	assert.Equal(t, "mixed@case.io", r.Email)
}

func TestReviewRequest_Validate(t *testing.T) {
	require.NoError(t, (&ReviewRequest{Status: "approved"}).Validate())
	require.NoError(t, (&ReviewRequest{Status: "rejected", RejectionReason: "blurry"}).Validate())

	err := (&ReviewRequest{}).Validate()
	assert.True(t, domain.Is(err, "missing_field"), "got %v", err)

	err = (&ReviewRequest{Status: "pending"}).Validate()
	require.True(t, domain.Is(err, "invalid_decision"), "got %v", err)
	assert.Equal(t, "pending", metaOf(t, err)["status"])
}

func TestCreateStartupRequest_Validate(t *testing.T) {
	require.NoError(t, (&CreateStartupRequest{Name: "Acme", Industry: "fintech"}).Validate())

	err := (&CreateStartupRequest{Name: "  ", Industry: "fintech"}).Validate()
	assert.True(t, domain.Is(err, "missing_field"), "got %v", err)

	err = (&CreateStartupRequest{Name: "Acme", Industry: "fintech", FundingGoal: -1}).Validate()
	require.True(t, domain.Is(err, "invalid_field"), "got %v", err)
	assert.Equal(t, "fundingGoal", metaOf(t, err)["field"])
}

func TestUpdateStartupRequest_EmptyIsValid(t *testing.T) {
	require.NoError(t, (&UpdateStartupRequest{}).Validate())

	neg := int64(-5)
	err := (&UpdateStartupRequest{FundingGoal: &neg}).Validate()
	assert.True(t, domain.Is(err, "invalid_field"), "got %v", err)
}

func TestInterestRequest_Validate(t *testing.T) {
	require.NoError(t, (&InterestRequest{Amount: 5000, Message: "hi"}).Validate())
	assert.True(t, domain.Is((&InterestRequest{Amount: -1}).Validate(), "invalid_field"))
}

func TestNewStatusData_NoRequest(t *testing.T) {
	out := NewStatusData(verification.StatusResult{VerificationStatus: domain.StatusNotSubmitted})

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"roleVerified":false,"roleVerificationStatus":"not_submitted"}`, string(b))
}

func TestNewStatusData_WithRejectedRequest(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := NewStatusData(verification.StatusResult{
		VerificationStatus: domain.StatusRejected,
		Latest: &domain.VerificationRequest{
			ID: "r1", Status: domain.StatusRejected, SubmittedAt: now, ReviewedAt: &now,
			RejectionReason: "Document blurry",
		},
	})

	require.NotNil(t, out.LatestRequest)
	assert.Equal(t, "rejected", out.RoleVerificationStatus)
	assert.Equal(t, "Document blurry", out.LatestRequest.RejectionReason)
}

func TestNewRequestViewWithUsers(t *testing.T) {
	br := domain.Document{Slot: domain.SlotBusinessRegistration, URL: "u3", PublicID: "p3"}
	v := verification.RequestView{
		Request: domain.VerificationRequest{
			ID:                   "r1",
			UserID:               "u1",
			Status:               domain.StatusPending,
			IDDocument:           domain.Document{URL: "u1", PublicID: "p1"},
			ProofOfAddress:       domain.Document{URL: "u2", PublicID: "p2"},
			BusinessRegistration: &br,
		},
		Owner: &domain.UserSummary{ID: "u1", Email: "f@x.io", Role: "founder"},
	}

	out := NewRequestViewWithUsers(v)

	require.NotNil(t, out.Documents.BusinessRegistration)
	assert.Equal(t, "p3", out.Documents.BusinessRegistration.PublicID)
	assert.NotNil(t, out.Documents.AdditionalDocuments)
	require.NotNil(t, out.User)
	assert.Equal(t, "f@x.io", out.User.Email)
	assert.Nil(t, out.Reviewer)
}

func TestJoinWaitlistRequest_Validate(t *testing.T) {
	ok := func() JoinWaitlistRequest {
		return JoinWaitlistRequest{Email: " Ada@X.com ", FirstName: "Ada", LastName: "Obi", Role: "mentor", Reason: "coaching"}
	}

	r := ok()
	require.NoError(t, r.Validate())
	assert.Equal(t, "ada@x.com", r.Email)

	r = ok()
	r.Role = "admin"
	assert.True(t, domain.Is(r.Validate(), "invalid_role"))

	r = ok()
	r.FirstName = strings.Repeat("a", 51)
	err := r.Validate()
	require.True(t, domain.Is(err, "invalid_field"))
	assert.Equal(t, "firstName", metaOf(t, err)["field"])

	r = ok()
	r.Reason = "   "
	err = r.Validate()
	require.True(t, domain.Is(err, "missing_field"))
	assert.Equal(t, "reason", metaOf(t, err)["field"])
}

func TestConnectionRequests_Validate(t *testing.T) {
	c := ConnectionRequest{StartupID: " s1 ", Message: " hi "}
	require.NoError(t, c.Validate())
	assert.Equal(t, "s1", c.StartupID)

	c = ConnectionRequest{StartupID: "s1"}
	assert.True(t, domain.Is(c.Validate(), "missing_field"))

	a := AnswerConnectionRequest{Status: " Accepted "}
	require.NoError(t, a.Validate())
	assert.Equal(t, "accepted", a.Status)

	a = AnswerConnectionRequest{Status: "pending"}
	assert.True(t, domain.Is(a.Validate(), "invalid_connection_status"))
}

func TestNewViewStatsData(t *testing.T) {
	d := NewViewStatsData(domain.PeriodWeek, domain.ViewStats{
		TotalViews: 5, RegisteredViewers: 1, AnonymousViewers: 2,
	})
	assert.Equal(t, "week", d.Period)
	assert.Equal(t, 3, d.UniqueViewers)
	assert.NotNil(t, d.Trend)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"trend":[]`)
}
