package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

func seededStore(t *testing.T) (*Store, *UserRepo, *VerificationRepo) {
	t.Helper()
	s := NewStore()
	users := s.Users()
	for _, u := range []domain.User{
		{ID: "f1", Email: "f1@x.com", Role: "founder"},
		{ID: "i1", Email: "i1@x.com", Role: "investor"},
		{ID: "a1", Email: "a1@x.com", Role: "admin"},
	} {
		_, err := users.Create(context.Background(), u)
		require.NoError(t, err)
	}
	return s, users, s.Verifications()
}

func pendingReq(id, userID string, at time.Time) domain.VerificationRequest {
	return domain.VerificationRequest{ID: id, UserID: userID, SubmittedAt: at}
}

func TestCreatePending_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	_, users, repo := seededStore(t)

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreatePending(context.Background(), pendingReq(fmt.Sprintf("r%d", i), "f1", time.Now()))
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.True(t, domain.Is(err, "submission_in_progress"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	u, _ := users.GetByID(context.Background(), "f1")
	assert.Equal(t, domain.StatusPending, u.VerificationStatus)
}

func TestTransition_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	_, users, repo := seededStore(t)
	_, err := repo.CreatePending(context.Background(), pendingReq("r1", "i1", time.Now()))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []domain.Decision
	)
	for _, d := range []domain.Decision{domain.DecisionApproved, domain.DecisionRejected, domain.DecisionApproved} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reason := ""
			if d == domain.DecisionRejected {
				reason = "bad scan"
			}
			_, err := repo.Transition(context.Background(), domain.Transition{
				RequestID: "r1", ReviewerID: "a1", Decision: d, RejectionReason: reason, ReviewedAt: time.Now(),
			})
			if err == nil {
				mu.Lock()
				wins = append(wins, d)
				mu.Unlock()
				return
			}
			assert.True(t, domain.Is(err, "request_not_pending"))
		}()
	}
	wg.Wait()

	require.Len(t, wins, 1)
	u, _ := users.GetByID(context.Background(), "i1")
	assert.Equal(t, wins[0].Status(), u.VerificationStatus)
	assert.Equal(t, wins[0] == domain.DecisionApproved, u.RoleVerified)
}

func TestCreatePending_AlreadyVerified(t *testing.T) {
	t.Parallel()

	_, _, repo := seededStore(t)
	_, err := repo.CreatePending(context.Background(), pendingReq("r1", "f1", time.Now()))
	require.NoError(t, err)
	_, err = repo.Transition(context.Background(), domain.Transition{RequestID: "r1", ReviewerID: "a1", Decision: domain.DecisionApproved, ReviewedAt: time.Now()})
	require.NoError(t, err)

	_, err = repo.CreatePending(context.Background(), pendingReq("r2", "f1", time.Now()))
	assert.True(t, domain.Is(err, "already_verified"))
}

func TestTransition_NotFound(t *testing.T) {
	t.Parallel()

	_, _, repo := seededStore(t)
	_, err := repo.Transition(context.Background(), domain.Transition{RequestID: "nope", Decision: domain.DecisionApproved})
	assert.True(t, domain.Is(err, "request_not_found"))
}

func TestList_FilterSortPage(t *testing.T) {
	t.Parallel()

	_, _, repo := seededStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	_, _ = repo.CreatePending(ctx, pendingReq("r1", "f1", base))
	_, _ = repo.Transition(ctx, domain.Transition{RequestID: "r1", Decision: domain.DecisionRejected, RejectionReason: "x", ReviewedAt: base})
	_, _ = repo.CreatePending(ctx, pendingReq("r2", "f1", base.Add(time.Hour)))
	_, _ = repo.CreatePending(ctx, pendingReq("r3", "i1", base.Add(2*time.Hour)))

	all, total, err := repo.List(ctx, domain.RequestFilter{}, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"r3", "r2", "r1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending, total, _ := repo.List(ctx, domain.RequestFilter{Status: domain.StatusPending}, domain.Page{})
	assert.Equal(t, 2, total)
	assert.Len(t, pending, 2)

	founders, total, _ := repo.List(ctx, domain.RequestFilter{UserIDs: []string{"f1"}}, domain.Page{})
	assert.Equal(t, 2, total)
	assert.Equal(t, "r2", founders[0].ID)

	none, total, _ := repo.List(ctx, domain.RequestFilter{UserIDs: []string{}}, domain.Page{})
	assert.Equal(t, 0, total)
	assert.Empty(t, none)

	page2, total, _ := repo.List(ctx, domain.RequestFilter{}, domain.Page{Page: 2, Limit: 2})
	assert.Equal(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, "r1", page2[0].ID)

	latest, ok, _ := repo.LatestForUser(ctx, "f1")
	require.True(t, ok)
	assert.Equal(t, "r2", latest.ID)
}

func TestDelete_PendingResetsUser(t *testing.T) {
	t.Parallel()

	_, users, repo := seededStore(t)
	ctx := context.Background()
	_, err := repo.CreatePending(ctx, pendingReq("r1", "i1", time.Now()))
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", removed.ID)

	u, _ := users.GetByID(ctx, "i1")
	assert.Equal(t, domain.StatusNotSubmitted, u.VerificationStatus)

	_, err = repo.Delete(ctx, "r1")
	assert.True(t, domain.Is(err, "request_not_found"))
}

func TestDelete_ApprovedRefused(t *testing.T) {
	t.Parallel()

	_, users, repo := seededStore(t)
	ctx := context.Background()
	_, err := repo.CreatePending(ctx, pendingReq("r1", "i1", time.Now()))
	require.NoError(t, err)
	_, err = repo.Transition(ctx, domain.Transition{RequestID: "r1", ReviewerID: "a1", Decision: domain.DecisionApproved, ReviewedAt: time.Now()})
	require.NoError(t, err)

	_, err = repo.Delete(ctx, "r1")
	assert.True(t, domain.Is(err, "approved_request_locked"))

	_, err = repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	u, _ := users.GetByID(ctx, "i1")
	assert.True(t, u.RoleVerified)
	assert.Equal(t, domain.StatusApproved, u.VerificationStatus)
}

func TestDelete_PendingRestoresLatestRejection(t *testing.T) {
	t.Parallel()

	_, users, repo := seededStore(t)
	ctx := context.Background()
	t0 := time.Now().Add(-time.Hour)

	_, err := repo.CreatePending(ctx, pendingReq("r1", "f1", t0))
	require.NoError(t, err)
	_, err = repo.Transition(ctx, domain.Transition{RequestID: "r1", ReviewerID: "a1", Decision: domain.DecisionRejected, RejectionReason: "Document blurry", ReviewedAt: t0})
	require.NoError(t, err)
	_, err = repo.CreatePending(ctx, pendingReq("r2", "f1", t0.Add(time.Minute)))
	require.NoError(t, err)

	_, err = repo.Delete(ctx, "r2")
	require.NoError(t, err)

	u, _ := users.GetByID(ctx, "f1")
	assert.Equal(t, domain.StatusRejected, u.VerificationStatus)
	assert.Equal(t, "Document blurry", u.VerificationRejectionReason)
}

func TestDeleteByUser(t *testing.T) {
	t.Parallel()

	_, _, repo := seededStore(t)
	ctx := context.Background()
	_, _ = repo.CreatePending(ctx, pendingReq("r1", "i1", time.Now()))
	_, _ = repo.CreatePending(ctx, pendingReq("r2", "f1", time.Now()))

	removed, err := repo.DeleteByUser(ctx, "i1")
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	_, total, _ := repo.List(ctx, domain.RequestFilter{}, domain.Page{})
	assert.Equal(t, 1, total)
}
