package memory

import (
	"context"
	"sort"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type VerificationRepo struct {
	s *Store
}

func (r *VerificationRepo) CreatePending(ctx context.Context, req domain.VerificationRequest) (domain.VerificationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[req.UserID]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrUserNotFound()
	}
	if u.RoleVerified {
		return domain.VerificationRequest{}, domain.ErrAlreadyVerified()
	}
	for _, cur := range r.s.requests {
		if cur.UserID == req.UserID && cur.Status == domain.StatusPending {
			return domain.VerificationRequest{}, domain.ErrSubmissionInProgress()
		}
	}

	req.Status = domain.StatusPending
	r.s.requests[req.ID] = req

	u.VerificationStatus = domain.StatusPending
	u.VerificationRejectionReason = ""
	r.s.users[u.ID] = u
	return req, nil
}

func (r *VerificationRepo) Transition(ctx context.Context, t domain.Transition) (domain.VerificationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[t.RequestID]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrRequestNotFound()
	}
	if req.Status != domain.StatusPending {
		return domain.VerificationRequest{}, domain.ErrRequestNotPending(req.Status)
	}

	reviewedAt := t.ReviewedAt
	req.Status = t.Decision.Status()
	req.ReviewedAt = &reviewedAt
	req.ReviewedBy = t.ReviewerID
	req.RejectionReason = t.RejectionReason
	req.Notes = t.Notes
	r.s.requests[req.ID] = req

	if u, ok := r.s.users[req.UserID]; ok {
		u.RoleVerified = t.Decision == domain.DecisionApproved
		u.VerificationStatus = req.Status
		u.VerificationRejectionReason = t.RejectionReason
		r.s.users[u.ID] = u
	}
	return req, nil
}

func (r *VerificationRepo) GetByID(ctx context.Context, id string) (domain.VerificationRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrRequestNotFound()
	}
	return req, nil
}

func (r *VerificationRepo) LatestForUser(ctx context.Context, userID string) (domain.VerificationRequest, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var (
		latest domain.VerificationRequest
		found  bool
	)
	for _, req := range r.s.requests {
		if req.UserID != userID {
			continue
		}
		if !found || req.SubmittedAt.After(latest.SubmittedAt) {
			latest, found = req, true
		}
	}
	return latest, found, nil
}

func (r *VerificationRepo) List(ctx context.Context, f domain.RequestFilter, p domain.Page) ([]domain.VerificationRequest, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var allowed map[string]struct{}
	if f.UserIDs != nil {
		allowed = make(map[string]struct{}, len(f.UserIDs))
		for _, id := range f.UserIDs {
			allowed[id] = struct{}{}
		}
	}

	matched := make([]domain.VerificationRequest, 0)
	for _, req := range r.s.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[req.UserID]; !ok {
				continue
			}
		}
		matched = append(matched, req)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SubmittedAt.Equal(matched[j].SubmittedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})

	total := len(matched)
	p = p.Normalize()
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return matched[start:end], total, nil
}

func (r *VerificationRepo) Delete(ctx context.Context, id string) (domain.VerificationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrRequestNotFound()
	}
	if req.Status == domain.StatusApproved {
		return domain.VerificationRequest{}, domain.ErrApprovedRequestLocked()
	}
	delete(r.s.requests, id)

	if req.Status == domain.StatusPending {
		if u, ok := r.s.users[req.UserID]; ok && u.VerificationStatus == domain.StatusPending {
			u.VerificationStatus, u.VerificationRejectionReason = domain.StateAfterWithdrawal(r.latestLocked(req.UserID))
			r.s.users[u.ID] = u
		}
	}
	return req, nil
}

// latestLocked expects r.s.mu to be held.
func (r *VerificationRepo) latestLocked(userID string) *domain.VerificationRequest {
	var latest *domain.VerificationRequest
	for _, req := range r.s.requests {
		if req.UserID != userID {
			continue
		}
		if latest == nil || req.SubmittedAt.After(latest.SubmittedAt) ||
			(req.SubmittedAt.Equal(latest.SubmittedAt) && req.ID > latest.ID) {
			cur := req
			latest = &cur
		}
	}
	return latest
}

func (r *VerificationRepo) DeleteByUser(ctx context.Context, userID string) ([]domain.VerificationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed []domain.VerificationRequest
	for id, req := range r.s.requests {
		if req.UserID == userID {
			removed = append(removed, req)
			delete(r.s.requests, id)
		}
	}
	return removed, nil
}
