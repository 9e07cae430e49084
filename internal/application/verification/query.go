package verification

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// Status reports the caller's verification flags and their latest request.
func (s *Service) Status(ctx context.Context, userID string) (StatusResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return StatusResult{}, err
	}

	latest, ok, err := s.requests.LatestForUser(ctx, userID)
	if err != nil {
		return StatusResult{}, err
	}

	st := u.State()
	res := StatusResult{
		RoleVerified:       st.RoleVerified,
		VerificationStatus: st.VerificationStatus,
	}
	if ok {
		res.Latest = &latest
	}
	return res, nil
}

// List returns requests for the admin queue, newest first.
func (s *Service) List(ctx context.Context, actor authz.Principal, status, role string, page domain.Page) (ListResult, error) {
	if !actor.IsAdmin() {
		return ListResult{}, domain.ErrNotAuthorized()
	}

	f := domain.RequestFilter{}
	if status != "" {
		if !domain.IsRequestStatus(status) {
			return ListResult{}, domain.ErrInvalidField("status", "must be pending, approved or rejected")
		}
		f.Status = domain.VerificationStatus(status)
	}
	if role != "" {
		if !domain.IsValidRole(role) {
			return ListResult{}, domain.ErrInvalidRole(role)
		}
		ids, err := s.users.ListIDsByRole(ctx, role)
		if err != nil {
			return ListResult{}, err
		}
		if ids == nil {
			ids = []string{}
		}
		f.Role = role
		f.UserIDs = ids
	}

	page = page.Normalize()
	items, total, err := s.requests.List(ctx, f, page)
	if err != nil {
		return ListResult{}, err
	}

	views := make([]RequestView, 0, len(items))
	for _, r := range items {
		views = append(views, s.view(ctx, r))
	}

	return ListResult{
		Items:      views,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: domain.TotalPages(total, page.Limit),
	}, nil
}

// Get returns one request to its owner or an admin.
func (s *Service) Get(ctx context.Context, actor authz.Principal, requestID string) (RequestView, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return RequestView{}, err
	}
	if !actor.IsAdmin() && actor.ID != r.UserID {
		return RequestView{}, domain.ErrForbidden()
	}
	return s.view(ctx, r), nil
}
