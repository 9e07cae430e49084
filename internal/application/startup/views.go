package startup

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// ViewInput describes a page visit. ViewerID is empty when the visitor is
// not signed in.
type ViewInput struct {
	ViewerID  string
	IP        string
	UserAgent string
}

// RecordView counts a visit to a startup page. It reports false when the
// visit was not counted: the owner looking at their own page, an anonymous
// visit with no address, or a repeat inside the dedup window.
func (s *Service) RecordView(ctx context.Context, startupID string, in ViewInput) (bool, error) {
	st, err := s.startups.GetByID(ctx, startupID)
	if err != nil {
		return false, err
	}

	v := domain.ProfileView{
		ID:        uuid.NewString(),
		StartupID: st.ID,
		ViewerID:  strings.TrimSpace(in.ViewerID),
		IP:        strings.TrimSpace(in.IP),
		UserAgent: strings.TrimSpace(in.UserAgent),
		CreatedAt: s.now().UTC(),
	}
	if v.ViewerID != "" && v.ViewerID == st.OwnerID {
		return false, nil
	}
	if v.ViewerID == "" && v.IP == "" {
		return false, nil
	}
	return s.views.Record(ctx, v, v.DedupWindow())
}

// StartupViewStats is visible to the startup owner and admins.
func (s *Service) StartupViewStats(ctx context.Context, p authz.Principal, startupID string, period domain.ViewPeriod) (domain.ViewStats, error) {
	st, err := s.startups.GetByID(ctx, startupID)
	if err != nil {
		return domain.ViewStats{}, err
	}
	if err := authz.RequireOwnership(p, st.OwnerID); err != nil {
		return domain.ViewStats{}, err
	}

	now := s.now()
	return s.views.Stats(ctx, startupID, period.Since(now), period.TrendSince(now))
}

// OwnerViewSummary lists view counts for every startup the caller owns. An
// owner with no startups gets an empty list.
func (s *Service) OwnerViewSummary(ctx context.Context, p authz.Principal) ([]domain.StartupViewSummary, error) {
	if err := authz.RequireRole(p, founderRoles); err != nil {
		return nil, err
	}
	out, err := s.views.OwnerSummary(ctx, p.ID, s.now().UTC().Add(-domain.RecentViewWindow))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.StartupViewSummary{}
	}
	return out, nil
}
