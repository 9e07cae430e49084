package startup

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

var (
	founderRoles  = domain.Roles(domain.RoleFounder, domain.RoleAdmin)
	investorRoles = domain.Roles(domain.RoleInvestor, domain.RoleAdmin)
)

type Service struct {
	startups    StartupRepo
	interests   InterestRepo
	connections ConnectionRepo
	views       ViewRepo
	now         func() time.Time
}

func NewService(startups StartupRepo, interests InterestRepo, connections ConnectionRepo, views ViewRepo) *Service {
	return &Service{
		startups:    startups,
		interests:   interests,
		connections: connections,
		views:       views,
		now:         time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

type ListResult struct {
	Items      []domain.Startup
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// gate runs the role then verification checks for a state-changing action.
func gate(p authz.Principal, roles domain.RoleSet) error {
	if err := authz.RequireRole(p, roles); err != nil {
		return err
	}
	return authz.RequireVerified(p)
}

type CreateInput struct {
	Name        string
	Tagline     string
	Industry    string
	Stage       string
	FundingGoal int64
}

func (s *Service) Create(ctx context.Context, p authz.Principal, in CreateInput) (domain.Startup, error) {
	if err := gate(p, founderRoles); err != nil {
		return domain.Startup{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Startup{}, domain.ErrMissingField("name")
	}
	if in.FundingGoal < 0 {
		return domain.Startup{}, domain.ErrInvalidField("funding_goal", "must not be negative")
	}

	now := s.now().UTC()
	return s.startups.Create(ctx, domain.Startup{
		ID:          uuid.NewString(),
		OwnerID:     p.ID,
		Name:        name,
		Tagline:     strings.TrimSpace(in.Tagline),
		Industry:    strings.TrimSpace(in.Industry),
		Stage:       strings.TrimSpace(in.Stage),
		FundingGoal: in.FundingGoal,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Service) Get(ctx context.Context, id string) (domain.Startup, error) {
	return s.startups.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, industry string, page domain.Page) (ListResult, error) {
	page = page.Normalize()
	items, total, err := s.startups.List(ctx, domain.StartupFilter{Industry: strings.TrimSpace(industry)}, page)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: domain.TotalPages(total, page.Limit),
	}, nil
}

func (s *Service) Update(ctx context.Context, p authz.Principal, id string, patch domain.StartupPatch) (domain.Startup, error) {
	if err := gate(p, founderRoles); err != nil {
		return domain.Startup{}, err
	}

	cur, err := s.startups.GetByID(ctx, id)
	if err != nil {
		return domain.Startup{}, err
	}
	if err := authz.RequireOwnership(p, cur.OwnerID); err != nil {
		return domain.Startup{}, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Startup{}, domain.ErrInvalidField("name", "must not be empty")
	}
	if patch.FundingGoal != nil && *patch.FundingGoal < 0 {
		return domain.Startup{}, domain.ErrInvalidField("funding_goal", "must not be negative")
	}

	next := patch.Apply(cur)
	next.UpdatedAt = s.now().UTC()
	return s.startups.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, p authz.Principal, id string) error {
	if err := gate(p, founderRoles); err != nil {
		return err
	}

	cur, err := s.startups.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnership(p, cur.OwnerID); err != nil {
		return err
	}
	return s.startups.Delete(ctx, id)
}
