// Package waitlist runs the pre-launch signup list: public joins, admin
// approval with an invitation mail, and CSV export.
package waitlist

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

type Config struct {
	// RegisterURL is the signup page invitations link to; the entry's email
	// is appended as ?email=.
	RegisterURL string
}

type Service struct {
	repo        Repo
	notifier    Notifier
	registerURL string
	now         func() time.Time
	audit       func(action string, fields map[string]string)
}

func NewService(repo Repo, notifier Notifier, cfg Config) *Service {
	return &Service{
		repo:        repo,
		notifier:    notifier,
		registerURL: strings.TrimSpace(cfg.RegisterURL),
		now:         time.Now,
		audit:       func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

type JoinInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	Reason    string
}

// Join is public. The confirmation mail is best effort.
func (s *Service) Join(ctx context.Context, in JoinInput) (domain.WaitlistEntry, error) {
	e := domain.WaitlistEntry{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      strings.TrimSpace(in.Role),
		Reason:    strings.TrimSpace(in.Reason),
		Status:    domain.WaitlistPending,
		CreatedAt: s.now().UTC(),
	}
	switch {
	case e.Email == "":
		return domain.WaitlistEntry{}, domain.ErrMissingField("email")
	case e.FirstName == "":
		return domain.WaitlistEntry{}, domain.ErrMissingField("firstName")
	case e.LastName == "":
		return domain.WaitlistEntry{}, domain.ErrMissingField("lastName")
	case e.Reason == "":
		return domain.WaitlistEntry{}, domain.ErrMissingField("reason")
	case !domain.IsWaitlistRole(e.Role):
		return domain.WaitlistEntry{}, domain.ErrInvalidRole(e.Role)
	}

	out, err := s.repo.Create(ctx, e)
	if err != nil {
		s.audit("waitlist.join", map[string]string{"email": e.Email, "result": "error", "error_code": domain.CodeOf(err)})
		return domain.WaitlistEntry{}, err
	}
	s.audit("waitlist.join", map[string]string{"entry_id": out.ID, "email": out.Email, "role": out.Role, "result": "success"})

	s.notify(ctx, domain.Notification{
		Template:  domain.TemplateWaitlistConfirmation,
		Recipient: out.Email,
		Context:   map[string]string{"name": out.FirstName},
	})
	return out, nil
}

type ListResult struct {
	Items      []domain.WaitlistEntry
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

func (s *Service) List(ctx context.Context, actor authz.Principal, page domain.Page) (ListResult, error) {
	if !actor.IsAdmin() {
		return ListResult{}, domain.ErrNotAuthorized()
	}
	page = page.Normalize()
	items, total, err := s.repo.List(ctx, page)
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

type ApproveResult struct {
	Entry      domain.WaitlistEntry
	InviteSent bool
}

// Approve marks the entry approved and mails a registration link. Approving
// an approved entry sends the invitation again. A failed mail leaves the
// approval in place and is reported through InviteSent.
func (s *Service) Approve(ctx context.Context, actor authz.Principal, id string) (ApproveResult, error) {
	if !actor.IsAdmin() {
		return ApproveResult{}, domain.ErrNotAuthorized()
	}

	e, err := s.repo.Approve(ctx, domain.Approval{
		EntryID:    id,
		ApprovedBy: actor.ID,
		ApprovedAt: s.now().UTC(),
	})
	if err != nil {
		s.audit("waitlist.approve", map[string]string{"actor_id": actor.ID, "entry_id": id, "result": "error", "error_code": domain.CodeOf(err)})
		return ApproveResult{}, err
	}

	sent := s.notify(ctx, domain.Notification{
		Template:  domain.TemplateWaitlistApproval,
		Recipient: e.Email,
		Context: map[string]string{
			"name": e.FirstName,
			"link": s.inviteLink(e.Email),
		},
	})
	s.audit("waitlist.approve", map[string]string{
		"actor_id":    actor.ID,
		"entry_id":    e.ID,
		"email":       e.Email,
		"invite_sent": strconv.FormatBool(sent),
		"result":      "success",
	})
	return ApproveResult{Entry: e, InviteSent: sent}, nil
}

func (s *Service) Delete(ctx context.Context, actor authz.Principal, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrNotAuthorized()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit("waitlist.delete", map[string]string{"actor_id": actor.ID, "entry_id": id, "result": "success"})
	return nil
}

// Export returns every entry, newest first.
func (s *Service) Export(ctx context.Context, actor authz.Principal) ([]domain.WaitlistEntry, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrNotAuthorized()
	}
	return s.repo.All(ctx)
}

func (s *Service) inviteLink(email string) string {
	if s.registerURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(s.registerURL, "?") {
		sep = "&"
	}
	return s.registerURL + sep + "email=" + url.QueryEscape(email)
}

func (s *Service) notify(ctx context.Context, n domain.Notification) bool {
	if s.notifier == nil || n.Recipient == "" {
		return false
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("template", n.Template).
			Msg("waitlist notification failed")
		return false
	}
	return true
}
