package verification

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type ReviewInput struct {
	RequestID       string
	Decision        string
	RejectionReason string
	Notes           string
}

// Review applies an admin decision to a pending request. Non-admins are turned
// away before the input is looked at. The state change is a conditional
// transition so concurrent reviews of one request cannot both win.
func (s *Service) Review(ctx context.Context, actor authz.Principal, in ReviewInput) (domain.VerificationRequest, error) {
	audit := s.auditFn("verification.review", map[string]string{
		"actor_id":   actor.ID,
		"actor_role": actor.Role,
		"request_id": in.RequestID,
		"decision":   in.Decision,
	})

	if !actor.IsAdmin() {
		err := domain.ErrNotAuthorized()
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	decision := domain.Decision(strings.TrimSpace(in.Decision))
	if !decision.Valid() {
		err := domain.ErrInvalidDecision(in.Decision)
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}
	reason := domain.NormalizeReason(in.RejectionReason)
	if decision == domain.DecisionRejected && reason == "" {
		err := domain.ErrMissingRejectionReason()
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}
	if decision == domain.DecisionApproved {
		reason = ""
	}

	if strings.TrimSpace(in.RequestID) == "" {
		err := domain.ErrRequestNotFound()
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	updated, err := s.requests.Transition(ctx, domain.Transition{
		RequestID:       in.RequestID,
		ReviewerID:      actor.ID,
		Decision:        decision,
		RejectionReason: reason,
		Notes:           strings.TrimSpace(in.Notes),
		ReviewedAt:      s.now().UTC(),
	})
	if err != nil {
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	s.invalidate(ctx, updated.UserID)
	s.notifyOwner(ctx, updated)

	audit("success", nil, map[string]string{"user_id": updated.UserID})
	return updated, nil
}

func (s *Service) notifyOwner(ctx context.Context, r domain.VerificationRequest) {
	owner, err := s.users.GetByID(ctx, r.UserID)
	if err != nil {
		return
	}

	n := domain.Notification{
		Recipient: owner.Email,
		Context: map[string]string{
			"name":       owner.FirstName,
			"role":       owner.Role,
			"request_id": r.ID,
		},
	}
	switch r.Status {
	case domain.StatusApproved:
		n.Template = domain.TemplateVerificationApproved
		n.Context["subject"] = "Your account has been verified"
	case domain.StatusRejected:
		n.Template = domain.TemplateVerificationRejected
		n.Context["subject"] = "Your verification request was not approved"
		n.Context["reason"] = r.RejectionReason
	default:
		return
	}
	s.notify(ctx, n)
}
