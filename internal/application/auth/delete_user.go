package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// DeleteUser removes a user and everything verification stored for them.
func (s *Service) DeleteUser(ctx context.Context, actorID, actorRole, targetID string) error {
	const action = "admin.delete_user"

	targetID = strings.TrimSpace(targetID)
	audit := func(result string, err error) {
		fields := map[string]string{
			"actor_id":   actorID,
			"actor_role": actorRole,
			"target_id":  targetID,
			"result":     result,
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		s.audit(action, fields)
	}

	if actorRole != string(domain.RoleAdmin) {
		err := domain.ErrInsufficientRole(string(domain.RoleAdmin))
		audit("error", err)
		return err
	}
	if targetID == "" {
		err := domain.ErrMissingField("id")
		audit("error", err)
		return err
	}
	if actorID == targetID {
		err := domain.ErrCannotAffectSelf()
		audit("error", err)
		return err
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		audit("error", err)
		return err
	}

	if s.purger != nil {
		if err := s.purger.PurgeUser(ctx, targetID); err != nil {
			audit("error", err)
			return err
		}
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		audit("error", err)
		return err
	}
	s.invalidate(ctx, targetID)

	audit("success", nil)
	return nil
}
