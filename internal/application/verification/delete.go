package verification

import (
	"context"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// Delete removes a request, then its stored documents. Document failures are
// logged and do not fail the call.
func (s *Service) Delete(ctx context.Context, actor authz.Principal, requestID string) error {
	audit := s.auditFn("verification.delete", map[string]string{
		"actor_id":   actor.ID,
		"request_id": requestID,
	})

	if !actor.IsAdmin() {
		err := domain.ErrNotAuthorized()
		audit("error", err, nil)
		return err
	}

	removed, err := s.requests.Delete(ctx, requestID)
	if err != nil {
		audit("error", err, nil)
		return err
	}

	if removed.Status == domain.StatusPending {
		s.invalidate(ctx, removed.UserID)
	}
	s.deleteDocuments(ctx, removed.Documents())

	audit("success", nil, map[string]string{
		"user_id": removed.UserID,
		"status":  string(removed.Status),
	})
	return nil
}

// PurgeUser removes every request of a user along with their documents.
// Used by the admin user delete cascade.
func (s *Service) PurgeUser(ctx context.Context, userID string) error {
	removed, err := s.requests.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, r := range removed {
		s.deleteDocuments(ctx, r.Documents())
	}

	s.audit("verification.purge_user", map[string]string{
		"user_id":  userID,
		"requests": strconv.Itoa(len(removed)),
		"result":   "success",
	})
	return nil
}
