package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// CreateProfile promotes a plain user to founder or investor. Repeating the
// call with the current role is a no-op; switching between marketplace roles
// is refused. Verification fields are left alone.
func (s *Service) CreateProfile(ctx context.Context, userID, role string) (domain.User, error) {
	const action = "user.create_profile"

	role = strings.TrimSpace(role)
	audit := func(result string, err error) {
		fields := map[string]string{"user_id": userID, "role": role, "result": result}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		s.audit(action, fields)
	}

	if role != string(domain.RoleFounder) && role != string(domain.RoleInvestor) {
		err := domain.ErrInvalidRole(role)
		audit("error", err)
		return domain.User{}, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		audit("error", err)
		return domain.User{}, err
	}

	switch u.Role {
	case role:
		return u, nil
	case string(domain.RoleUser):
	default:
		err := domain.ErrRoleChangeNotAllowed(u.Role)
		audit("error", err)
		return domain.User{}, err
	}

	// the read above is advisory; the conditional write decides races
	u, err = s.users.PromoteRole(ctx, userID, string(domain.RoleUser), role)
	if err != nil {
		audit("error", err)
		return domain.User{}, err
	}
	s.invalidate(ctx, userID)

	audit("success", nil)
	return u, nil
}
