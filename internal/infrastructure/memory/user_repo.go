package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.s.users[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	if u.VerificationStatus == "" {
		u.VerificationStatus = domain.StatusNotSubmitted
	}

	r.s.users[u.ID] = u
	r.s.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) PromoteRole(ctx context.Context, userID, from, to string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	switch u.Role {
	case to:
		return u, nil
	case from:
		u.Role = to
		r.s.users[userID] = u
		return u, nil
	default:
		return domain.User{}, domain.ErrRoleChangeNotAllowed(u.Role)
	}
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.s.users, userID)
	delete(r.s.byEmail, u.Email)
	return nil
}

func (r *UserRepo) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []string{}
	for id, u := range r.s.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
