package memory

import (
	"sync"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// Store holds users and verification requests behind one lock so the
// cross-entity checks in submit and review are atomic.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	byEmail  map[string]string // email -> userID
	requests map[string]domain.VerificationRequest
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		byEmail:  make(map[string]string),
		requests: make(map[string]domain.VerificationRequest),
	}
}

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (s *Store) Verifications() *VerificationRepo { return &VerificationRepo{s: s} }
