package security

import (
	"errors"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// bcrypt ignores or refuses anything past this many bytes.
const maxPasswordBytes = 72

// BcryptHasher stores account passwords. A non-positive cost means bcrypt's
// default; an out-of-range one surfaces as hash_failed on first use.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", domain.ErrWeakPassword("must be at most " + strconv.Itoa(maxPasswordBytes) + " bytes")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Compare gives invalid_credentials on a mismatch and hash_failed when the
// stored hash itself is unusable.
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.ErrInvalidCredentials()
	default:
		return domain.ErrHashFailed(err)
	}
}
