package password

import (
	"fmt"

	"github.com/go-verify-reset/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Hasher wraps bcrypt so the verification service depends on a one-way hash
// and a constant-time comparator, not on a specific algorithm.
type Hasher struct {
	cost int
}

func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// Hash returns the one-way hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %v: %w", err, domain.ErrInternal)
	}
	return string(out), nil
}

// Compare checks plaintext against hash. A mismatch returns
// domain.ErrCredentialMismatch.
func (h *Hasher) Compare(plaintext, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return fmt.Errorf("compare password: %w", domain.ErrCredentialMismatch)
	}
	return nil
}
