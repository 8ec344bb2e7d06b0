// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"

	"github.com/andrasnagy-data/credentials/internal/shared/config"
	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

var (
	ErrMismatch = errors.New("password does not match hash")
	ErrTooLong  = errors.New("password exceeds 72 bytes")
)

type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// NewHasherFromConfig uses the configured BCRYPT_COST.
func NewHasherFromConfig(cfg *config.Config) *Hasher {
	return NewHasher(cfg.BcryptCost)
}

// Hash returns a salted bcrypt hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports ErrMismatch when plain does not produce hash. Any other error
// means the stored hash itself is unusable.
func (h *Hasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
