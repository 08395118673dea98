package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

// MaxPasswordBytes is the longest password bcrypt takes into account. Hash
// refuses longer input and Verify never matches it.
const MaxPasswordBytes = 72

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	// Hash returns a salted hash; two calls with the same password differ.
	Hash(password string) (string, error)

	// Verify returns (true, nil) on match and (false, nil) on mismatch.
	// An error means the stored hash itself is unusable.
	Verify(password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using BcryptCost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: BcryptCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.NewValidationError("password is too long")
		}
		return "", fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	// bcrypt reads only the first 72 bytes. Longer input never matches but
	// still pays for one comparison.
	tooLong := len(password) > MaxPasswordBytes
	if tooLong {
		password = password[:MaxPasswordBytes]
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return !tooLong, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: malformed password hash: %v", common.ErrorInternal, err)
	}
}

// DummyHash is a valid hash of a throwaway password. Login verifies against
// it when the email is unknown so both failure paths cost one bcrypt round.
var DummyHash = sync.OnceValue(func() string {
	b, err := bcrypt.GenerateFromPassword([]byte("healthkeeper/timing-equalizer"), BcryptCost)
	if err != nil {
		panic(err)
	}
	return string(b)
})
