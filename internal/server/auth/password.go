package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used in production (2^12 rounds).
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies plain-text passwords.
type PasswordHasher interface {
	// Hash returns a salted one-way hash. Two calls with the same input
	// produce different outputs.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A malformed hash
	// yields false.
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost; zero means
// DefaultBcryptCost. Tests pass bcrypt.MinCost to stay fast.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify recomputes with the salt embedded in hash; the final comparison
// is constant time.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Cost reports the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
