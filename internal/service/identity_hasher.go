package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"stockchecker/internal/domain"
)

// BcryptIdentityHasher hashes client addresses with bcrypt. Each digest
// carries its own salt, so equal inputs produce different tokens and the
// stored value cannot be reversed or matched by equality.
type BcryptIdentityHasher struct {
	cost int
}

// NewBcryptIdentityHasher creates a hasher with the default bcrypt cost
func NewBcryptIdentityHasher() domain.IdentityHasher {
	return &BcryptIdentityHasher{cost: bcrypt.DefaultCost}
}

// Hash produces a salted one-way digest of the raw identity
func (h *BcryptIdentityHasher) Hash(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash identity: %w", err)
	}
	return string(digest), nil
}

// Matches verifies a raw identity against a stored token without reversing it
func (h *BcryptIdentityHasher) Matches(raw, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(token), []byte(raw)) == nil
}
