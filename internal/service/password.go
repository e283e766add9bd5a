package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// VerifyResult is the tri-state outcome of a password check. Malformed
// stored digests are reported as their own state instead of an error so
// login callers can treat them as a plain non-match.
type VerifyResult int

const (
	VerifyMatch VerifyResult = iota
	VerifyMismatch
	VerifyMalformed
)

// PasswordHasher wraps bcrypt with a configured cost. The cost is
// embedded in each digest, so retuning it never invalidates digests
// hashed under the old cost.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted one-way digest. bcrypt generates a fresh
// random salt per call.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify never returns an error: bcrypt's comparison is constant-time
// for well-formed digests, and anything it cannot parse is simply not a
// match.
func (h *PasswordHasher) Verify(plaintext, digest string) VerifyResult {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return VerifyMatch
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return VerifyMismatch
	default:
		return VerifyMalformed
	}
}
