package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"donationtracker/internal/domain"
)

// DefaultCost is the bcrypt cost used for stored user passwords.
const DefaultCost = 12

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher that runs bcrypt over SHA-256(salt+password).
// Pre-hashing keeps the bcrypt input under its 72-byte limit for long passwords.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) GenerateSalt() (string, error) {
	saltBytes := make([]byte, 32)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(saltBytes), nil
}

func (h *bcryptHasher) Hash(salt, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(digest(salt, password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns domain.ErrInvalidCredentials when the password does not match.
func (h *bcryptHasher) Compare(hash, salt, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), digest(salt, password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	return err
}

func digest(salt, password string) []byte {
	sum := sha256.Sum256([]byte(salt + password))
	return []byte(hex.EncodeToString(sum[:]))
}
