package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/authsvc/domain"
)

// PasswordServiceImpl implements domain.PasswordHasher using bcrypt
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password hasher with the default bcrypt cost
func NewPasswordService() domain.PasswordHasher {
	return &PasswordServiceImpl{
		cost: bcrypt.DefaultCost,
	}
}

// Hash implements domain.PasswordHasher. bcrypt embeds a fresh random salt,
// so hashing the same password twice yields different stored values.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordHasher. It fails closed: a malformed
// stored hash is reported as a mismatch, never as an error.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
