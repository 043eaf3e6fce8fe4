package identity

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/budgetd/internal/handler"
)

// dummyHash is a valid bcrypt hash of an unguessable value, compared
// against when the email is unknown to keep timing uniform.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// StaticUser is one configured account for database-less deployments.
type StaticUser struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

// Static verifies credentials against a fixed set of users from the
// configuration file. Development and demo setups only.
type Static struct {
	byEmail map[string]StaticUser
}

// NewStatic creates a verifier over the given users.
func NewStatic(users []StaticUser) *Static {
	byEmail := make(map[string]StaticUser, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return &Static{byEmail: byEmail}
}

// Verify resolves an email/password pair to a user id.
func (s *Static) Verify(_ context.Context, email, password string) (string, error) {
	u, ok := s.byEmail[email]
	if !ok {
		// Burn a comparison anyway so unknown emails take as long as
		// wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", handler.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", handler.ErrInvalidCredentials
	}

	return u.ID, nil
}

var _ handler.CredentialVerifier = (*Static)(nil)
