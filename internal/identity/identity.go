// Package identity adapts the users table to the session core's need
// for a credential check at login. It is deliberately thin: user
// registration, password changes, and the rest of account management
// belong to the identity service, not to budgetd.
package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/budgetd/internal/handler"
)

// rowQuerier is the slice of pgxpool.Pool the verifier needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres verifies credentials against the users table.
type Postgres struct {
	db rowQuerier
}

// NewPostgres creates a credential verifier on the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool}
}

// Verify resolves an email/password pair to a user id. Unknown emails
// and wrong passwords both map to ErrInvalidCredentials so responses
// cannot be used to probe which accounts exist.
func (p *Postgres) Verify(ctx context.Context, email, password string) (string, error) {
	row := p.db.QueryRow(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`,
		email,
	)

	var (
		id   string
		hash string
	)
	if err := row.Scan(&id, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Burn a comparison so unknown emails take as long as
			// wrong passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", handler.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", handler.ErrInvalidCredentials
		}
		return "", err
	}

	return id, nil
}

var _ handler.CredentialVerifier = (*Postgres)(nil)
