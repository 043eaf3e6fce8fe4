package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint
// violations, used to map id/token collisions to ErrConflict.
const uniqueViolation = "23505"

// Postgres is a Store backed by a pgx connection pool. It relies on the
// sessions table created by the bundled migrations: primary key on id,
// UNIQUE constraint on token, index on user_id.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed session store.
// The pool should come from pkg/db.Connect.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Create persists a new session.
// Returns ErrConflict if the id or token already exists.
func (p *Postgres) Create(ctx context.Context, s *Session) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, token, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.UserID, s.Token, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return err
	}

	return nil
}

// GetByToken retrieves a session by its bearer token.
func (p *Postgres) GetByToken(ctx context.Context, token string) (*Session, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, user_id, token, created_at, expires_at
		 FROM sessions
		 WHERE token = $1`,
		token,
	)

	var s Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt, &s.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &s, nil
}

// ListByUser returns all sessions for a user.
func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, token, created_at, expires_at
		 FROM sessions
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt, &s.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}

	return out, rows.Err()
}

// UpdateExpiration advances a session's expiration.
func (p *Postgres) UpdateExpiration(ctx context.Context, id string, expiresAt time.Time) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE sessions SET expires_at = $2 WHERE id = $1`,
		id, expiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a session by id. Idempotent.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteByUser removes all sessions for a user.
func (p *Postgres) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteExpired removes all sessions expired as of now.
func (p *Postgres) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

var _ Store = (*Postgres)(nil)
