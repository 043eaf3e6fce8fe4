package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout, under a configurable prefix (default "session"):
//
//	<prefix>:t:<token> -> JSON session, TTL until expiration
//	<prefix>:i:<id>    -> token, same TTL (administrative lookups)
//	<prefix>:u:<user>  -> set of session ids, no TTL
//
// Value keys expire natively, so expired sessions disappear without a
// sweep; DeleteExpired only prunes stale members from the per-user
// index sets.
const defaultRedisPrefix = "session"

// RedisStore is a Store backed by Redis. The client should come from
// pkg/redis.Open.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures the RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key prefix. Default: "session".
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisStore) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRedis creates a Redis-backed session store.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	r := &RedisStore{
		client: client,
		prefix: defaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *RedisStore) tokenKey(token string) string { return r.prefix + ":t:" + token }
func (r *RedisStore) idKey(id string) string       { return r.prefix + ":i:" + id }
func (r *RedisStore) userKey(userID string) string { return r.prefix + ":u:" + userID }

// Create persists a new session.
// Returns ErrConflict if the id or token already exists.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	// SETNX on both keys closes the race between two concurrent creates
	// with colliding values.
	ok, err := r.client.SetNX(ctx, r.tokenKey(s.Token), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	ok, err = r.client.SetNX(ctx, r.idKey(s.ID), s.Token, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		// Roll back the token key so the collision leaves no orphan.
		_ = r.client.Del(ctx, r.tokenKey(s.Token)).Err()
		return ErrConflict
	}

	return r.client.SAdd(ctx, r.userKey(s.UserID), s.ID).Err()
}

// GetByToken retrieves a session by its bearer token.
func (r *RedisStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// ListByUser returns all live sessions for a user.
func (r *RedisStore) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var out []*Session
	for _, id := range ids {
		s, err := r.getByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // expired underneath the index
			}
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}

// UpdateExpiration advances a session's expiration and the TTL of both
// value keys.
func (r *RedisStore) UpdateExpiration(ctx context.Context, id string, expiresAt time.Time) error {
	s, err := r.getByID(ctx, id)
	if err != nil {
		return err
	}

	s.ExpiresAt = expiresAt
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.tokenKey(s.Token), data, ttl)
	pipe.Set(ctx, r.idKey(s.ID), s.Token, ttl)
	_, err = pipe.Exec(ctx)

	return err
}

// Delete removes a session by id. Idempotent.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	s, err := r.getByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.tokenKey(s.Token))
	pipe.Del(ctx, r.idKey(s.ID))
	pipe.SRem(ctx, r.userKey(s.UserID), s.ID)
	_, err = pipe.Exec(ctx)

	return err
}

// DeleteByUser removes all sessions for a user.
func (r *RedisStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return 0, err
	}

	// Only the ids observed above leave the index. A session created
	// concurrently with the sweep below stays both valid and listed.
	var n int64
	for _, id := range ids {
		s, err := r.getByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Stale index entry: the value keys expired underneath.
				if err := r.client.SRem(ctx, r.userKey(userID), id).Err(); err != nil {
					return n, err
				}
				continue
			}
			return n, err
		}

		pipe := r.client.TxPipeline()
		pipe.Del(ctx, r.tokenKey(s.Token))
		pipe.Del(ctx, r.idKey(s.ID))
		pipe.SRem(ctx, r.userKey(s.UserID), s.ID)
		if _, err := pipe.Exec(ctx); err != nil {
			return n, err
		}
		n++
	}

	return n, nil
}

// DeleteExpired prunes user-index members whose sessions have already
// expired via TTL, and returns the number pruned. Value keys never need
// sweeping: Redis removes them at expiration.
func (r *RedisStore) DeleteExpired(ctx context.Context, _ time.Time) (int64, error) {
	var (
		n      int64
		cursor uint64
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":u:*", 100).Result()
		if err != nil {
			return n, err
		}

		for _, key := range keys {
			ids, err := r.client.SMembers(ctx, key).Result()
			if err != nil {
				return n, err
			}
			for _, id := range ids {
				exists, err := r.client.Exists(ctx, r.idKey(id)).Result()
				if err != nil {
					return n, err
				}
				if exists == 0 {
					if err := r.client.SRem(ctx, key, id).Err(); err != nil {
						return n, err
					}
					n++
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return n, nil
}

// getByID resolves an id to its session through the id index.
func (r *RedisStore) getByID(ctx context.Context, id string) (*Session, error) {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return r.GetByToken(ctx, token)
}

var _ Store = (*RedisStore)(nil)
