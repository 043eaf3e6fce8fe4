// Package session implements server-side session management for the
// budgeting application: issuance, validation, expiration, and
// revocation of opaque bearer tokens bound to user identities.
//
// The package is split into three pieces:
//
//   - Session: an immutable record binding a bearer token to a user id
//     for a bounded time window. Only the expiration advances after
//     creation, and only through the store.
//   - Store: the persistence contract with in-memory, PostgreSQL, and
//     Redis implementations.
//   - Manager: the one component with business logic. It orchestrates
//     token generation, persistence, expiration policy (sliding by
//     default, fixed-window by option), and revocation.
//
// User identity is an opaque foreign key here: the manager never checks
// that a user exists. Credential verification and user management are
// the caller's concern.
//
// # Usage
//
//	store := session.NewPostgres(pool)
//	mgr := session.NewManager(store, token.NewCrypto(),
//	    session.WithTTL(14*24*time.Hour),
//	)
//
//	tok, err := mgr.Issue(ctx, userID)     // login
//	userID, err := mgr.Validate(ctx, tok)  // authenticated request
//	err = mgr.Revoke(ctx, tok)             // logout
package session
