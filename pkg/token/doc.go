// Package token generates opaque identifiers and bearer tokens for
// session management.
//
// Two kinds of values are produced: short random identifiers suitable
// as primary keys, and long high-entropy bearer strings presented by
// clients as credentials. Both come from crypto/rand; the only failure
// mode is an entropy-source failure, which callers should treat as
// fatal.
//
// The Generator interface exists so services can accept a deterministic
// implementation in tests instead of reaching for package-level
// randomness.
package token
