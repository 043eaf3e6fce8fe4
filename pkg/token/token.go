package token

import (
	"crypto/rand"
	"errors"

	"github.com/google/uuid"
)

// Alphabet for bearer tokens. Alphanumeric only, so tokens survive
// headers, cookies, and URLs without escaping.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generator produces identifiers and bearer tokens.
type Generator interface {
	// NewID returns a unique identifier suitable as a primary key.
	NewID() string

	// NewToken returns a cryptographically secure random string of
	// exactly length characters drawn from a fixed alphabet.
	NewToken(length int) (string, error)
}

// Crypto is the production Generator backed by crypto/rand.
// The zero value is ready to use.
type Crypto struct{}

// NewCrypto returns a Generator backed by the system entropy source.
func NewCrypto() Crypto {
	return Crypto{}
}

// NewID returns a random UUIDv4 string.
func (Crypto) NewID() string {
	return uuid.NewString()
}

// NewToken returns a random string of the given length over the token
// alphabet. Sampling uses rejection to avoid modulo bias, so every
// character is uniformly distributed.
func (Crypto) NewToken(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}

	// Largest multiple of len(alphabet) below 256; bytes at or above
	// this threshold are rejected to keep the distribution uniform.
	const limit = byte(256 - (256 % len(alphabet)))

	out := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Join(ErrEntropyFailure, err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

var _ Generator = Crypto{}
