package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/budgetd/pkg/token"
)

func TestCrypto_NewID(t *testing.T) {
	t.Parallel()

	gen := token.NewCrypto()

	seen := make(map[string]struct{})
	for range 1000 {
		id := gen.NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id generated: %s", id)
		seen[id] = struct{}{}
	}
}

func TestCrypto_NewToken(t *testing.T) {
	t.Parallel()

	gen := token.NewCrypto()

	t.Run("exact length", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{1, 32, 255, 1024} {
			tok, err := gen.NewToken(n)
			require.NoError(t, err)
			assert.Len(t, tok, n)
		}
	})

	t.Run("alphabet only", func(t *testing.T) {
		t.Parallel()

		const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

		tok, err := gen.NewToken(512)
		require.NoError(t, err)
		for _, r := range tok {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
		}
	})

	t.Run("invalid length", func(t *testing.T) {
		t.Parallel()

		_, err := gen.NewToken(0)
		require.ErrorIs(t, err, token.ErrInvalidLength)

		_, err = gen.NewToken(-1)
		require.ErrorIs(t, err, token.ErrInvalidLength)
	})

	t.Run("no duplicates across many tokens", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 10000)
		for range 10000 {
			tok, err := gen.NewToken(255)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(tok), 255)

			_, dup := seen[tok]
			require.False(t, dup, "duplicate token generated")
			seen[tok] = struct{}{}
		}
	})
}
