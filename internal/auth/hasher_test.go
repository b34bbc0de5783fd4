package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, h.Verify("hunter22", hash))
	assert.False(t, h.Verify("hunter23", hash))
	assert.False(t, h.Verify("hunter22", "not-a-hash"))
}

func TestTemporaryPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		pw, err := TemporaryPassword()
		require.NoError(t, err)
		assert.Len(t, pw, TempPasswordLength)
		assert.GreaterOrEqual(t, len(pw), MinPasswordLength)
		for _, r := range pw {
			assert.True(t, strings.ContainsRune(tempPasswordAlphabet, r), "unexpected rune %q", r)
		}
		seen[pw] = true
	}
	assert.Len(t, seen, 50)
}
