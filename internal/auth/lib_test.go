package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	h1, err := HashPassword("pw123")
	require.NoError(t, err)
	h2, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", h1)
	assert.NotEqual(t, h1, h2, "two hashes of the same password must use different salts")

	assert.True(t, CheckPasswordHash(h1, "pw123"))
	assert.True(t, CheckPasswordHash(h2, "pw123"))
	assert.False(t, CheckPasswordHash(h1, "wrong"))
}

func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("not-a-bcrypt-hash", "pw123"))
}

func TestCheckDummyHash_DoesNotPanic(t *testing.T) {
	CheckDummyHash("anything")
	CheckDummyHash("")
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", 72))
	assert.NoError(t, err)
}
