package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asifmahmud/banglahat-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// small parameters keep the test fast
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("sh0pAdmin!", testPasswordConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := VerifyPassword("sh0pAdmin!", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	_, err := HashPassword("", testPasswordConfig())
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "$bcrypt$nope")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	first, err := HashPassword("same-password", testPasswordConfig())
	require.NoError(t, err)
	second, err := HashPassword("same-password", testPasswordConfig())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
