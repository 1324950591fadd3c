package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	digest, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", digest)

	assert.True(t, CheckPassword("secret", digest))
	assert.False(t, CheckPassword("wrong", digest))
}

func TestPasswordMalformedDigest(t *testing.T) {
	assert.False(t, CheckPassword("secret", ""))
	assert.False(t, CheckPassword("secret", "not-a-bcrypt-digest"))
}

func TestPasswordHashesDiffer(t *testing.T) {
	a, err := HashPassword("secret")
	require.NoError(t, err)
	b, err := HashPassword("secret")
	require.NoError(t, err)

	// bcrypt salts every digest
	assert.NotEqual(t, a, b)
}
