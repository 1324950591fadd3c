package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("somesupersecretkey")

	token, err := codec.Issue("user-1", "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenCodec("secret-a").Issue("user-1", "a@b.com")
	require.NoError(t, err)

	_, err = NewTokenCodec("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	codec := NewTokenCodec("secret")

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestTokenExpired(t *testing.T) {
	secret := "secret"
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenCodec(secret).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMissingUserID(t *testing.T) {
	secret := "secret"
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenCodec(secret).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
