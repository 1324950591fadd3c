package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL bounds how long an issued credential is accepted.
const TokenTTL = time.Hour

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// TokenCodec signs and verifies the bearer credential carrying a user id.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

type claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding the user id and email, expiring after
// TokenTTL.
func (c *TokenCodec) Issue(userID, email string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	return tok.SignedString(c.secret)
}

// Verify returns the embedded user id, or ErrInvalidToken. Callers must
// check for a missing token before calling.
func (c *TokenCodec) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	cl, ok := parsed.Claims.(*claims)
	if !ok || cl.UserID == "" {
		return "", ErrInvalidToken
	}
	return cl.UserID, nil
}
