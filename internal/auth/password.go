package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost factor used for every stored digest.
const bcryptCost = 12

// HashPassword produces a salted one-way digest of the plaintext.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches the digest. Malformed
// digests compare as a mismatch, never an error.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
