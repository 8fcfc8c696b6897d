package users

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Reset links stop working after this long.
const ResetTokenTTL = 15 * time.Minute

// NewResetToken returns the plain token (emailed to the user) and the
// sha256 hex digest that is stored; the plain token never touches the
// database.
func NewResetToken() (token, hash string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, HashResetToken(token), nil
}

func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
