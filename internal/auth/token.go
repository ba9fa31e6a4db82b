package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// OneTimeTokenTTL bounds email verification and password reset links.
const OneTimeTokenTTL = 10 * time.Minute

// NewOneTimeToken returns the secret to mail to the user and the digest to
// store. Only the digest ever touches the database.
func NewOneTimeToken() (secret string, digest string, expiry time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}

	secret = hex.EncodeToString(buf)
	return secret, HashToken(secret), time.Now().Add(OneTimeTokenTTL), nil
}

func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
