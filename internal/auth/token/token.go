// Package token provides hashing for persisted access tokens. Only the
// SHA-256 hash of a token ever reaches the database.
package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSHA256 returns the hex-encoded SHA-256 digest of a token.
func HashSHA256(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
