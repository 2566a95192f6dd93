// Package storage holds helpers shared by the storage drivers.
package storage

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken derives the value persisted for a refresh token; raw tokens are
// never stored.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.StdEncoding.EncodeToString(sum[:])
}
