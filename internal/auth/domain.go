package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// keyBytes yields 40 hex characters per token key.
const keyBytes = 20

// Token is the opaque bearer credential issued to a user. Each user holds at
// most one token.
type Token struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}

func generateKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generate key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
