package engine

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// generateID returns a random session ID such as "code-3f9a0c1d2b4e5f60".
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "code-" + strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return "code-" + hex.EncodeToString(b)
}
