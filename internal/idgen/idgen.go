// Package idgen implements deterministic, content-based issue identifier
// generation. Identifiers are fixed-length lowercase hex tokens derived
// from the issue content and a wall-clock timestamp, so accidental
// collisions between independent processes are negligible.
package idgen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

const (
	// Length is the number of hex characters in an identifier.
	Length = 40
	// MaxRetries is the number of nonce values tried before allocation
	// gives up. A collision requires two issues hashing identically,
	// so consecutive collisions indicate a broken repository rather
	// than bad luck.
	MaxRetries = 20
)

var tokenRe = regexp.MustCompile(fmt.Sprintf(`^[0-9a-f]{%d}$`, Length))

// HashID derives an identifier from the issue description, its creation
// timestamp and a nonce. The algorithm:
//  1. Build a content string "description|unix-nanos|nonce"
//  2. Compute SHA-256 of the content string
//  3. Hex-encode and truncate to Length characters
//
// Incrementing the nonce yields an unrelated token, which is the
// retry-on-collision mechanism used by allocation.
func HashID(description string, timestamp time.Time, nonce int) string {
	content := fmt.Sprintf("%s|%d|%d", description, timestamp.UnixNano(), nonce)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:Length]
}

// Valid reports whether s is a well-formed identifier token.
func Valid(s string) bool {
	return tokenRe.MatchString(s)
}
