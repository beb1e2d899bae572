package booking

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const referencePrefix = "RG"

var referencePattern = regexp.MustCompile(`^RG[0-9]{14}[0-9]{4}$`)

// NewReference builds a human-shareable booking code: prefix, creation
// timestamp, random suffix. Entropy alone does not guarantee uniqueness;
// the storage layer enforces it with a unique constraint and callers retry
// on collision.
func NewReference(now time.Time) string {
	var buf [8]byte
	var suffix uint64
	if _, err := rand.Read(buf[:]); err == nil {
		suffix = binary.BigEndian.Uint64(buf[:]) % 10000
	} else {
		suffix = uint64(now.UnixNano()) % 10000
	}
	return fmt.Sprintf("%s%s%04d", referencePrefix, now.UTC().Format("20060102150405"), suffix)
}

// NormalizeReference canonicalizes user-entered codes for lookup.
func NormalizeReference(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func IsValidReference(s string) bool {
	return referencePattern.MatchString(s)
}
