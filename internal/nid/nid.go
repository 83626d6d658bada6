// Generates SiYuan-format block identifiers.

package nid

import (
	"crypto/rand"
	"regexp"
	"sync"
	"time"
)

// ID format: a 14-digit timestamp, a dash, and 7 random base-36 characters,
// e.g. "20231005123055-9ol2mop". The timestamp prefix keeps IDs sortable by
// creation time, which SiYuan relies on for document ordering.

const (
	timeLayout = "20060102150405"
	suffixLen  = 7
	alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	mu       sync.Mutex
	lastSec  int64
	seenSufs map[string]struct{}
)

// New generates a new block ID for the current time.
// IDs generated within the same second are guaranteed distinct in-process.
func New() string {
	return NewAt(time.Now())
}

// NewAt generates a block ID with the given timestamp.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	sec := t.Unix()
	if sec != lastSec {
		lastSec = sec
		seenSufs = make(map[string]struct{})
	}

	for {
		suf := randSuffix()
		if _, ok := seenSufs[suf]; ok {
			continue
		}
		seenSufs[suf] = struct{}{}
		return t.Format(timeLayout) + "-" + suf
	}
}

// randSuffix returns 7 random base-36 characters.
func randSuffix() string {
	var b [suffixLen]byte
	_, _ = rand.Read(b[:])
	out := make([]byte, suffixLen)
	for i, c := range b {
		out[i] = alphabet[int(c)%len(alphabet)]
	}
	return string(out)
}

var validRe = regexp.MustCompile(`^\d{14}-[0-9a-z]{7}$`)

// IsValid reports whether id is a well-formed block ID.
func IsValid(id string) bool {
	return validRe.MatchString(id)
}
