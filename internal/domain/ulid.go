package domain

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator mints sort keys for new quotes.
type IDGenerator interface {
	NewID() string
}

// ULIDGenerator produces 26-character Crockford base-32 ULIDs: 48 bits of
// millisecond timestamp followed by 80 bits of cryptographically strong
// randomness. Lexicographic order on the strings follows creation time, with
// randomness breaking ties within a millisecond.
type ULIDGenerator struct {
	mu sync.Mutex
}

// NewULIDGenerator returns a generator backed by crypto/rand.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// NewID returns a ULID for the current time.
func (g *ULIDGenerator) NewID() string {
	return g.NewIDAt(time.Now())
}

// NewIDAt returns a ULID for an explicit time. Collision probability is the
// birthday bound of 80 random bits, negligible for this domain.
func (g *ULIDGenerator) NewIDAt(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.UTC()), rand.Reader).String()
}
