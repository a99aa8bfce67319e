package engine

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces ids for inserted records that arrive without one.
//
// Ids are never checked against the table: uniqueness is the generator's
// best effort and ultimately the caller's responsibility.
type IDGenerator interface {
	// Generate returns a new id. now is the insert's timestamp.
	// The result is a string or an int64.
	Generate(now time.Time) any
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// randomSuffixLen is the number of random base-36 digits after the time
// prefix.
const randomSuffixLen = 9

// TimeRandomGenerator is the default generator: the insert time in base-36
// milliseconds followed by nine random base-36 characters, e.g.
// "lq2x8k1c" + "4f9zk2m0a".
//
// Non-cryptographic. Two ids generated in the same millisecond collide only if
// their random suffixes do, which is unlikely but possible under heavy bulk
// inserts.
//
// Thread-safety: safe for concurrent use (math/rand/v2 top-level functions
// are goroutine-safe).
type TimeRandomGenerator struct{}

// Generate returns a time-derived id with a random suffix.
func (TimeRandomGenerator) Generate(now time.Time) any {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	for range randomSuffixLen {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}

// UUIDv7Generator generates time-sortable UUIDv7 ids.
//
// Uses github.com/google/uuid. Selected with id_scheme: uuidv7.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice); the
// engine's panic guard turns that into a KindInternal envelope.
func (UUIDv7Generator) Generate(time.Time) any {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns predictable ids for tests and scenarios.
//
// With an empty prefix ids are int64 values 1, 2, 3, ...; otherwise they are
// strings prefix+"1", prefix+"2", ...
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int64
}

// NewSequenceGenerator creates a generator whose first id is 1.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix, next: 1}
}

// Generate returns the next id in the sequence.
func (g *SequenceGenerator) Generate(time.Time) any {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.next
	g.next++
	if g.prefix == "" {
		return n
	}
	return g.prefix + strconv.FormatInt(n, 10)
}

// ParseIDScheme maps a configuration name to a generator.
// Accepts "" and "time" (default), "uuidv7".
func ParseIDScheme(name string) (IDGenerator, bool) {
	switch name {
	case "", "time":
		return TimeRandomGenerator{}, true
	case "uuidv7":
		return UUIDv7Generator{}, true
	}
	return nil, false
}
