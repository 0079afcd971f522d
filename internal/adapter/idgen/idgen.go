package idgen

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based transaction identifiers. This is
// the production default: lexicographically sortable and collision-safe
// in practice.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

const (
	timeRandPrefix    = "txn-"
	timeRandSuffixLen = 9
	timeRandAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// TimeRandGenerator concatenates a fixed prefix, the wall-clock time in
// milliseconds and a random alphanumeric suffix. Uniqueness is
// probabilistic only: two calls within the same millisecond rely
// entirely on the suffix entropy. Kept for identifier compatibility
// behind a config switch; prefer ULIDGenerator.
type TimeRandGenerator struct {
	now func() int64
}

// NewTimeRandGenerator creates a new TimeRandGenerator.
func NewTimeRandGenerator() *TimeRandGenerator {
	return &TimeRandGenerator{now: unixMilli}
}

func unixMilli() int64 {
	return time.Now().UnixMilli()
}

// Generate generates a prefix-time-random identifier.
func (g *TimeRandGenerator) Generate() string {
	suffix := make([]byte, timeRandSuffixLen)
	for i := range suffix {
		suffix[i] = timeRandAlphabet[rand.IntN(len(timeRandAlphabet))]
	}

	return timeRandPrefix + strconv.FormatInt(g.now(), 10) + "-" + string(suffix)
}
