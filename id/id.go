// Package id generates time-sortable ULID identifiers for audit and
// event records. Lexicographic ordering by generation time keeps
// SQLite indexes on id columns naturally chronological.
package id

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out monotonic ULIDs: ids minted within the same
// millisecond still sort in generation order.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewGenerator() *Generator {
	// Seed the PRNG from crypto/rand so ids are not guessable across
	// restarts.
	var seed int64
	_ = binary.Read(cryptorand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now().UTC()), g.entropy)
	if err != nil {
		// Only possible if entropy fails or time runs backwards.
		panic(err)
	}
	return u.String()
}

var defaultGen = NewGenerator()

// New returns a ULID string from the package-level generator.
func New() string {
	return defaultGen.New()
}
