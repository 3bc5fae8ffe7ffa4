package reportid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MonotonicEntropy readers are not goroutine-safe; the mutex
// serializes minting.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func mint() ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// New returns a rpt_* ULID string.
func New() string {
	return "rpt_" + strings.ToLower(mint().String())
}

// NewAssignment returns a desk_* ULID string for desk assignments.
func NewAssignment() string {
	return "desk_" + strings.ToLower(mint().String())
}

// IsValid reports whether the string is a rpt_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "rpt_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the rpt_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "rpt_")
	value = strings.TrimPrefix(value, "RPT_")
	return ulid.Parse(value)
}
