package safebox

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// CaseCodeGenerator produces the public case codes handed to reporters.
type CaseCodeGenerator interface {
	NewCode() string
}

// YCKFCaseCodes generates codes of the form YCKF<6 digits><3 digits>: the
// trailing six digits of the current epoch-millisecond timestamp followed by
// three random digits.
type YCKFCaseCodes struct {
	Clock Clock
}

func (g YCKFCaseCodes) NewCode() string {
	clock := g.Clock
	if clock == nil {
		clock = RealClock{}
	}
	millis := strconv.FormatInt(clock.Now().UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return fmt.Sprintf("YCKF%s%03d", millis, rand.Intn(1000))
}
