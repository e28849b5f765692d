package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTimeProvider pins Now to a single instant, so tests built on
// types.Now() don't race real wall-clock time.
type fixedTimeProvider struct {
	at time.Time
}

func (f fixedTimeProvider) Now() time.Time                  { return f.at }
func (f fixedTimeProvider) Since(t time.Time) time.Duration { return f.at.Sub(t) }

func TestNowUsesInjectedTimeProvider(t *testing.T) {
	defer SetTimeProvider(nil)

	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	SetTimeProvider(fixedTimeProvider{at: fixed})

	require.Equal(t, Coarsen(fixed), Now())
}

func TestSetTimeProviderNilRestoresSystemClock(t *testing.T) {
	defer SetTimeProvider(nil)

	SetTimeProvider(fixedTimeProvider{at: time.Unix(0, 0)})
	SetTimeProvider(nil)

	assert.WithinDuration(t, time.Now(), GetTimeProvider().Now(), time.Second)
}

func TestCoarsenTruncatesToGrid(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 12, 0, 17, 0, time.UTC)
	t2 := time.Date(2026, 1, 1, 12, 4, 59, 0, time.UTC)

	assert.Equal(t, Coarsen(t1), Coarsen(t2))
	assert.Equal(t, int64(0), int64(Coarsen(t1))%CoarseGridSeconds)
}
