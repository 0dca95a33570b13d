package forest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every call, starting at the Unix epoch.
func fakeClock(step time.Duration) func() time.Time {
	base := time.Unix(0, 0)
	n := 0
	return func() time.Time {
		now := base.Add(time.Duration(n) * step)
		n++
		return now
	}
}

func TestTimeModule_AdvancesEachFrame(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{Clock: fakeClock(16 * time.Millisecond)}).Build()
	tm := Resource[Time](app)
	require.NotNil(t, tm)
	assert.Zero(t, tm.Elapsed())

	app.Step()
	app.Step()

	assert.Equal(t, uint64(2), tm.Frame)
	assert.Equal(t, 16*time.Millisecond, tm.Dt)
	assert.InDelta(t, 0.016, tm.DtSeconds(), 1e-6)
	assert.InDelta(t, 0.032, tm.Elapsed(), 1e-9)
}

func TestTimeModule_DefaultsToWallClock(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{}).Build()
	tm := Resource[Time](app)
	app.Step()
	assert.GreaterOrEqual(t, tm.Dt, time.Duration(0))
	assert.False(t, tm.Start.IsZero())
}
