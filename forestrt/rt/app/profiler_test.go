package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestProfiler_ScopesAndCounts(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	p := newProfilerWithClock(clock.now)

	p.BeginScope("Upload")
	clock.t = clock.t.Add(1500 * time.Microsecond)
	p.EndScope("Upload")

	p.BeginScope("Encode")
	clock.t = clock.t.Add(250 * time.Microsecond)
	p.EndScope("Encode")

	p.SetCount("Trees", 42)
	p.SetCount("Notes", 5)

	assert.Equal(t, 1500*time.Microsecond, p.Scopes["Upload"])
	assert.Equal(t, []string{"Upload", "Encode"}, p.Order)

	lines := p.Lines()
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Upload")
	assert.Contains(t, lines[0], "1.50 ms")
	assert.Contains(t, lines[2], "Notes", "counters are sorted by name")
	assert.Contains(t, lines[3], "42")
}

func TestProfiler_RepeatedScopeKeepsOrder(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProfilerWithClock(clock.now)

	for i := 0; i < 3; i++ {
		p.BeginScope("Frame")
		clock.t = clock.t.Add(time.Millisecond)
		p.EndScope("Frame")
	}
	assert.Equal(t, []string{"Frame"}, p.Order)
	assert.Equal(t, time.Millisecond, p.Scopes["Frame"])
}

func TestProfiler_EndWithoutBeginIsIgnored(t *testing.T) {
	p := NewProfiler()
	p.EndScope("never")
	assert.Empty(t, p.Lines())
}
