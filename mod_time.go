package forest

import (
	"time"
)

type Time struct {
	Clock func() time.Time

	Start time.Time
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

// Elapsed is the number of seconds since the module was installed.
func (t *Time) Elapsed() float64 {
	return t.Time.Sub(t.Start).Seconds()
}

func (t *Time) DtSeconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct {
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	cmd.AddResources(&Time{
		Clock: clock,
		Start: now,
		Time:  now,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(t *Time) {
	now := t.Clock()
	t.Dt = now.Sub(t.Time)
	t.Time = now
	t.Frame++
}
