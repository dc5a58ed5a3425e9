// Package tide implements the tidal cycle that drives the surge wave.
package tide

import (
	"fmt"
	"math"
	"time"
)

// State is the coarse tidal phase.
type State int

const (
	Dry State = iota
	Rising
	Flooded
	Falling
)

func (s State) String() string {
	switch s {
	case Dry:
		return "dry"
	case Rising:
		return "rising"
	case Flooded:
		return "flooded"
	case Falling:
		return "falling"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Moving reports whether the surge front is sweeping the field.
func (s State) Moving() bool { return s == Rising || s == Falling }

// Durations configures how long each phase lasts. Wave is the length of one
// sweep, used for both Rising and Falling.
type Durations struct {
	Dry     time.Duration
	Wave    time.Duration
	Flooded time.Duration
}

// Event records one state transition.
type Event struct {
	From  State
	To    State
	Cycle int     // number of completed Dry->Rising transitions, including this one
	At    float64 // cycle clock in seconds when the transition happened
}

// NewWave reports whether the event starts a new surge wave.
func (e Event) NewWave() bool { return e.From == Dry && e.To == Rising }

// Cycle is the tidal state machine. It is advanced explicitly once per host
// tick and never runs on its own.
type Cycle struct {
	dry, wave, flooded float64

	state    State
	progress float64
	elapsed  float64 // time spent in the current state
	clock    float64
	waves    int
	enabled  bool

	outbox []Event
}

// NewCycle returns a cycle starting Dry with zero progress.
func NewCycle(d Durations) *Cycle {
	return &Cycle{
		dry:     nonNegative(d.Dry.Seconds()),
		wave:    nonNegative(d.Wave.Seconds()),
		flooded: nonNegative(d.Flooded.Seconds()),
		enabled: true,
	}
}

// Reset returns the cycle to the start of a Dry phase and drops pending events.
func (c *Cycle) Reset() {
	c.state = Dry
	c.progress = 0
	c.elapsed = 0
	c.clock = 0
	c.waves = 0
	c.outbox = c.outbox[:0]
}

// SetEnabled stops or resumes the timer.
func (c *Cycle) SetEnabled(enabled bool) { c.enabled = enabled }

// Enabled reports whether Advance moves the cycle.
func (c *Cycle) Enabled() bool { return c.enabled }

// State returns the current phase.
func (c *Cycle) State() State { return c.state }

// Progress returns the normalised surge progress in [0,1].
func (c *Cycle) Progress() float64 { return c.progress }

// Waves returns how many waves have started since the last reset.
func (c *Cycle) Waves() int { return c.waves }

// phaseEpsilon absorbs rounding when fixed steps such as 1/60 s add up to a
// phase length.
const phaseEpsilon = 1e-9

// Advance moves the cycle forward by dt seconds and returns the resulting
// state and progress. Time left over after a transition is spent in the next
// phase, so a single large step may pass through several transitions; every
// one of them is queued for Drain. A step longer than two full cycles skips
// the whole cycles in between: they are counted in Waves but not queued.
// Negative, NaN and infinite steps are ignored.
func (c *Cycle) Advance(dt float64) (State, float64) {
	if !c.enabled || !(dt > 0) || math.IsInf(dt, 1) {
		return c.state, c.progress
	}
	c.clock += dt
	remaining := dt
	if period := c.period(); period > 0 && remaining > 2*period {
		rest := math.Mod(remaining, period)
		c.waves += int(math.Round((remaining-rest)/period)) - 1
		remaining = rest + period
	}
	for {
		limit := c.phaseLength()
		if c.elapsed+remaining < limit-phaseEpsilon {
			c.elapsed += remaining
			c.updateProgress()
			return c.state, c.progress
		}
		remaining = max(0, remaining-(limit-c.elapsed))
		c.transition(c.clock - remaining)
		// with every phase empty the loop would never consume time
		if c.period() == 0 {
			c.updateProgress()
			return c.state, c.progress
		}
	}
}

// Drain returns the events queued since the previous call.
func (c *Cycle) Drain() []Event {
	if len(c.outbox) == 0 {
		return nil
	}
	events := make([]Event, len(c.outbox))
	copy(events, c.outbox)
	c.outbox = c.outbox[:0]
	return events
}

// period is the length of one full Dry, Rising, Flooded, Falling cycle.
func (c *Cycle) period() float64 { return c.dry + 2*c.wave + c.flooded }

func (c *Cycle) phaseLength() float64 {
	switch c.state {
	case Dry:
		return c.dry
	case Flooded:
		return c.flooded
	}
	return c.wave
}

func (c *Cycle) transition(at float64) {
	from := c.state
	switch c.state {
	case Dry:
		c.state = Rising
		c.waves++
	case Rising:
		c.state = Flooded
	case Flooded:
		c.state = Falling
	case Falling:
		c.state = Dry
	}
	c.elapsed = 0
	c.outbox = append(c.outbox, Event{From: from, To: c.state, Cycle: c.waves, At: at})
	c.updateProgress()
}

func (c *Cycle) updateProgress() {
	switch c.state {
	case Dry:
		c.progress = 0
	case Flooded:
		c.progress = 1
	case Rising:
		c.progress = c.sweep()
	case Falling:
		c.progress = 1 - c.sweep()
	}
}

// sweep is the linear fraction of the current wave phase. A zero wave
// duration completes immediately.
func (c *Cycle) sweep() float64 {
	if c.wave == 0 {
		return 1
	}
	f := c.elapsed / c.wave
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
