package game

import (
	"sync"
	"time"
)

// TimeSource supplies wall-clock instants. Tests substitute ManualTime.
type TimeSource interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// SystemTime is the real monotonic clock.
var SystemTime TimeSource = systemTime{}

// ManualTime is a TimeSource that only moves when told to.
type ManualTime struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualTime returns a manual source starting at start.
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{now: start}
}

func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the source forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set jumps the source to t.
func (m *ManualTime) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// ClockState is the lifecycle state of a Clock.
type ClockState uint8

const (
	ClockOutOfSync ClockState = iota // never started
	ClockStarted
	ClockPaused
	ClockStopped
)

func (s ClockState) String() string {
	switch s {
	case ClockOutOfSync:
		return "out_of_sync"
	case ClockStarted:
		return "started"
	case ClockPaused:
		return "paused"
	case ClockStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Clock measures party time in milliseconds. Elapsed time only moves on
// Sync, so a whole frame observes a single instant. Time spent paused is
// excluded.
type Clock struct {
	mu          sync.RWMutex
	src         TimeSource
	state       ClockState
	start       time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	elapsed     time.Duration
}

// NewClock returns a clock reading src. A nil src means SystemTime.
func NewClock(src TimeSource) *Clock {
	if src == nil {
		src = SystemTime
	}
	return &Clock{src: src}
}

// Start resets the clock to zero and starts counting.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = c.src.Now()
	c.pausedTotal = 0
	c.elapsed = 0
	c.pausedAt = time.Time{}
	c.state = ClockStarted
}

// Stop freezes the clock until the next Start.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncLocked()
	c.state = ClockStopped
}

// Sync refreshes the elapsed time. It has no effect unless started.
func (c *Clock) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncLocked()
}

func (c *Clock) syncLocked() {
	if c.state != ClockStarted {
		return
	}
	c.elapsed = c.src.Now().Sub(c.start) - c.pausedTotal
}

// Pause stops elapsed time from accumulating.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ClockStarted {
		return
	}
	c.syncLocked()
	c.pausedAt = c.src.Now()
	c.state = ClockPaused
}

// Unpause resumes counting; the paused span is never added to elapsed time.
func (c *Clock) Unpause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ClockPaused {
		return
	}
	c.pausedTotal += c.src.Now().Sub(c.pausedAt)
	c.pausedAt = time.Time{}
	c.state = ClockStarted
}

// Elapsed returns the party time in milliseconds as of the last sync.
func (c *Clock) Elapsed() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed.Milliseconds()
}

// CurrentTime is Elapsed, or zero when the clock never started.
func (c *Clock) CurrentTime() int64 {
	if c.State() == ClockOutOfSync {
		return 0
	}
	return c.Elapsed()
}

// State returns the current lifecycle state.
func (c *Clock) State() ClockState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsPaused reports whether the clock is paused.
func (c *Clock) IsPaused() bool { return c.State() == ClockPaused }
