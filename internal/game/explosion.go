package game

// Explosion animation timing.
const (
	explosionFrames   = 16
	explosionFPS      = 8
	explosionDuration = 2000 // ms
)

// Explosion is a short-lived animation left where something was destroyed.
type Explosion struct {
	X, Y, Z  float32
	Heading  float32
	Pitch    float32
	Frame    int
	start    int64
	clock    *Clock
	disposed bool
}

// updateFrameIndex advances the animation from the clock.
func (ex *Explosion) updateFrameIndex() {
	f := int((ex.clock.CurrentTime() - ex.start) * explosionFPS / 1000)
	if f >= explosionFrames {
		f = explosionFrames - 1
	}
	if f < 0 {
		f = 0
	}
	ex.Frame = f
}

// Finished reports whether the animation has run its course.
func (ex *Explosion) Finished() bool {
	return ex.clock.CurrentTime()-ex.start >= explosionDuration
}

// Dispose releases the explosion. Disposed explosions are never drawn again.
func (ex *Explosion) Dispose() { ex.disposed = true }

// Disposed reports whether Dispose was called.
func (ex *Explosion) Disposed() bool { return ex.disposed }

// ExplosionFactory builds explosions bound to the party clock.
type ExplosionFactory struct {
	clock   *Clock
	created int
}

// NewExplosionFactory returns a factory reading clock.
func NewExplosionFactory(clock *Clock) *ExplosionFactory {
	return &ExplosionFactory{clock: clock}
}

// New creates an explosion at a fixed-point position.
func (f *ExplosionFactory) New(x, y, z, heading, pitch float32) *Explosion {
	f.created++
	return &Explosion{
		X:       x,
		Y:       y,
		Z:       z,
		Heading: heading,
		Pitch:   pitch,
		start:   f.clock.CurrentTime(),
		clock:   f.clock,
	}
}

// Created returns how many explosions the factory has built.
func (f *ExplosionFactory) Created() int { return f.created }
