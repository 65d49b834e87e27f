// Package audio plays the party's sound requests through the speaker.
package audio

import (
	"math"
	"math/bits"
	"math/rand"
	"sync"
	"time"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/Garsondee/tuer/internal/logger"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/sirupsen/logrus"
)

const (
	// farthest audible distance in tiles
	fad       = 50
	fadSquare = 71 // int(sqrt(fad*fad + fad*fad)) + 1

	// one-shot sounds that are not tied to a place
	centre = 128 << 16
)

// Gain is the loudness of a sound at (srcX,srcZ) heard from
// (listenerX,listenerZ), fixed-point. A negative listener, or one on the
// source tile, hears the sound at full volume.
func Gain(srcX, srcZ, listenerX, listenerZ int) float64 {
	if listenerX < 0 {
		return 1
	}
	dx := abs(listenerX-srcX) >> 16
	dz := abs(listenerZ-srcZ) >> 16
	if dx == 0 && dz == 0 {
		return 1
	}
	ndiv := int(math.Sqrt(float64(dx*dx+dz*dz)))*fad/fadSquare + 10
	return 10 / float64(ndiv)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// System is a game.SoundTrigger over a beep mixer.
type System struct {
	mu      sync.Mutex
	bank    *Bank
	mixer   *beep.Mixer
	loops   map[int]*beep.Ctrl
	rng     *rand.Rand
	muted   bool
	started bool
	log     *logrus.Entry
}

// Option configures a System.
type Option func(*System)

// WithBank plays samples from b instead of the synthesized tones.
func WithBank(b *Bank) Option {
	return func(s *System) { s.bank = b }
}

// WithMute starts the system muted.
func WithMute(m bool) Option {
	return func(s *System) { s.muted = m }
}

// New returns a silent system. Call Start to open the speaker.
func New(opts ...Option) *System {
	s := &System{
		mixer: &beep.Mixer{},
		loops: map[int]*beep.Ctrl{},
		rng:   rand.New(rand.NewSource(863153)), // #nosec G404 -- voice choice only
		log:   logger.Component("audio"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start opens the speaker and feeds it the mixer.
func (s *System) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.started = true
	s.log.WithField("samples", s.bank.loadedCount()).Info("speaker open")
	return nil
}

// Close stops every sound.
func (s *System) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked(func() {
		for _, c := range s.loops {
			c.Paused = true
		}
		s.mixer.Clear()
	})
	s.loops = map[int]*beep.Ctrl{}
}

// SetMuted silences new sounds and pauses the loops.
func (s *System) SetMuted(m bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = m
	s.locked(func() {
		for _, c := range s.loops {
			c.Paused = m
		}
	})
}

// Muted reports whether the system is muted.
func (s *System) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Active returns the number of streams in the mixer.
func (s *System) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	s.locked(func() { n = s.mixer.Len() })
	return n
}

// Looping reports whether the loop of the single-bit mask is playing.
func (s *System) Looping(mask int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.loops[mask]
	return ok && !c.Paused
}

// Mixer exposes the mix for a caller that drives its own output.
func (s *System) Mixer() beep.Streamer { return s.mixer }

// locked runs fn under the speaker lock once the speaker is playing the mixer.
func (s *System) locked(fn func()) {
	if s.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

func (s *System) play(id game.SoundID, gain float64) {
	if s.muted || id < 0 || int(id) >= game.SoundCount {
		return
	}
	v := &effects.Volume{Streamer: s.bank.clip(id), Base: 2, Volume: math.Log2(gain)}
	s.locked(func() { s.mixer.Add(v) })
}

// PlaySound implements game.SoundTrigger.
func (s *System) PlaySound(id game.SoundID, srcX, srcZ, listenerX, listenerZ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.play(id, Gain(srcX, srcZ, listenerX, listenerZ))
}

// PlayBotHit implements game.SoundTrigger. One hit in three uses the first
// voice; the rest pick one of the other two.
func (s *System) PlayBotHit(srcX, srcZ, listenerX, listenerZ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := game.SoundBotHit1
	if s.rng.Intn(6) > 1 {
		id = game.SoundBotHit2 + game.SoundID(s.rng.Intn(2))
	}
	s.play(id, Gain(srcX, srcZ, listenerX, listenerZ))
}

// PlayAreaCleared implements game.SoundTrigger.
func (s *System) PlayAreaCleared() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.play(game.SoundApplause, Gain(centre, centre, -1, -1))
}

// PlayTermSound implements game.SoundTrigger.
func (s *System) PlayTermSound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.play(game.SoundTerm, 1)
}

// StartMovingSound implements game.SoundTrigger. Bit 1 is the player's
// footsteps; bits from 6 up are bot walk channels.
func (s *System) StartMovingSound(mask int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for m := uint(mask); m != 0; m &= m - 1 {
		bit := bits.TrailingZeros(m)
		if bit != 1 && bit < 6 {
			continue
		}
		key := 1 << bit
		if c, ok := s.loops[key]; ok {
			s.locked(func() { c.Paused = s.muted })
			continue
		}
		bot := bit >= 6
		c := &beep.Ctrl{
			Streamer: beep.Iterate(func() beep.Streamer { return s.bank.footsteps(bot) }),
			Paused:   s.muted,
		}
		s.loops[key] = c
		s.locked(func() { s.mixer.Add(c) })
	}
}

// StopMovingSound implements game.SoundTrigger.
func (s *System) StopMovingSound(mask int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, c := range s.loops {
		if mask&key != 0 {
			s.locked(func() { c.Paused = true })
		}
	}
}

func (b *Bank) loadedCount() int {
	if b == nil {
		return 0
	}
	return b.Loaded()
}

var _ game.SoundTrigger = (*System)(nil)
