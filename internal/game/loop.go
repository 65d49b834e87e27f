package game

import (
	"context"
	"runtime"
)

// LoopState is the observable phase of the game loop.
type LoopState uint8

const (
	StateStopped LoopState = iota
	StateAtMenu
	StateInParty
	StatePaused
	StateFalling
)

func (s LoopState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateAtMenu:
		return "menu"
	case StateInParty:
		return "party"
	case StatePaused:
		return "paused"
	case StateFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// State returns the current loop phase.
func (e *Engine) State() LoopState {
	e.mu.RLock()
	falling := e.falling
	e.mu.RUnlock()
	return e.loopState(falling)
}

func (e *Engine) loopState(falling bool) LoopState {
	switch {
	case !e.gameRunning.Load():
		return StateStopped
	case !e.innerLoop.Load():
		return StateAtMenu
	case falling:
		return StateFalling
	case e.paused.Load():
		return StatePaused
	default:
		return StateInParty
	}
}

// Run drives the outer menu loop and the inner party loop until
// PerformAtExit is called or ctx is cancelled. Corrupt level data found
// mid-party aborts the loop with a *FatalError.
func (e *Engine) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			e.log.WithError(fe).Error("simulation aborted")
			err = fe
		}
		e.gameRunning.Store(false)
		e.innerLoop.Store(false)
	}()

	e.gameRunning.Store(true)
	e.innerLoop.Store(false)
	killed := false
	for e.gameRunning.Load() {
		e.mu.Lock()
		e.reinit(killed)
		e.mu.Unlock()
		for e.Cycle() != CycleGame && e.gameRunning.Load() {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.display.Display()
		}
		if !e.gameRunning.Load() {
			break
		}
		e.enterParty(killed)
		killed = false
		for e.innerLoop.Load() {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.display.Display()
			if e.runFrame() {
				killed = true
			}
		}
	}
	return nil
}

// enterParty starts the inner loop: the dead player respawns and the clock
// restarts from zero.
func (e *Engine) enterParty(killed bool) {
	e.mu.Lock()
	if killed {
		e.respawnAfterDeath()
	}
	e.innerLoop.Store(true)
	e.mu.Unlock()
	runtime.GC()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Start()
	now := e.clock.CurrentTime()
	e.lastBotShotTime = now
	e.lastShot = now
	e.falling = false
	e.simLog.Add(e.frame, "--", "party", "start", e.world.Start.String(), 0)
	e.log.WithField("respawn", killed).Info("party started")
}

// runFrame handles the pause state of the clock and steps one frame.
func (e *Engine) runFrame() bool {
	in := e.input.PollInput()
	e.mu.Lock()
	defer e.mu.Unlock()
	before := e.clock.Elapsed()
	if e.paused.Load() {
		if !e.clock.IsPaused() {
			e.clock.Pause()
		}
		return false
	}
	if e.clock.IsPaused() {
		e.clock.Unpause()
	} else {
		e.clock.Sync()
	}
	return e.step(e.clock.Elapsed()-before, in)
}

// PerformAtExit stops both loops. Safe from any goroutine.
func (e *Engine) PerformAtExit() {
	e.innerLoop.Store(false)
	e.gameRunning.Store(false)
}
