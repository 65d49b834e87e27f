package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

// tickingDisplay advances the manual clock one frame per loop iteration and
// runs after on every call.
func tickingDisplay(ts **TestSim, after func(calls int)) Display {
	calls := 0
	return DisplayFunc(func() {
		calls++
		(*ts).Time.Advance(time.Duration((*ts).FrameMs) * time.Millisecond)
		after(calls)
	})
}

func TestRun_StopsOnPerformAtExit(t *testing.T) {
	var ts *TestSim
	frames := 0
	disp := tickingDisplay(&ts, func(calls int) {
		frames = calls
		if calls == 30 {
			ts.Engine.PerformAtExit()
		}
	})
	ts = NewTestSim(arena(WithSimDisplay(disp))...)
	if err := ts.Engine.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if frames != 30 {
		t.Fatalf("display called %d times, want 30", frames)
	}
	if ts.Engine.IsGameRunning() || ts.Engine.State() != StateStopped {
		t.Fatalf("state = %s after exit", ts.Engine.State())
	}
	if ts.Engine.CurrentTime() == 0 {
		t.Fatal("party clock never moved")
	}
}

func TestRun_CancelAtMenu(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var ts *TestSim
	disp := tickingDisplay(&ts, func(calls int) {
		if ts.Engine.State() != StateAtMenu {
			t.Errorf("state = %s, want menu", ts.Engine.State())
		}
		if calls == 3 {
			cancel()
		}
	})
	ts = NewTestSim(arena(WithSimDisplay(disp))...)
	ts.Engine.SetCycle(CycleMainMenu)
	err := ts.Engine.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run = %v, want context.Canceled", err)
	}
	if ts.Engine.IsGameRunning() {
		t.Fatal("cancelled loop should not report running")
	}
}

func TestRun_MenuThenParty(t *testing.T) {
	var ts *TestSim
	disp := tickingDisplay(&ts, func(calls int) {
		switch calls {
		case 5:
			ts.Engine.SetCycle(CycleGame)
		case 20:
			ts.Engine.PerformAtExit()
		}
	})
	ts = NewTestSim(arena(WithSimDisplay(disp))...)
	ts.Engine.SetCycle(CycleMainMenu)
	if err := ts.Engine.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := ts.SimLog.CountCategory("party", "start"); n != 2 {
		t.Fatalf("party starts = %d, want 2 (harness + loop)", n)
	}
}

func TestRun_CorruptTileIsFatal(t *testing.T) {
	var ts *TestSim
	disp := tickingDisplay(&ts, func(calls int) {
		if calls > 50 {
			ts.Engine.PerformAtExit()
		}
	})
	// the start tile touches the map edge, so strafing west samples column -1
	ts = NewTestSim(WithPlayerStart(0, 5), WithSimDisplay(disp))
	ts.Input = Input{LeftStepping: true}
	err := ts.Engine.Run(context.Background())
	var fe *FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("run = %v, want *FatalError", err)
	}
	if !errors.Is(err, ErrCorruptLevel) || fe.Op != "player move" {
		t.Fatalf("fatal error = %v", fe)
	}
	if ts.Engine.IsGameRunning() || ts.Engine.InParty() {
		t.Fatal("a fatal error stops both loops")
	}
	// the engine lock was released on the way out
	_ = ts.Snapshot()
}

func TestLoopState_Strings(t *testing.T) {
	want := map[LoopState]string{
		StateStopped:  "stopped",
		StateAtMenu:   "menu",
		StateInParty:  "party",
		StatePaused:   "paused",
		StateFalling:  "falling",
		LoopState(99): "unknown",
	}
	for s, name := range want {
		if s.String() != name {
			t.Fatalf("%d = %q, want %q", s, s.String(), name)
		}
	}
}
