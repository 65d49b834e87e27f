package game

import (
	"strings"
	"testing"
)

// playDuel runs the cheat duel with the trigger held until the player wins,
// feeding every frame to a tracker and a reporter.
func playDuel(t *testing.T) (*TestSim, *PerfTracker, *PartyReporter) {
	t.Helper()
	ts := NewTestSim(duel(WithCheat())...)
	pt := NewPerfTracker("duel", 1)
	rep := NewPartyReporter(ts.World, 0, true)
	ts.Input = Input{Firing: true}
	for i := 0; i < 400 && !ts.Player().Winning(); i++ {
		ts.RunFrames(1)
		s := ts.Snapshot()
		pt.Update(s)
		rep.Collect(s)
	}
	if !ts.Player().Winning() {
		t.Fatalf("player never won; log:\n%s", ts.SimLog.Format())
	}
	pt.Finalize(ts.Snapshot(), ts.SimLog)
	return ts, pt, rep
}

func TestOutcome_Victory(t *testing.T) {
	ts, _, _ := playDuel(t)
	r := DeterminePartyOutcome(ts.World, ts.Snapshot(), ts.SimLog)
	if r.Outcome != OutcomeVictory || r.Description != "victory_all_areas_cleared" {
		t.Fatalf("outcome = %s (%s)", r.Outcome, r.Description)
	}
	if r.BotsTotal != 1 || r.BotsAlive != 0 || r.AreasTotal != 1 || r.AreasCleared != 1 {
		t.Fatalf("reason = %+v", r)
	}
}

func TestOutcome_DefeatWhenKilled(t *testing.T) {
	ts := NewTestSim(duel()...)
	if f := ts.RunUntil(func(ts *TestSim) bool { return !ts.Player().Alive() }, 1000); f < 0 {
		t.Fatal("player never died")
	}
	r := DeterminePartyOutcome(ts.World, ts.Snapshot(), ts.SimLog)
	if r.Outcome != OutcomeDefeat || r.Description != "defeat_player_killed" {
		t.Fatalf("outcome = %s (%s)", r.Outcome, r.Description)
	}
	if r.Deaths != 1 || r.PlayerHealth > 0 {
		t.Fatalf("reason = %+v", r)
	}
}

func TestOutcome_Inconclusive(t *testing.T) {
	ts := NewTestSim(arena()...)
	ts.RunFrames(5)
	r := DeterminePartyOutcome(ts.World, ts.Snapshot(), ts.SimLog)
	if r.Outcome != OutcomeInconclusive || r.Description != "inconclusive_no_bots" {
		t.Fatalf("empty level: %s (%s)", r.Outcome, r.Description)
	}

	ts = NewTestSim(arena(WithBot(20, 20, BotStandard))...)
	ts.RunFrames(5)
	r = DeterminePartyOutcome(ts.World, ts.Snapshot(), ts.SimLog)
	if r.Outcome != OutcomeInconclusive || r.Description != "inconclusive_insufficient_resolution" {
		t.Fatalf("quiet party: %s (%s)", r.Outcome, r.Description)
	}
	if PartyOutcome(7).String() != "unknown" {
		t.Fatal("unexpected outcome name")
	}
}

func TestPerfTracker_DuelCounts(t *testing.T) {
	_, pt, _ := playDuel(t)
	if !pt.Won || !pt.Survived {
		t.Fatalf("won=%v survived=%v", pt.Won, pt.Survived)
	}
	if pt.BotKills != 1 || pt.BotHits < 2 || pt.Launches < 2 {
		t.Fatalf("launches=%d hits=%d kills=%d", pt.Launches, pt.BotHits, pt.BotKills)
	}
	if pt.DamageTaken != 0 || pt.HitsTaken != 0 {
		t.Fatal("cheat mode keeps the player unhurt")
	}
	if pt.FramesAlive == 0 || pt.FramesAtClose == 0 {
		t.Fatalf("alive=%d close=%d", pt.FramesAlive, pt.FramesAtClose)
	}

	g := GradePerformance([]*PerfTracker{pt})[0]
	if !g.Won || g.Kills != 1 || g.Accuracy <= 0 || g.Accuracy > 1 {
		t.Fatalf("grade = %+v", g)
	}
	if g.Grade != PerfLetterGrade(g.Score) {
		t.Fatalf("grade %s does not match score %.1f", g.Grade, g.Score)
	}
	for _, want := range []string{"flawless", "untouchable"} {
		found := false
		for _, tr := range g.GoodTraits {
			found = found || tr == want
		}
		if !found {
			t.Fatalf("trait %s missing from %v", want, g.GoodTraits)
		}
	}
	out := FormatGrades([]PartyGrade{g})
	if !strings.Contains(out, "[won]") || !strings.Contains(out, "duel") {
		t.Fatalf("report:\n%s", out)
	}
}

func TestGradePerformance_BadTraitsAndOrder(t *testing.T) {
	wild := &PerfTracker{Label: "wild", Launches: 20, BotHits: 1, Deaths: 2, FramesAlive: 100}
	sharp := &PerfTracker{Label: "sharp", Launches: 4, BotHits: 4, BotKills: 2, AreasCleared: 1, TimeMs: 30000, Won: true}
	grades := GradePerformance([]*PerfTracker{wild, sharp})
	if grades[0].Label != "sharp" {
		t.Fatalf("best party first, got %s", grades[0].Label)
	}
	w := grades[1]
	for _, want := range []string{"spray_and_pray", "reckless"} {
		found := false
		for _, tr := range w.BadTraits {
			found = found || tr == want
		}
		if !found {
			t.Fatalf("trait %s missing from %v", want, w.BadTraits)
		}
	}
	if !near(w.AccuracyScore, 24) {
		t.Fatalf("accuracy score = %v", w.AccuracyScore)
	}
	sum := FormatGradesSummary(grades)
	if !strings.Contains(sum, "won=1/2") {
		t.Fatalf("summary:\n%s", sum)
	}
	if FormatGradesSummary(nil) != "  no parties graded\n" {
		t.Fatal("empty summary")
	}
}

func TestPerfLetterGrade_Bands(t *testing.T) {
	cases := map[float64]string{100: "A+", 93: "A+", 90: "A", 80: "B+", 72: "B", 64: "C+", 56: "C", 50: "D", 10: "F"}
	for score, want := range cases {
		if got := PerfLetterGrade(score); got != want {
			t.Fatalf("PerfLetterGrade(%v) = %s, want %s", score, got, want)
		}
	}
}

func TestPartyReporter_CollectsDuel(t *testing.T) {
	_, _, rep := playDuel(t)
	hist := rep.History()
	first := hist[0]
	if first.BotsAlive != 1 || first.BotsNear != 1 || len(first.Bots) != 1 {
		t.Fatalf("first report = %+v", first)
	}
	if first.Bots[0].Slot != IndexBots || first.Bots[0].Kind != BotStandard {
		t.Fatalf("bot report = %+v", first.Bots[0])
	}
	if len(first.Areas) != 1 || first.Areas[0].Name != "first contact" || first.Areas[0].Cleared {
		t.Fatalf("areas = %+v", first.Areas)
	}

	last := rep.Latest()
	if last.BotsAlive != 0 || last.Cleared != 1 || !last.Winning {
		t.Fatalf("last report = %+v", *last)
	}
	if len(last.Areas) != 1 || !last.Areas[0].Cleared {
		t.Fatalf("cleared area not reported: %+v", last.Areas)
	}

	wr := rep.WindowSummary()
	if wr.BotsLost != 1 || wr.AreasCleared != 1 || wr.HealthEnd != PlayerMaxHealth {
		t.Fatalf("window = %+v", *wr)
	}
	if !strings.Contains(wr.Format(), "areas cleared=1") {
		t.Fatalf("window format:\n%s", wr.Format())
	}
	if !strings.Contains(rep.FormatLatest(), "first contact") {
		t.Fatalf("latest:\n%s", rep.FormatLatest())
	}
}

func TestPartyReporter_WindowSlides(t *testing.T) {
	ts := NewTestSim(arena()...)
	rep := NewPartyReporter(ts.World, 10, false)
	for i := 0; i < 30; i++ {
		ts.RunFrames(1)
		rep.Collect(ts.Snapshot())
	}
	w := rep.Window()
	if len(w) == 0 || len(w) > 11 {
		t.Fatalf("window holds %d reports", len(w))
	}
	if w[len(w)-1].Frame-w[0].Frame > 10 {
		t.Fatalf("window spans %d..%d", w[0].Frame, w[len(w)-1].Frame)
	}
	if rep.Latest().Bots != nil {
		t.Fatal("bot detail is verbose only")
	}
	var empty PartyReporter
	if empty.WindowSummary() != nil || empty.FormatLatest() != "No data.\n" {
		t.Fatal("empty reporter")
	}
	if (*WindowReport)(nil).Format() != "No data collected yet.\n" {
		t.Fatal("nil window format")
	}
}

func TestDebugReport_TellsTheStory(t *testing.T) {
	ts, _, rep := playDuel(t)
	out := DebugReport(rep, ts.SimLog, 0)
	for _, want := range []string{"--- tuer debug report ---", "bots 1 -> 0", "cleared 0 -> 1", "stages:", "bot_killed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
	if !strings.Contains(DebugReport(&PartyReporter{}, nil, 50), "no reports collected") {
		t.Fatal("empty reporter should say so")
	}
}
