package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Garsondee/tuer/internal/game"
	"github.com/Garsondee/tuer/internal/level"
	"github.com/Garsondee/tuer/internal/logger"
	"github.com/Garsondee/tuer/internal/termview"
	"github.com/gdamore/tcell/v2"
)

type runStats struct {
	runIndex int
	seed     int64
	frames   int

	firstSpotFrame   int
	firstLaunchFrame int
	firstHitFrame    int
	firstKillFrame   int
	firstClearFrame  int

	launches  int
	botFires  int
	wounds    int
	kills     int
	hitsTaken int
	items     int

	outcome       game.PartyOutcomeReason
	windowSummary *game.WindowReport
	grade         game.PartyGrade
	report        string
}

type options struct {
	levelDir  string
	runs      int
	frames    int
	frameMs   int64
	fireEvery int
	seedBase  int64
	cheat     bool
	tty       bool
	ttyDelay  time.Duration
	debug     bool
}

func main() {
	var o options
	flag.StringVar(&o.levelDir, "level", "", "level directory; empty runs the built-in arena")
	flag.IntVar(&o.runs, "runs", 5, "number of headless parties")
	flag.IntVar(&o.frames, "frames", 3000, "frames per party")
	flag.Int64Var(&o.frameMs, "frame-ms", 20, "simulated milliseconds per frame")
	flag.IntVar(&o.fireEvery, "fire-every", 15, "autopilot fires at most once every N frames")
	flag.Int64Var(&o.seedBase, "seed-base", 345641, "bot seed for run 1, incremented per run")
	flag.BoolVar(&o.cheat, "cheat", false, "player ignores rocket damage and bots hold fire")
	flag.BoolVar(&o.tty, "tty", false, "draw each frame in the terminal")
	flag.DurationVar(&o.ttyDelay, "tty-delay", 20*time.Millisecond, "pause after each drawn frame with -tty")
	flag.BoolVar(&o.debug, "debug", false, "print the debug report of every run")
	flag.Parse()

	logger.Init()
	if err := validate(o); err != nil {
		fmt.Println("error:", err)
		return
	}

	var assets *game.LevelAssets
	if o.levelDir != "" {
		a, err := game.ReadAssets(level.Dir(o.levelDir))
		if err != nil {
			logger.Component("headless").WithError(err).WithField("level", o.levelDir).Fatal("level load failed")
		}
		assets = &a
	}

	var screen tcell.Screen
	if o.tty {
		s, err := termview.Open()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		screen = s
		logger.Redirect(io.Discard)
	}

	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)
		all = append(all, runParty(i+1, seed, o, assets, screen))
	}
	if screen != nil {
		screen.Fini()
	}

	scene := "arena"
	if o.levelDir != "" {
		scene = o.levelDir
	}
	fmt.Printf("=== Headless Party Report ===\n")
	fmt.Printf("level=%s runs=%d frames=%d frame_ms=%d fire_every=%d cheat=%v\n\n",
		scene, o.runs, o.frames, o.frameMs, o.fireEvery, o.cheat)
	for _, rs := range all {
		printRun(rs, o.debug)
	}
	printAggregate(all)
}

func validate(o options) error {
	switch {
	case o.runs <= 0:
		return fmt.Errorf("-runs must be > 0")
	case o.frames <= 0:
		return fmt.Errorf("-frames must be > 0")
	case o.frameMs <= 0:
		return fmt.Errorf("-frame-ms must be > 0")
	case o.fireEvery <= 0:
		return fmt.Errorf("-fire-every must be > 0")
	}
	return nil
}

// arena is the built-in level: one walled room, two areas split by a wall
// with a doorway, three standard bots and a distance bot.
func arena() []game.SimOption {
	opts := []game.SimOption{
		game.WithArena(10, 10, 60, 40),
		game.WithArea(0, 11, 11, 34, 39),
		game.WithArea(1, 36, 11, 59, 39),
	}
	for z := 11; z <= 39; z++ {
		if z < 23 || z > 27 {
			opts = append(opts, game.WithWall(35, z))
		}
	}
	return append(opts,
		game.WithPlayerStart(13, 25),
		game.WithBot(28, 18, game.BotStandard),
		game.WithBot(30, 32, game.BotStandard),
		game.WithBot(48, 25, game.BotStandard),
		game.WithBot(56, 14, game.BotDistance),
		game.WithRespawn(33, 25),
		game.WithExit(58, 38),
	)
}

func runParty(runIndex int, seed int64, o options, assets *game.LevelAssets, screen tcell.Screen) runStats {
	opts := []game.SimOption{game.WithSeed(seed), game.WithFrameMs(o.frameMs)}
	if assets != nil {
		opts = append(opts, game.WithLevel(*assets))
	} else {
		opts = append(opts, arena()...)
	}
	if o.cheat {
		opts = append(opts, game.WithCheat())
	}
	ts := game.NewTestSim(opts...)

	var tv *termview.View
	if screen != nil {
		tv = termview.New(screen, ts.World, termview.WithFrameDelay(o.ttyDelay))
	}

	tracker := game.NewPerfTracker("party", runIndex)
	reporter := game.NewPartyReporter(ts.World, 0, false)
	pl := &pilot{fireEvery: o.fireEvery}
	s := ts.Snapshot()
	frames := 0
	for frames < o.frames {
		ts.Input = pl.next(s)
		ts.RunFrames(1)
		frames++
		s = ts.Snapshot()
		tracker.Update(s)
		reporter.Collect(s)
		if tv != nil {
			tv.Render(s)
		}
		if s.State == game.StateAtMenu || s.Player.Winning {
			break
		}
	}
	tracker.Finalize(s, ts.SimLog)
	return collectStats(runIndex, seed, frames, ts, s, tracker, reporter)
}

func collectStats(runIndex int, seed int64, frames int, ts *game.TestSim, s game.Snapshot,
	tracker *game.PerfTracker, reporter *game.PartyReporter) runStats {
	entries := ts.SimLog.Entries()
	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		frames:           frames,
		firstSpotFrame:   firstFrame(entries, "vision", "spotted"),
		firstLaunchFrame: firstFrame(entries, "combat", "launch"),
		firstHitFrame:    firstFrame(entries, "combat", "player_hit"),
		firstKillFrame:   firstFrame(entries, "combat", "bot_killed"),
		firstClearFrame:  firstFrame(entries, "area", "cleared"),
		launches:         ts.SimLog.CountCategory("combat", "launch"),
		botFires:         ts.SimLog.CountCategory("combat", "bot_fire"),
		wounds:           ts.SimLog.CountCategory("combat", "bot_wounded"),
		kills:            ts.SimLog.CountCategory("combat", "bot_killed"),
		hitsTaken:        ts.SimLog.CountCategory("combat", "player_hit"),
		items:            ts.SimLog.CountCategory("item", "collected"),
		outcome:          game.DeterminePartyOutcome(ts.World, s, ts.SimLog),
		windowSummary:    reporter.WindowSummary(),
		grade:            game.GradePerformance([]*game.PerfTracker{tracker})[0],
		report:           game.DebugReport(reporter, ts.SimLog, 0),
	}
}

// pilot steers the player toward the nearest bot and fires when lined up.
// With no bot left it walks forward and turns away from walls it stalls on.
type pilot struct {
	fireEvery int
	sinceFire int
	stuck     int
	lastX     float64
	lastZ     float64
}

// aimTolerance is how far off the bot the heading may be when firing.
const aimTolerance = 0.08

// closeRange is the distance in tiles the pilot stops advancing at.
const closeRange = 4

func (p *pilot) next(s game.Snapshot) game.Input {
	p.sinceFire++
	var in game.Input
	if !s.Player.Alive || s.State != game.StateInParty {
		return in
	}

	moved := math.Abs(s.Player.X-p.lastX)+math.Abs(s.Player.Z-p.lastZ) > 1
	p.lastX, p.lastZ = s.Player.X, s.Player.Z
	if moved {
		p.stuck = 0
	} else {
		p.stuck++
	}

	target, ok := nearestBot(s)
	if !ok {
		in.RunningForward = true
		in.TurningRight = p.stuck > 5
		return in
	}
	dx := target.X - s.Player.X
	dz := target.Z - s.Player.Z
	turn := turnToward(s.Player.Direction, math.Atan2(dx, dz))
	in.TurningLeft = turn > aimTolerance
	in.TurningRight = turn < -aimTolerance
	if math.Abs(turn) <= aimTolerance && p.sinceFire >= p.fireEvery {
		in.Firing = true
		p.sinceFire = 0
	}
	dist := math.Hypot(dx, dz) / game.Factor
	in.RunningForward = dist > closeRange && math.Abs(turn) < 0.5
	in.LeftStepping = in.RunningForward && p.stuck > 10
	return in
}

func nearestBot(s game.Snapshot) (game.BotView, bool) {
	var best game.BotView
	bestD := math.Inf(1)
	for _, b := range s.Bots {
		d := math.Hypot(b.X-s.Player.X, b.Z-s.Player.Z)
		if d < bestD {
			best, bestD = b, d
		}
	}
	return best, len(s.Bots) > 0
}

// turnToward returns the signed turn from heading to want in (-π, π].
// Positive means turning left.
func turnToward(heading, want float64) float64 {
	d := math.Mod(want-heading, game.FullCircle)
	if d > math.Pi {
		d -= game.FullCircle
	} else if d <= -math.Pi {
		d += game.FullCircle
	}
	return d
}

func firstFrame(entries []game.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Frame
		}
	}
	return -1
}

// detectStall flags parties that ran out of frames with both sides alive and
// next to no shooting, which usually means the pilot got stuck behind cover.
func detectStall(rs runStats) (bool, string) {
	if rs.outcome.Outcome != game.OutcomeInconclusive {
		return false, "resolved_" + rs.outcome.Outcome.String()
	}
	if rs.outcome.BotsAlive == 0 {
		return false, "no_bots_alive"
	}
	exchanges := rs.launches + rs.botFires
	if exchanges*100 < rs.frames {
		return true, fmt.Sprintf("low_exchange_rate(%d shots in %d frames)", exchanges, rs.frames)
	}
	return false, "active_exchange"
}

func printRun(rs runStats, debug bool) {
	fmt.Printf("--- Run %d (seed=%d frames=%d) ---\n", rs.runIndex, rs.seed, rs.frames)
	fmt.Printf("outcome: %s (%s) areas=%d/%d bots_alive=%d/%d health=%d deaths=%d exit=%v\n",
		rs.outcome.Outcome, rs.outcome.Description,
		rs.outcome.AreasCleared, rs.outcome.AreasTotal,
		rs.outcome.BotsAlive, rs.outcome.BotsTotal,
		rs.outcome.PlayerHealth, rs.outcome.Deaths, rs.outcome.ExitReached)
	fmt.Printf("phase_markers: spotted=%d first_launch=%d first_hit_taken=%d first_kill=%d first_clear=%d\n",
		rs.firstSpotFrame, rs.firstLaunchFrame, rs.firstHitFrame, rs.firstKillFrame, rs.firstClearFrame)
	fmt.Printf("event_totals: launch=%d bot_fire=%d bot_wounded=%d bot_killed=%d player_hit=%d items=%d\n",
		rs.launches, rs.botFires, rs.wounds, rs.kills, rs.hitsTaken, rs.items)
	if stalled, reason := detectStall(rs); stalled {
		fmt.Printf("stall: %s\n", reason)
	}
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_frame_range=%d..%d\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromFrame, rs.windowSummary.ToFrame)
		fmt.Printf("window_avg: bots_alive=%.1f bots_running=%.1f bots_near=%.1f rockets=%.1f health=%d->%d low=%d\n",
			rs.windowSummary.AvgBotsAlive,
			rs.windowSummary.AvgBotsRunning,
			rs.windowSummary.AvgBotsNear,
			rs.windowSummary.AvgRockets,
			rs.windowSummary.HealthStart,
			rs.windowSummary.HealthEnd,
			rs.windowSummary.LowestHealth,
		)
	}
	fmt.Print(game.FormatGrades([]game.PartyGrade{rs.grade}))
	if debug {
		fmt.Print(rs.report)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totals := map[string]int{}
	outcomes := map[string]int{}
	spotFrames := make([]int, 0, len(all))
	killFrames := make([]int, 0, len(all))
	clearFrames := make([]int, 0, len(all))
	good := map[string]int{}
	bad := map[string]int{}
	grades := make([]game.PartyGrade, 0, len(all))
	stalls := 0

	for _, rs := range all {
		totals["launch"] += rs.launches
		totals["bot_fire"] += rs.botFires
		totals["bot_killed"] += rs.kills
		totals["player_hit"] += rs.hitsTaken
		outcomes[rs.outcome.Description]++
		if rs.firstSpotFrame >= 0 {
			spotFrames = append(spotFrames, rs.firstSpotFrame)
		}
		if rs.firstKillFrame >= 0 {
			killFrames = append(killFrames, rs.firstKillFrame)
		}
		if rs.firstClearFrame >= 0 {
			clearFrames = append(clearFrames, rs.firstClearFrame)
		}
		for _, t := range rs.grade.GoodTraits {
			good[t]++
		}
		for _, t := range rs.grade.BadTraits {
			bad[t]++
		}
		if stalled, _ := detectStall(rs); stalled {
			stalls++
		}
		grades = append(grades, rs.grade)
	}

	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d stalled=%d\n", n, stalls)
	fmt.Printf("avg_events_per_run: launch=%.1f bot_fire=%.1f bot_killed=%.1f player_hit=%.1f\n",
		avg(totals["launch"], n), avg(totals["bot_fire"], n), avg(totals["bot_killed"], n), avg(totals["player_hit"], n))
	fmt.Printf("phase_marker_avg_frames: spotted=%s first_kill=%s first_clear=%s\n",
		avgFrameString(spotFrames), avgFrameString(killFrames), avgFrameString(clearFrames))
	fmt.Printf("outcomes: %s\n", joinCounts(outcomes))
	fmt.Printf("traits: good=%s bad=%s\n", topTrait(good), topTrait(bad))
	fmt.Println()
	fmt.Print(game.FormatGradesSummary(grades))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// topTrait names the most frequent trait, ties going to the first name in
// sort order.
func topTrait(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return fmt.Sprintf("%s(%d)", best, counts[best])
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ",")
}
