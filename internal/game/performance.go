package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Performance grading thresholds.
const (
	perfMinCombatFrames = 30
	perfMinLaunches     = 3
	perfCloseRange      = 3 * Factor
)

// ---------------------------------------------------------------------------
// PerfTracker: per-party, per-frame accumulator
// ---------------------------------------------------------------------------

// PerfTracker accumulates per-frame performance metrics for the player
// during one party.
type PerfTracker struct {
	Label string
	Run   int

	// Lifecycle.
	FramesAlive   int
	FramesFalling int
	FramesPaused  int
	Survived      bool

	// Situation time (frames).
	FramesInCombat  int
	FramesPreCombat int
	FramesAtClose   int
	FramesMoving    int
	FramesLowHealth int

	// Aggregates.
	DistanceTraveled float64
	DamageTaken      int
	HealthGained     int
	LowestHealth     int
	HealthAtEnd      int
	TimeMs           int64

	// Counts read from the party log at the end.
	Launches     int
	BotHits      int
	BotKills     int
	HitsTaken    int
	Deaths       int
	AreasCleared int
	Items        int
	Won          bool

	prevX, prevZ float64
	prevHealth   int
	started      bool
}

// NewPerfTracker creates a tracker for one party.
func NewPerfTracker(label string, run int) *PerfTracker {
	return &PerfTracker{Label: label, Run: run, LowestHealth: PlayerMaxHealth}
}

// Update accumulates one frame of data from a snapshot.
func (pt *PerfTracker) Update(s Snapshot) {
	switch s.State {
	case StatePaused:
		pt.FramesPaused++
		return
	case StateFalling:
		pt.FramesFalling++
		return
	case StateStopped, StateAtMenu:
		return
	}
	p := s.Player
	if !p.Alive {
		return
	}
	if !pt.started {
		pt.prevX, pt.prevZ, pt.prevHealth = p.X, p.Z, p.Health
		pt.started = true
	}
	pt.FramesAlive++

	dist := math.Hypot(p.X-pt.prevX, p.Z-pt.prevZ) / Factor
	// a respawn teleports the player; only count walking
	if dist < 1 {
		pt.DistanceTraveled += dist
		if dist > 0 {
			pt.FramesMoving++
		}
	}
	pt.prevX, pt.prevZ = p.X, p.Z

	switch {
	case p.Health < pt.prevHealth:
		pt.DamageTaken += pt.prevHealth - p.Health
	case p.Health > pt.prevHealth:
		pt.HealthGained += p.Health - pt.prevHealth
	}
	pt.prevHealth = p.Health
	if p.Health < pt.LowestHealth {
		pt.LowestHealth = p.Health
	}
	if p.Health <= PlayerMaxHealth/4 {
		pt.FramesLowHealth++
	}

	// --- Situation classification ---
	closest := math.MaxFloat64
	inCombat := false
	for _, b := range s.Bots {
		d := math.Hypot(b.X-p.X, b.Z-p.Z)
		if d < closest {
			closest = d
		}
		if b.Running || b.Damaged {
			inCombat = true
		}
	}
	if closest <= perfCloseRange {
		inCombat = true
		pt.FramesAtClose++
	}
	if inCombat {
		pt.FramesInCombat++
	} else {
		pt.FramesPreCombat++
	}
	pt.TimeMs = s.Time
}

// Finalize snapshots end-of-party state and reads the event counts from
// the log.
func (pt *PerfTracker) Finalize(s Snapshot, log *SimLog) {
	pt.Survived = s.Player.Alive && s.State != StateFalling
	pt.HealthAtEnd = s.Player.Health
	pt.TimeMs = s.Time
	pt.Launches = log.CountCategory("combat", "launch")
	pt.BotHits = log.CountCategory("combat", "bot_wounded") + log.CountCategory("combat", "bot_killed")
	pt.BotKills = log.CountCategory("combat", "bot_killed")
	pt.HitsTaken = log.CountCategory("combat", "player_hit")
	pt.Deaths = log.CountCategory("party", "falling")
	pt.AreasCleared = log.CountCategory("area", "cleared")
	pt.Items = log.CountCategory("item", "collected")
	pt.Won = s.Player.Winning
}

// ---------------------------------------------------------------------------
// PartyGrade: computed performance result
// ---------------------------------------------------------------------------

// PartyGrade is the computed performance grade for one party.
type PartyGrade struct {
	Label    string
	Run      int
	Grade    string  // A+, A, B+, B, C+, C, D, F
	Score    float64 // 0-100
	Survived bool
	Won      bool

	// Situation scores (0-100; -1 = not enough data to grade).
	AccuracyScore   float64
	SurvivalScore   float64
	AggressionScore float64
	PaceScore       float64

	// Observed traits.
	GoodTraits []string
	BadTraits  []string

	// Key stats.
	Accuracy      float64
	CombatTimePct float64
	DamageTaken   int
	Kills         int
	Deaths        int
}

// ---------------------------------------------------------------------------
// Grading logic
// ---------------------------------------------------------------------------

// GradePerformance computes grades from accumulated tracker data, best
// party first.
func GradePerformance(trackers []*PerfTracker) []PartyGrade {
	grades := make([]PartyGrade, 0, len(trackers))
	for _, pt := range trackers {
		grades = append(grades, computeGrade(pt))
	}
	sort.SliceStable(grades, func(i, j int) bool {
		return grades[i].Score > grades[j].Score
	})
	return grades
}

func computeGrade(pt *PerfTracker) PartyGrade {
	g := PartyGrade{
		Label:           pt.Label,
		Run:             pt.Run,
		Survived:        pt.Survived,
		Won:             pt.Won,
		DamageTaken:     pt.DamageTaken,
		Kills:           pt.BotKills,
		Deaths:          pt.Deaths,
		AccuracyScore:   -1,
		SurvivalScore:   -1,
		AggressionScore: -1,
		PaceScore:       -1,
	}
	g.Accuracy = perfFrac(pt.BotHits, pt.Launches)
	if pt.FramesAlive > 0 {
		g.CombatTimePct = perfFrac(pt.FramesInCombat, pt.FramesAlive) * 100
	}

	// --- Accuracy: rockets that found a bot ---
	if pt.Launches >= perfMinLaunches {
		g.AccuracyScore = perfClamp(20 + 80*g.Accuracy)
	}

	// --- Survival: damage avoided while fighting ---
	if pt.FramesInCombat >= perfMinCombatFrames || pt.HitsTaken > 0 {
		s := 100.0
		s -= 40.0 * float64(pt.DamageTaken) / float64(PlayerMaxHealth)
		s -= 25.0 * float64(pt.Deaths)
		s -= 20.0 * perfFrac(pt.FramesLowHealth, pt.FramesAlive)
		g.SurvivalScore = perfClamp(s)
	}

	// --- Aggression: pressing the bots rather than waiting ---
	if pt.FramesInCombat >= perfMinCombatFrames {
		s := 40.0
		s += 30.0 * perfFrac(pt.FramesAtClose, pt.FramesInCombat)
		s += 10.0 * float64(pt.BotKills)
		s -= 20.0 * perfFrac(pt.FramesAlive-pt.FramesMoving, pt.FramesAlive)
		g.AggressionScore = perfClamp(s)
	}

	// --- Pace: areas cleared per minute of party time ---
	if pt.TimeMs > 0 && pt.AreasCleared > 0 {
		perMin := float64(pt.AreasCleared) / (float64(pt.TimeMs) / 60000)
		g.PaceScore = perfClamp(40 + 20*perMin)
	}

	type scoredWeight struct {
		score  float64
		weight float64
	}
	var items []scoredWeight
	if g.AccuracyScore >= 0 {
		items = append(items, scoredWeight{g.AccuracyScore, 0.30})
	}
	if g.SurvivalScore >= 0 {
		items = append(items, scoredWeight{g.SurvivalScore, 0.30})
	}
	if g.AggressionScore >= 0 {
		items = append(items, scoredWeight{g.AggressionScore, 0.20})
	}
	if g.PaceScore >= 0 {
		items = append(items, scoredWeight{g.PaceScore, 0.20})
	}

	if len(items) > 0 {
		totalW, totalS := 0.0, 0.0
		for _, it := range items {
			totalW += it.weight
			totalS += it.score * it.weight
		}
		g.Score = totalS / totalW
	} else {
		g.Score = 50.0
		if pt.FramesAlive > 0 {
			g.Score += perfFrac(pt.FramesMoving, pt.FramesAlive) * 30.0
		}
	}

	if pt.Won {
		g.Score = math.Min(100, g.Score+10)
	}

	g.Grade = PerfLetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = perfDetectTraits(pt)
	return g
}

// ---------------------------------------------------------------------------
// Trait detection
// ---------------------------------------------------------------------------

func perfDetectTraits(pt *PerfTracker) (good, bad []string) {
	acc := perfFrac(pt.BotHits, pt.Launches)

	if pt.Launches >= perfMinLaunches && acc > 0.5 {
		good = append(good, "sharpshooter")
	}
	if pt.Won && pt.Deaths == 0 {
		good = append(good, "flawless")
	}
	if pt.AreasCleared > 0 && pt.DamageTaken < PlayerMaxHealth/4 {
		good = append(good, "untouchable")
	}
	if pt.FramesInCombat >= perfMinCombatFrames && perfFrac(pt.FramesAtClose, pt.FramesInCombat) > 0.5 {
		good = append(good, "close_quarters")
	}
	if pt.Items > 0 && pt.LowestHealth <= PlayerMaxHealth/4 && pt.Survived {
		good = append(good, "resourceful")
	}

	if pt.Launches >= 10 && acc < 0.15 {
		bad = append(bad, "spray_and_pray")
	}
	if pt.Deaths > 1 {
		bad = append(bad, "reckless")
	}
	if pt.FramesAlive > 600 && perfFrac(pt.FramesMoving, pt.FramesAlive) < 0.10 {
		bad = append(bad, "camping")
	}
	if pt.FramesInCombat >= perfMinCombatFrames && pt.Launches == 0 {
		bad = append(bad, "holds_fire")
	}
	if pt.FramesAlive > 0 && perfFrac(pt.FramesLowHealth, pt.FramesAlive) > 0.30 {
		bad = append(bad, "living_dangerously")
	}
	return
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// FormatGrades returns a human-readable performance report.
func FormatGrades(grades []PartyGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Party Performance Grades ===\n")

	for _, g := range grades {
		status := "alive"
		switch {
		case g.Won:
			status = "won"
		case !g.Survived:
			status = "down"
		}
		fmt.Fprintf(&sb, "  %-3s  %-8s  [%s]  acc=%.0f%%  kills=%d  deaths=%d  dmg=%d  combat=%.0f%%\n",
			g.Grade, g.Label, status, g.Accuracy*100, g.Kills, g.Deaths, g.DamageTaken, g.CombatTimePct)

		if len(g.GoodTraits) > 0 {
			fmt.Fprintf(&sb, "       Good: %s\n", strings.Join(g.GoodTraits, ", "))
		}
		if len(g.BadTraits) > 0 {
			fmt.Fprintf(&sb, "       Bad:  %s\n", strings.Join(g.BadTraits, ", "))
		}

		var scores []string
		if g.AccuracyScore >= 0 {
			scores = append(scores, fmt.Sprintf("Accuracy=%.0f", g.AccuracyScore))
		}
		if g.SurvivalScore >= 0 {
			scores = append(scores, fmt.Sprintf("Survival=%.0f", g.SurvivalScore))
		}
		if g.AggressionScore >= 0 {
			scores = append(scores, fmt.Sprintf("Aggression=%.0f", g.AggressionScore))
		}
		if g.PaceScore >= 0 {
			scores = append(scores, fmt.Sprintf("Pace=%.0f", g.PaceScore))
		}
		if len(scores) > 0 {
			fmt.Fprintf(&sb, "       Scores: %s\n", strings.Join(scores, "  "))
		}
	}

	return sb.String()
}

// FormatGradesSummary returns a compact summary across parties.
func FormatGradesSummary(grades []PartyGrade) string {
	if len(grades) == 0 {
		return "  no parties graded\n"
	}
	var sb strings.Builder
	scoreSum := 0.0
	won := 0
	goodCount := map[string]int{}
	badCount := map[string]int{}
	for _, g := range grades {
		scoreSum += g.Score
		if g.Won {
			won++
		}
		for _, t := range g.GoodTraits {
			goodCount[t]++
		}
		for _, t := range g.BadTraits {
			badCount[t]++
		}
	}
	avg := scoreSum / float64(len(grades))
	fmt.Fprintf(&sb, "  avg_score=%.1f (%s)  won=%d/%d\n", avg, PerfLetterGrade(avg), won, len(grades))
	if len(goodCount) > 0 {
		fmt.Fprintf(&sb, "    Top good: %s\n", perfTopTraits(goodCount, 4))
	}
	if len(badCount) > 0 {
		fmt.Fprintf(&sb, "    Top bad:  %s\n", perfTopTraits(badCount, 4))
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func perfFrac(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	var items []kv
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].trait < items[j].trait
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}
