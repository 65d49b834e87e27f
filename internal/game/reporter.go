package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// reportWindowFrames is the default sliding window for recent-party reports (~10s at 16ms frames).
const reportWindowFrames = 600

// --- Snapshot types ---

// AreaReport captures one area's bot population at one point in time.
type AreaReport struct {
	ID      int
	Name    string
	Alive   int
	Running int
	Damaged int
	Cleared bool
}

// BotReport captures a single bot's state.
type BotReport struct {
	Slot        int
	Kind        BotKind
	Area        int
	Tile        TilePos
	Health      int
	Running     bool
	Damaged     bool
	PlayerRange float64 // tiles
}

// PartyReport is a condensed view of the party at one frame.
type PartyReport struct {
	Frame int
	Time  int64
	State LoopState

	PlayerTile   TilePos
	PlayerArea   int
	PlayerHealth int
	PlayerAlive  bool
	Winning      bool

	BotsAlive   int
	BotsRunning int
	BotsDamaged int
	BotsNear    int // within standard firing range of the player

	RocketsInFlight int
	Explosions      int
	Cleared         int

	Areas []AreaReport

	// Bots detail (optional, for verbose mode).
	Bots []BotReport
}

// --- Reporter ---

// PartyReporter collects periodic reports from party snapshots and can
// produce summaries over sliding frame windows.
type PartyReporter struct {
	world        *World
	history      []PartyReport
	windowFrames int
	verbose      bool
}

// NewPartyReporter creates a reporter over world with the given window size.
func NewPartyReporter(world *World, windowFrames int, verbose bool) *PartyReporter {
	if windowFrames <= 0 {
		windowFrames = reportWindowFrames
	}
	return &PartyReporter{
		world:        world,
		windowFrames: windowFrames,
		verbose:      verbose,
	}
}

// Collect condenses a snapshot into a report and appends it to the history.
func (r *PartyReporter) Collect(s Snapshot) PartyReport {
	pt := tileAt(s.Player.X, s.Player.Z)
	report := PartyReport{
		Frame:           s.Frame,
		Time:            s.Time,
		State:           s.State,
		PlayerTile:      pt,
		PlayerArea:      r.world.AreaAt(pt.X, pt.Z),
		PlayerHealth:    s.Player.Health,
		PlayerAlive:     s.Player.Alive,
		Winning:         s.Player.Winning,
		RocketsInFlight: len(s.Rockets),
		Explosions:      len(s.Explodes),
		Cleared:         len(s.Cleared),
	}

	areas := map[int]*AreaReport{}
	for _, b := range s.Bots {
		report.BotsAlive++
		dist := math.Hypot(b.X-s.Player.X, b.Z-s.Player.Z) / Factor
		if dist <= 3 {
			report.BotsNear++
		}
		ar, ok := areas[b.Area]
		if !ok {
			ar = &AreaReport{ID: b.Area}
			areas[b.Area] = ar
		}
		ar.Alive++
		if b.Running {
			report.BotsRunning++
			ar.Running++
		}
		if b.Damaged {
			report.BotsDamaged++
			ar.Damaged++
		}
		if r.verbose {
			report.Bots = append(report.Bots, BotReport{
				Slot:        b.Handle.Index,
				Kind:        b.Kind,
				Area:        b.Area,
				Tile:        tileAt(b.X, b.Z),
				Health:      b.Health,
				Running:     b.Running,
				Damaged:     b.Damaged,
				PlayerRange: dist,
			})
		}
	}
	for _, id := range s.Cleared {
		if _, ok := areas[id]; !ok {
			areas[id] = &AreaReport{ID: id}
		}
		areas[id].Cleared = true
	}
	for id, ar := range areas {
		ar.Name = r.world.Areas.Get(id).Name()
		report.Areas = append(report.Areas, *ar)
	}
	sort.Slice(report.Areas, func(i, j int) bool { return report.Areas[i].ID < report.Areas[j].ID })

	r.history = append(r.history, report)
	return report
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *PartyReporter) Latest() *PartyReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// Window returns the reports within the sliding window, oldest first.
func (r *PartyReporter) Window() []PartyReport {
	if len(r.history) == 0 {
		return nil
	}
	cutoff := r.history[len(r.history)-1].Frame - r.windowFrames
	i := len(r.history)
	for i > 0 && r.history[i-1].Frame >= cutoff {
		i--
	}
	return r.history[i:]
}

// WindowSummary returns an aggregated summary over the recent frame window.
func (r *PartyReporter) WindowSummary() *WindowReport {
	window := r.Window()
	if len(window) == 0 {
		return nil
	}

	n := float64(len(window))
	first, last := window[0], window[len(window)-1]
	wr := &WindowReport{
		FromFrame:    first.Frame,
		ToFrame:      last.Frame,
		SampleCount:  len(window),
		HealthStart:  first.PlayerHealth,
		HealthEnd:    last.PlayerHealth,
		BotsLost:     first.BotsAlive - last.BotsAlive,
		AreasCleared: last.Cleared - first.Cleared,
		LowestHealth: first.PlayerHealth,
		AreaPct:      make(map[int]float64),
	}

	for _, rpt := range window {
		wr.AvgBotsAlive += float64(rpt.BotsAlive)
		wr.AvgBotsRunning += float64(rpt.BotsRunning)
		wr.AvgBotsNear += float64(rpt.BotsNear)
		wr.AvgRockets += float64(rpt.RocketsInFlight)
		wr.AreaPct[rpt.PlayerArea]++
		if rpt.State == StatePaused {
			wr.PausedFrames++
		}
		if rpt.PlayerHealth < wr.LowestHealth {
			wr.LowestHealth = rpt.PlayerHealth
		}
	}
	wr.AvgBotsAlive /= n
	wr.AvgBotsRunning /= n
	wr.AvgBotsNear /= n
	wr.AvgRockets /= n
	for id, c := range wr.AreaPct {
		wr.AreaPct[id] = c / n * 100
	}
	return wr
}

// WindowReport is an aggregated summary over a frame window.
type WindowReport struct {
	FromFrame, ToFrame int
	SampleCount        int

	// Share of samples the player spent in each area (NoArea = outside).
	AreaPct map[int]float64

	// Averages over the window.
	AvgBotsAlive   float64
	AvgBotsRunning float64
	AvgBotsNear    float64
	AvgRockets     float64

	// Player health across the window.
	HealthStart, HealthEnd, LowestHealth int

	// Cumulative.
	BotsLost     int
	AreasCleared int
	PausedFrames int
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Party Report (F=%d..%d, %d samples) ===\n",
		wr.FromFrame, wr.ToFrame, wr.SampleCount)

	sb.WriteString("\n--- Player Position ---\n")
	ids := make([]int, 0, len(wr.AreaPct))
	for id := range wr.AreaPct {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		name := "outside"
		if id != NoArea {
			name = fmt.Sprintf("area %d", id)
		}
		fmt.Fprintf(&sb, "  %-10s %5.1f%%\n", name, wr.AreaPct[id])
	}

	sb.WriteString("\n--- Health ---\n")
	fmt.Fprintf(&sb, "  start=%d  end=%d  lowest=%d  (%s)\n",
		wr.HealthStart, wr.HealthEnd, wr.LowestHealth, healthLabel(wr.HealthEnd))

	sb.WriteString("\n--- Bots ---\n")
	fmt.Fprintf(&sb, "  alive=%.1f  running=%.1f  near=%.1f  lost=%d\n",
		wr.AvgBotsAlive, wr.AvgBotsRunning, wr.AvgBotsNear, wr.BotsLost)
	fmt.Fprintf(&sb, "  rockets in flight=%.1f  areas cleared=%d  paused frames=%d\n",
		wr.AvgRockets, wr.AreasCleared, wr.PausedFrames)

	return sb.String()
}

func healthLabel(h int) string {
	switch {
	case h <= 0:
		return "down"
	case h <= 25:
		return "critical"
	case h <= 50:
		return "hurt"
	case h < PlayerMaxHealth:
		return "scratched"
	default:
		return "full"
	}
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *PartyReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot F=%d (%d ms, %s) ---\n", rpt.Frame, rpt.Time, rpt.State)
	fmt.Fprintf(&sb, "Player: tile %s area=%d health=%d alive=%v winning=%v\n",
		rpt.PlayerTile, rpt.PlayerArea, rpt.PlayerHealth, rpt.PlayerAlive, rpt.Winning)
	fmt.Fprintf(&sb, "Bots:   alive=%d running=%d damaged=%d near=%d  rockets=%d explosions=%d\n",
		rpt.BotsAlive, rpt.BotsRunning, rpt.BotsDamaged, rpt.BotsNear, rpt.RocketsInFlight, rpt.Explosions)
	for _, a := range rpt.Areas {
		tag := ""
		if a.Cleared {
			tag = " cleared"
		}
		fmt.Fprintf(&sb, "  %-10s alive=%d running=%d damaged=%d%s\n", a.Name, a.Alive, a.Running, a.Damaged, tag)
	}
	for _, b := range rpt.Bots {
		fmt.Fprintf(&sb, "  %s %-8s tile %s hp=%d run=%v range=%.1f\n",
			slotLabel(b.Slot), b.Kind, b.Tile, b.Health, b.Running, b.PlayerRange)
	}
	return sb.String()
}

// History returns all collected reports.
func (r *PartyReporter) History() []PartyReport {
	return r.history
}
