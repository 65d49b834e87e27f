package game

import (
	"fmt"
	"strings"
)

// DebugReport renders the last lastFrames frames of a party as text: a
// summary, the event story, the stages the party went through and the
// raw log entries of the window.
func DebugReport(r *PartyReporter, log *SimLog, lastFrames int) string {
	if lastFrames <= 0 {
		lastFrames = 120
	}
	latest := r.Latest()
	if latest == nil {
		return "--- tuer debug report ---\n(no reports collected yet)\n"
	}
	toFrame := latest.Frame
	fromFrame := toFrame - lastFrames + 1
	if fromFrame < 0 {
		fromFrame = 0
	}
	var reps []PartyReport
	for _, rp := range r.History() {
		if rp.Frame >= fromFrame && rp.Frame <= toFrame {
			reps = append(reps, rp)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- tuer debug report ---\n")
	fmt.Fprintf(&b, "frame_range=[%d..%d] frames=%d samples=%d time=%dms\n\n",
		fromFrame, toFrame, toFrame-fromFrame+1, len(reps), latest.Time)

	sum := summarizeReports(reps)
	fmt.Fprintf(&b,
		"summary: party=%d paused=%d falling=%d movedFrames=%d maxStillRun=%d nearFrames=%d minHealth=%d\n",
		sum.partyFrames,
		sum.pausedFrames,
		sum.fallingFrames,
		sum.movedFrames,
		sum.maxStillRun,
		sum.nearFrames,
		sum.minHealth,
	)

	if events := storyEvents(reps); len(events) > 0 {
		b.WriteString("events:\n")
		for _, e := range events {
			b.WriteString("  - ")
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}

	b.WriteString("stages:\n")
	for i, st := range buildStages(reps) {
		tag := ""
		if st.still && st.count > 30 {
			tag = " STILL"
		}
		fmt.Fprintf(&b, "  %02d F=%d..%d (%d) %s area=%d hp=%d->%d bots=%d->%d near=%d%s\n",
			i+1, st.startFrame, st.endFrame, st.count,
			st.first.State, st.first.PlayerArea,
			st.first.PlayerHealth, st.last.PlayerHealth,
			st.first.BotsAlive, st.last.BotsAlive,
			st.last.BotsNear, tag)
	}

	if log != nil {
		entries := log.FormatRange(fromFrame, toFrame)
		if entries != "" {
			b.WriteString("\nlog:\n")
			b.WriteString(entries)
		}
	}
	return b.String()
}

type partyReportSummary struct {
	partyFrames   int
	pausedFrames  int
	fallingFrames int
	movedFrames   int
	maxStillRun   int
	nearFrames    int
	minHealth     int
}

func summarizeReports(reps []PartyReport) partyReportSummary {
	if len(reps) == 0 {
		return partyReportSummary{}
	}
	res := partyReportSummary{minHealth: PlayerMaxHealth}
	stillRun := 0
	for i, rp := range reps {
		switch rp.State {
		case StatePaused:
			res.pausedFrames++
		case StateFalling:
			res.fallingFrames++
		case StateInParty:
			res.partyFrames++
		}
		if i > 0 && rp.PlayerTile != reps[i-1].PlayerTile {
			res.movedFrames++
			stillRun = 0
		} else if rp.State == StateInParty {
			stillRun++
			if stillRun > res.maxStillRun {
				res.maxStillRun = stillRun
			}
		}
		if rp.BotsNear > 0 {
			res.nearFrames++
		}
		if rp.PlayerHealth < res.minHealth {
			res.minHealth = rp.PlayerHealth
		}
	}
	return res
}

type reportStage struct {
	startFrame int
	endFrame   int
	count      int
	first      PartyReport
	last       PartyReport
	still      bool
}

func buildStages(reps []PartyReport) []reportStage {
	if len(reps) == 0 {
		return nil
	}
	keyOf := func(rp PartyReport) string {
		return fmt.Sprintf("st=%d|area=%d|near=%t|run=%t|hp=%s|clr=%d",
			rp.State,
			rp.PlayerArea,
			rp.BotsNear > 0,
			rp.BotsRunning > 0,
			healthLabel(rp.PlayerHealth),
			rp.Cleared,
		)
	}

	stages := make([]reportStage, 0, 16)
	start := 0
	curKey := keyOf(reps[0])
	for i := 1; i < len(reps); i++ {
		k := keyOf(reps[i])
		if k == curKey {
			continue
		}
		stages = append(stages, makeStage(reps, start, i-1))
		start = i
		curKey = k
	}
	return append(stages, makeStage(reps, start, len(reps)-1))
}

func makeStage(reps []PartyReport, start, end int) reportStage {
	still := true
	for i := start + 1; i <= end; i++ {
		if reps[i].PlayerTile != reps[start].PlayerTile {
			still = false
			break
		}
	}
	return reportStage{
		startFrame: reps[start].Frame,
		endFrame:   reps[end].Frame,
		count:      end - start + 1,
		first:      reps[start],
		last:       reps[end],
		still:      still,
	}
}

func storyEvents(reps []PartyReport) []string {
	if len(reps) == 0 {
		return nil
	}
	var out []string
	prev := reps[0]
	for i := 1; i < len(reps); i++ {
		cur := reps[i]
		if cur.State != prev.State {
			out = append(out, fmt.Sprintf("F=%d state %s -> %s", cur.Frame, prev.State, cur.State))
		}
		if cur.PlayerArea != prev.PlayerArea {
			out = append(out, fmt.Sprintf("F=%d area %s -> %s", cur.Frame, areaLabel(prev.PlayerArea), areaLabel(cur.PlayerArea)))
		}
		if cur.PlayerHealth != prev.PlayerHealth {
			out = append(out, fmt.Sprintf("F=%d health %d -> %d", cur.Frame, prev.PlayerHealth, cur.PlayerHealth))
		}
		if cur.BotsAlive != prev.BotsAlive {
			out = append(out, fmt.Sprintf("F=%d bots %d -> %d", cur.Frame, prev.BotsAlive, cur.BotsAlive))
		}
		if cur.Cleared != prev.Cleared {
			out = append(out, fmt.Sprintf("F=%d cleared %d -> %d", cur.Frame, prev.Cleared, cur.Cleared))
		}
		if cur.Winning && !prev.Winning {
			out = append(out, fmt.Sprintf("F=%d winning", cur.Frame))
		}
		prev = cur
	}
	if len(out) > 24 {
		out = append(out[:24], fmt.Sprintf("... (%d more events)", len(out)-24))
	}
	return out
}

func areaLabel(id int) string {
	if id == NoArea {
		return "<none>"
	}
	return fmt.Sprint(id)
}
