package game

import (
	"fmt"
	"strings"
	"sync"
)

// SimLogEntry is one recorded party event.
type SimLogEntry struct {
	Frame    int
	Actor    string  // "P" for the player, slot label such as "B23", or "--"
	Category string  // party, combat, vision, area, item
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=0042] B23  combat    bot_fire         slot 13
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[F=%04d] %-5s %-9s %-16s %s",
		e.Frame, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured party events. It is unbounded and
// machine-readable; the headless report and the tests query it. The engine
// appends while views read, so every access is locked.
type SimLog struct {
	mu      sync.RWMutex
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-frame entries such as
// bots starting and stopping to run are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(frame int, actor, category, key, value string, numVal float64) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.entries = append(sl.entries, SimLogEntry{
		Frame:    frame,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(frame int, actor, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(frame, actor, category, key, value, numVal)
}

// Entries returns a copy of all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return append([]SimLogEntry(nil), sl.entries...)
}

// Len returns the number of recorded entries.
func (sl *SimLog) Len() int {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return len(sl.entries)
}

// Since returns a copy of the entries recorded after the first n.
func (sl *SimLog) Since(n int) []SimLogEntry {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(sl.entries) {
		return nil
	}
	return append([]SimLogEntry(nil), sl.entries[n:]...)
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for a specific actor label.
func (sl *SimLog) FilterActor(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.Entries() {
		if e.Actor == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterFrameRange returns entries within [from, to] inclusive.
func (sl *SimLog) FilterFrameRange(from, to int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.Entries() {
		if e.Frame >= from && e.Frame <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a frame range.
func (sl *SimLog) FormatRange(from, to int) string {
	var sb strings.Builder
	for _, e := range sl.FilterFrameRange(from, to) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of a party snapshot.
func (sl *SimLog) Summary(s Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at F=%04d (%d ms, %s) ---\n", s.Frame, s.Time, s.State)
	fmt.Fprintf(&sb, "Player: tile (%d,%d) health=%d winning=%v\n",
		TileOf(s.Player.X), TileOf(s.Player.Z), s.Player.Health, s.Player.Winning)

	perArea := map[int]int{}
	running := 0
	for _, b := range s.Bots {
		perArea[b.Area]++
		if b.Running {
			running++
		}
	}
	fmt.Fprintf(&sb, "Bots: %d alive, %d running, %d areas held\n", len(s.Bots), running, len(perArea))
	if len(s.Cleared) == 0 {
		sb.WriteString("Cleared: none\n")
	} else {
		ids := make([]string, len(s.Cleared))
		for i, id := range s.Cleared {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(&sb, "Cleared: [%s]\n", strings.Join(ids, ", "))
	}
	fmt.Fprintf(&sb, "Rockets: %d  impacts: %d  explosions: %d\n", len(s.Rockets), len(s.Impacts), len(s.Explodes))
	fmt.Fprintf(&sb, "Events: %d hits on player, %d bots killed\n",
		sl.CountCategory("combat", "player_hit"), sl.CountCategory("combat", "bot_killed"))
	return sb.String()
}
