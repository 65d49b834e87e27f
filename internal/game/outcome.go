package game

type PartyOutcome int

const (
	OutcomeInconclusive PartyOutcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o PartyOutcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type PartyOutcomeReason struct {
	Outcome      PartyOutcome
	BotsAlive    int
	BotsTotal    int
	AreasCleared int
	AreasTotal   int
	PlayerHealth int
	Deaths       int
	ExitReached  bool
	Description  string
}

// BotAreas returns the number of areas that hold bots at level start.
func (w *World) BotAreas() int {
	seen := make(map[int]bool)
	for _, p := range w.Placements {
		if p.Shape == ShapeBot {
			seen[p.Area] = true
		}
	}
	return len(seen)
}

// BotsPlaced returns the number of bots the level spawns on a new game.
func (w *World) BotsPlaced() int {
	n := 0
	for _, p := range w.Placements {
		if p.Shape == ShapeBot {
			n++
		}
	}
	return n
}

// DeterminePartyOutcome judges a party from its final snapshot and log.
// A death counts against the player even when a later respawn went on to
// win, so the description tells the two apart.
func DeterminePartyOutcome(w *World, s Snapshot, log *SimLog) PartyOutcomeReason {
	r := PartyOutcomeReason{
		BotsAlive:    len(s.Bots),
		BotsTotal:    w.BotsPlaced(),
		AreasCleared: len(s.Cleared),
		AreasTotal:   w.BotAreas(),
		PlayerHealth: s.Player.Health,
		Deaths:       log.CountCategory("party", "falling"),
		ExitReached:  log.HasEntry("party", "exit", ""),
	}

	switch {
	case s.Player.Winning && r.ExitReached:
		r.Outcome = OutcomeVictory
		r.Description = "victory_exit_reached"
	case s.Player.Winning && r.Deaths > 0:
		r.Outcome = OutcomeVictory
		r.Description = "victory_after_respawn"
	case s.Player.Winning:
		r.Outcome = OutcomeVictory
		r.Description = "victory_all_areas_cleared"
	case !s.Player.Alive || s.State == StateFalling:
		r.Outcome = OutcomeDefeat
		r.Description = "defeat_player_killed"
	case r.Deaths > 0 && r.AreasCleared == 0:
		r.Outcome = OutcomeDefeat
		r.Description = "defeat_killed_before_clearing"
	case r.AreasTotal == 0:
		r.Outcome = OutcomeInconclusive
		r.Description = "inconclusive_no_bots"
	case r.AreasCleared > 0:
		r.Outcome = OutcomeInconclusive
		r.Description = "inconclusive_partial_clear"
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = "inconclusive_insufficient_resolution"
	}
	return r
}
